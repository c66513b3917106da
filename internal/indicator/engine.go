package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/datasource"
)

// Snapshot is the set of indicator values for one asset at one tick.
// PrevMAShort and PrevMALong are the averages one tick earlier and are what
// crossover detection compares against.
type Snapshot struct {
	Length      int
	MAShort     optional.Option[float64]
	MALong      optional.Option[float64]
	PrevMAShort optional.Option[float64]
	PrevMALong  optional.Option[float64]
	RSI         optional.Option[float64]
}

// Ready reports whether signals may be evaluated. Nothing is ready before
// the window holds rsiPeriod closes.
func (s Snapshot) Ready() bool {
	return s.RSI.IsSome()
}

// CrossoverReady reports whether both averages are defined now and one tick ago.
func (s Snapshot) CrossoverReady() bool {
	return s.Ready() && s.MAShort.IsSome() && s.MALong.IsSome() &&
		s.PrevMAShort.IsSome() && s.PrevMALong.IsSome()
}

// Engine recomputes every indicator from the full retained window on each
// Update.
type Engine struct {
	maShort *MA
	maLong  *MA
	rsi     *RSI
}

// NewEngine validates the periods and creates an Engine.
func NewEngine(maShortPeriod, maLongPeriod, rsiPeriod int) (*Engine, error) {
	e := &Engine{
		maShort: NewMA(maShortPeriod),
		maLong:  NewMA(maLongPeriod),
		rsi:     NewRSI(rsiPeriod),
	}

	for _, ind := range []Indicator{e.maShort, e.maLong, e.rsi} {
		if err := ind.Config(ind.Period()); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// RSIPeriod returns the gating period.
func (e *Engine) RSIPeriod() int {
	return e.rsi.Period()
}

// Update computes the Snapshot for the current window of series.
func (e *Engine) Update(series *datasource.PriceSeries) Snapshot {
	closes := series.Closes()

	snap := Snapshot{
		Length:      len(closes),
		MAShort:     optional.None[float64](),
		MALong:      optional.None[float64](),
		PrevMAShort: optional.None[float64](),
		PrevMALong:  optional.None[float64](),
		RSI:         RelativeStrengthIndex(closes, e.rsi.Period()),
	}

	if !snap.Ready() {
		return snap
	}

	snap.MAShort = SimpleMovingAverage(closes, e.maShort.Period())
	snap.MALong = SimpleMovingAverage(closes, e.maLong.Period())

	if len(closes) > 1 {
		prev := closes[:len(closes)-1]
		snap.PrevMAShort = SimpleMovingAverage(prev, e.maShort.Period())
		snap.PrevMALong = SimpleMovingAverage(prev, e.maLong.Period())
	}

	return snap
}
