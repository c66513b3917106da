package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/datasource"
)

// RSI is the relative strength index with exponentially smoothed gains and
// losses. It is not Wilder's smoothing: both averages use α = 2/(period+1)
// and start from the first delta.
type RSI struct {
	period int
}

// NewRSI creates an RSI with the given period.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Name returns the name of the indicator.
func (r *RSI) Name() IndicatorType {
	return IndicatorTypeRSI
}

// Config expects one parameter: period (int).
func (r *RSI) Config(params ...any) error {
	period, err := periodParam(params)
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

func (r *RSI) Period() int {
	return r.period
}

func (r *RSI) Value(series *datasource.PriceSeries) optional.Option[float64] {
	return RelativeStrengthIndex(series.Closes(), r.period)
}

// RelativeStrengthIndex computes the RSI of the last close in closes. It is
// None until closes holds at least period values (and at least two, so a
// delta exists). With no losses in the window the RSI is 100.
func RelativeStrengthIndex(closes []float64, period int) optional.Option[float64] {
	if period <= 0 || len(closes) < period || len(closes) < 2 {
		return optional.None[float64]()
	}

	alpha := 2.0 / float64(period+1)

	first := closes[1] - closes[0]
	avgGain := max(first, 0)
	avgLoss := max(-first, 0)

	for i := 2; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		avgGain = alpha*max(delta, 0) + (1-alpha)*avgGain
		avgLoss = alpha*max(-delta, 0) + (1-alpha)*avgLoss
	}

	if avgLoss == 0 {
		return optional.Some(100.0)
	}

	rs := avgGain / avgLoss

	return optional.Some(100 - 100/(1+rs))
}
