package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/datasource"
)

// MA is the simple moving average of the last period closes.
type MA struct {
	period int
}

// NewMA creates an MA with the given period.
func NewMA(period int) *MA {
	return &MA{period: period}
}

// Name returns the name of the indicator.
func (m *MA) Name() IndicatorType {
	return IndicatorTypeMA
}

// Config expects one parameter: period (int).
func (m *MA) Config(params ...any) error {
	period, err := periodParam(params)
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

func (m *MA) Period() int {
	return m.period
}

func (m *MA) Value(series *datasource.PriceSeries) optional.Option[float64] {
	return SimpleMovingAverage(series.Tail(m.period), m.period)
}

// SimpleMovingAverage is the arithmetic mean of the last period values.
// It is None when fewer than period values are given.
func SimpleMovingAverage(values []float64, period int) optional.Option[float64] {
	if period <= 0 || len(values) < period {
		return optional.None[float64]()
	}

	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}

	return optional.Some(sum / float64(period))
}
