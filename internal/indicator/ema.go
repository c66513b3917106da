package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/datasource"
)

// EMA is the exponential moving average of the retained window.
type EMA struct {
	period int
}

// NewEMA creates an EMA with the given span.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

// Name returns the name of the indicator.
func (e *EMA) Name() IndicatorType {
	return IndicatorTypeEMA
}

// Config expects one parameter: period (int).
func (e *EMA) Config(params ...any) error {
	period, err := periodParam(params)
	if err != nil {
		return err
	}

	e.period = period

	return nil
}

func (e *EMA) Period() int {
	return e.period
}

func (e *EMA) Value(series *datasource.PriceSeries) optional.Option[float64] {
	if series.Len() < e.period {
		return optional.None[float64]()
	}

	return optional.Some(ExponentialMovingAverage(series.Closes(), e.period))
}

// ExponentialMovingAverage runs avg[t] = α*x[t] + (1-α)*avg[t-1] over values
// with α = 2/(span+1), seeded with the first value. It returns 0 for no values.
func ExponentialMovingAverage(values []float64, span int) float64 {
	if len(values) == 0 {
		return 0
	}

	alpha := 2.0 / float64(span+1)

	avg := values[0]
	for _, v := range values[1:] {
		avg = alpha*v + (1-alpha)*avg
	}

	return avg
}
