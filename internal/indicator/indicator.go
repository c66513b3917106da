// Package indicator computes moving averages and RSI over a price window.
// Every value is an optional.Option: None means the window is too short and
// nothing downstream may act on it.
package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/datasource"
)

type IndicatorType string

const (
	IndicatorTypeMA  IndicatorType = "ma"
	IndicatorTypeEMA IndicatorType = "ema"
	IndicatorTypeRSI IndicatorType = "rsi"
)

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() IndicatorType
	// Config sets the indicator parameters
	Config(params ...any) error
	// Period is the number of closes required before Value is defined
	Period() int
	// Value computes the indicator over the retained window of series
	Value(series *datasource.PriceSeries) optional.Option[float64]
}

func periodParam(params []any) (int, error) {
	if len(params) != 1 {
		return 0, errConfigArity
	}

	period, ok := params[0].(int)
	if !ok {
		periodFloat, ok := params[0].(float64)
		if !ok {
			return 0, errPeriodType
		}

		period = int(periodFloat)
	}

	if period <= 0 {
		return 0, invalidPeriod(period)
	}

	return period, nil
}
