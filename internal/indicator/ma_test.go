package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-tracker/internal/datasource"
	"github.com/stretchr/testify/suite"
)

type MATestSuite struct {
	suite.Suite
}

func TestMASuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func (suite *MATestSuite) TestSimpleMovingAverage() {
	tests := []struct {
		name   string
		values []float64
		period int
		ok     bool
		want   float64
	}{
		{"exact window", []float64{1, 2, 3}, 3, true, 2},
		{"uses last values", []float64{100, 1, 2, 3}, 3, true, 2},
		{"too short", []float64{1, 2}, 3, false, 0},
		{"zero period", []float64{1, 2}, 0, false, 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			v := SimpleMovingAverage(tc.values, tc.period)
			suite.Equal(tc.ok, v.IsSome())

			if tc.ok {
				suite.InDelta(tc.want, v.Unwrap(), 1e-12)
			}
		})
	}
}

func (suite *MATestSuite) TestIndicatorValue() {
	series := datasource.NewPriceSeries("BRCN", 10)
	ma := NewMA(5)
	suite.Equal(IndicatorTypeMA, ma.Name())

	series.AppendAll([]float64{1, 2, 3, 4})
	suite.True(ma.Value(series).IsNone())

	series.Append(5)
	suite.InDelta(3.0, ma.Value(series).Unwrap(), 1e-12)
}

func (suite *MATestSuite) TestConfig() {
	ma := NewMA(5)
	suite.NoError(ma.Config(20))
	suite.Equal(20, ma.Period())
	suite.Error(ma.Config(-1))
}

func (suite *MATestSuite) TestEMA() {
	suite.Equal(0.0, ExponentialMovingAverage(nil, 3))
	suite.Equal(4.0, ExponentialMovingAverage([]float64{4}, 3))
	// α = 0.5: 1 -> 1.5 -> 2.25
	suite.InDelta(2.25, ExponentialMovingAverage([]float64{1, 2, 3}, 3), 1e-12)

	series := datasource.NewPriceSeries("BRCN", 10)
	ema := NewEMA(3)
	suite.Equal(IndicatorTypeEMA, ema.Name())
	series.AppendAll([]float64{1, 2})
	suite.True(ema.Value(series).IsNone())
	series.Append(3)
	suite.InDelta(2.25, ema.Value(series).Unwrap(), 1e-12)
	suite.NoError(ema.Config(4))
	suite.Equal(4, ema.Period())
}
