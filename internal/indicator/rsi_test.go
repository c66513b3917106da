package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-tracker/internal/datasource"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestName() {
	suite.Equal(IndicatorTypeRSI, NewRSI(14).Name())
}

func (suite *RSITestSuite) TestConfig() {
	rsi := NewRSI(14)

	suite.NoError(rsi.Config(21))
	suite.Equal(21, rsi.Period())

	suite.NoError(rsi.Config(9.0))
	suite.Equal(9, rsi.Period())

	err := rsi.Config(0)
	suite.Error(err)
	suite.Contains(err.Error(), "period must be a positive integer, got 0")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	suite.Error(rsi.Config("14"))
	suite.Error(rsi.Config())
}

func (suite *RSITestSuite) TestKnownValues() {
	tests := []struct {
		name     string
		closes   []float64
		period   int
		expected float64
	}{
		// α = 0.5: gains 1,0,1 -> 0.75; losses 0,1,0 -> 0.25; RS = 3
		{"alternating", []float64{1, 2, 1, 2}, 3, 75},
		{"only losses", []float64{3, 2, 1}, 3, 0},
		{"flat", []float64{5, 5, 5, 5}, 3, 100},
		{"only gains", []float64{1, 2, 3, 4, 5}, 3, 100},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			v := RelativeStrengthIndex(tc.closes, tc.period)
			suite.Require().True(v.IsSome())
			suite.InDelta(tc.expected, v.Unwrap(), 1e-12)
		})
	}
}

func (suite *RSITestSuite) TestNotReadyBeforePeriod() {
	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}

	for n := 0; n < 14; n++ {
		suite.True(RelativeStrengthIndex(closes[:n], 14).IsNone(), "n=%d", n)
	}

	suite.True(RelativeStrengthIndex(closes, 14).IsSome())
}

func (suite *RSITestSuite) TestMonotonicIncreaseIsHundred() {
	series := datasource.NewPriceSeries("BRCN", 300)
	price := 0.5

	for i := 0; i < 300; i++ {
		price *= 1.001
		series.Append(price)
	}

	v := NewRSI(14).Value(series)
	suite.Require().True(v.IsSome())
	suite.Equal(100.0, v.Unwrap())
}

func (suite *RSITestSuite) TestBounded() {
	closes := make([]float64, 0, 200)
	for i := 0; i < 200; i++ {
		closes = append(closes, 100+10*math.Sin(float64(i)/3))
	}

	for n := 14; n <= len(closes); n++ {
		v := RelativeStrengthIndex(closes[:n], 14).Unwrap()
		suite.GreaterOrEqual(v, 0.0)
		suite.LessOrEqual(v, 100.0)
	}
}

func (suite *RSITestSuite) TestSmoothingDiffersFromWilder() {
	closes := []float64{10, 11, 10.5, 11.5, 11, 12, 11.8}

	// Wilder's α for period 3 would be 1/3; ours is 0.5.
	gains, losses := []float64{}, []float64{}
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gains = append(gains, max(d, 0))
		losses = append(losses, max(-d, 0))
	}

	avgGain := ExponentialMovingAverage(gains, 3)
	avgLoss := ExponentialMovingAverage(losses, 3)
	expected := 100 - 100/(1+avgGain/avgLoss)

	suite.InDelta(expected, RelativeStrengthIndex(closes, 3).Unwrap(), 1e-12)
}
