package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-tracker/internal/datasource"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) TestNewEngineRejectsBadPeriods() {
	_, err := NewEngine(0, 20, 14)
	suite.Error(err)

	_, err = NewEngine(5, 20, -1)
	suite.Error(err)

	e, err := NewEngine(5, 20, 14)
	suite.NoError(err)
	suite.Equal(14, e.RSIPeriod())
}

func (suite *EngineTestSuite) TestNothingDefinedBeforeRSIPeriod() {
	e, err := NewEngine(2, 3, 5)
	suite.Require().NoError(err)

	series := datasource.NewPriceSeries("BRCN", 50)

	for i := 1; i < 5; i++ {
		series.Append(float64(i))
		snap := e.Update(series)
		suite.False(snap.Ready())
		suite.True(snap.MAShort.IsNone())
		suite.True(snap.MALong.IsNone())
	}

	series.Append(5)
	snap := e.Update(series)
	suite.True(snap.Ready())
	suite.Equal(5, snap.Length)
	suite.InDelta(4.5, snap.MAShort.Unwrap(), 1e-12)
	suite.InDelta(4.0, snap.MALong.Unwrap(), 1e-12)
	suite.InDelta(3.5, snap.PrevMAShort.Unwrap(), 1e-12)
	suite.InDelta(3.0, snap.PrevMALong.Unwrap(), 1e-12)
	suite.True(snap.CrossoverReady())
}

func (suite *EngineTestSuite) TestLongMAMayLagRSI() {
	e, err := NewEngine(5, 20, 14)
	suite.Require().NoError(err)

	series := datasource.NewPriceSeries("BRCN", 50)
	for i := 0; i < 14; i++ {
		series.Append(1)
	}

	snap := e.Update(series)
	suite.True(snap.Ready())
	suite.True(snap.MAShort.IsSome())
	suite.True(snap.MALong.IsNone())
	suite.False(snap.CrossoverReady())
}
