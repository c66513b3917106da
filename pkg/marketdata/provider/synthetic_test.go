package provider

import (
	"context"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/stretchr/testify/suite"
)

type SyntheticFeedTestSuite struct {
	suite.Suite
}

func TestSyntheticFeedSuite(t *testing.T) {
	suite.Run(t, new(SyntheticFeedTestSuite))
}

func (suite *SyntheticFeedTestSuite) newFeed(seed int64) *SyntheticFeed {
	return NewSyntheticFeed([]string{"BRCN", "SOL"}, map[string]float64{"BRCN": 0.5, "SOL": 100}, 0.005, seed)
}

func (suite *SyntheticFeedTestSuite) TestWarmupRepeatsStartPrice() {
	history, err := suite.newFeed(1).FetchInitialHistory(context.Background(), 20)
	suite.Require().NoError(err)
	suite.Len(history["BRCN"], 20)

	for _, p := range history["BRCN"] {
		suite.Equal(0.5, p)
	}
}

func (suite *SyntheticFeedTestSuite) TestSeedIsReproducible() {
	a, b := suite.newFeed(42), suite.newFeed(42)

	for range 10 {
		pa, err := a.FetchLatestPrices(context.Background())
		suite.Require().NoError(err)
		pb, err := b.FetchLatestPrices(context.Background())
		suite.Require().NoError(err)
		suite.Equal(pa, pb)
	}
}

func (suite *SyntheticFeedTestSuite) TestWalkStaysPositiveAndNear() {
	feed := suite.newFeed(3)
	last := 0.5

	for range 200 {
		prices, err := feed.FetchLatestPrices(context.Background())
		suite.Require().NoError(err)
		suite.Len(prices, 2)
		suite.Greater(prices["BRCN"], 0.0)
		// six sigma bound on one step
		suite.InEpsilon(last, prices["BRCN"], 0.03)
		last = prices["BRCN"]
	}
}

func (suite *SyntheticFeedTestSuite) TestPerturbKeepsKeys() {
	out := suite.newFeed(5).Perturb(map[string]float64{"X": 10})
	suite.Len(out, 1)
	suite.Contains(out, "X")
	suite.InEpsilon(10, out["X"], 0.03)
}

func (suite *SyntheticFeedTestSuite) TestFromConfig() {
	cfg := config.Default()
	cfg.Simulation.Assets = []string{"BRCN", "SOL"}
	cfg.Feed.StartPrices = map[string]float64{"SOL": 150}
	cfg.Seed = optional.Some[int64](9)

	feed := NewSyntheticFeedFromConfig(cfg)
	suite.Equal("synthetic", feed.Name())
	suite.Equal(0.5, feed.StartPrice("BRCN"))
	suite.Equal(150.0, feed.StartPrice("SOL"))
	suite.Equal([]string{"BRCN", "SOL"}, feed.Symbols())
}
