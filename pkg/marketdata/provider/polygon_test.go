package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	trackerErrors "github.com/rxtech-lab/argo-tracker/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type mockPolygonAPIClient struct {
	closes     map[string][]float64
	last       map[string]float64
	err        error
	from, to   time.Time
	multiplier int
	timespan   models.Timespan
}

func (m *mockPolygonAPIClient) Closes(_ context.Context, ticker string, from, to time.Time, multiplier int, timespan models.Timespan) ([]float64, error) {
	m.from, m.to, m.multiplier, m.timespan = from, to, multiplier, timespan
	if m.err != nil {
		return nil, m.err
	}

	return m.closes[ticker], nil
}

func (m *mockPolygonAPIClient) LastTrade(_ context.Context, ticker string) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}

	return m.last[ticker], nil
}

type PolygonFeedTestSuite struct {
	suite.Suite
	client *mockPolygonAPIClient
	feed   *PolygonFeed
	now    time.Time
}

func TestPolygonFeedSuite(t *testing.T) {
	suite.Run(t, new(PolygonFeedTestSuite))
}

func (suite *PolygonFeedTestSuite) SetupTest() {
	suite.now = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	suite.client = &mockPolygonAPIClient{
		closes: map[string][]float64{"AAPL": {1, 2, 3, 4, 5}},
		last:   map[string]float64{"AAPL": 5.5},
	}
	suite.feed = NewPolygonFeedWithClient(suite.client, []string{"AAPL"}, "5m")
	suite.feed.now = func() time.Time { return suite.now }
}

func (suite *PolygonFeedTestSuite) TestFetchInitialHistoryKeepsTail() {
	history, err := suite.feed.FetchInitialHistory(context.Background(), 3)
	suite.Require().NoError(err)
	suite.Equal([]float64{3, 4, 5}, history["AAPL"])
	suite.Equal(5, suite.client.multiplier)
	suite.Equal(models.Minute, suite.client.timespan)
	suite.Equal(suite.now, suite.client.to)
	suite.Equal(suite.now.Add(-30*time.Minute), suite.client.from)
}

func (suite *PolygonFeedTestSuite) TestFetchLatestPrices() {
	prices, err := suite.feed.FetchLatestPrices(context.Background())
	suite.Require().NoError(err)
	suite.Equal(5.5, prices["AAPL"])
}

func (suite *PolygonFeedTestSuite) TestErrors() {
	suite.client.err = errors.New("401")

	_, err := suite.feed.FetchInitialHistory(context.Background(), 3)
	suite.True(trackerErrors.HasCode(err, trackerErrors.ErrCodeMarketDataFetchFailed))

	_, err = suite.feed.FetchLatestPrices(context.Background())
	suite.True(trackerErrors.HasCode(err, trackerErrors.ErrCodeMarketDataFetchFailed))
}

func (suite *PolygonFeedTestSuite) TestNewPolygonFeedRequiresKey() {
	_, err := NewPolygonFeed(PolygonOptions{BaseOptions: BaseOptions{Symbols: []string{"AAPL"}, Interval: "1m"}})
	suite.True(trackerErrors.HasCode(err, trackerErrors.ErrCodeMissingAPIKey))

	feed, err := NewPolygonFeed(PolygonOptions{BaseOptions: BaseOptions{Symbols: []string{"AAPL"}, Interval: "1m"}, ApiKey: "key"})
	suite.Require().NoError(err)
	suite.Equal("polygon", feed.Name())
}

func (suite *PolygonFeedTestSuite) TestInterval() {
	tests := []struct {
		interval   Interval
		multiplier int
		timespan   models.Timespan
		duration   time.Duration
	}{
		{"1s", 1, models.Second, time.Second},
		{"15m", 15, models.Minute, 15 * time.Minute},
		{"4h", 4, models.Hour, 4 * time.Hour},
		{"3d", 3, models.Day, 72 * time.Hour},
		{"1w", 1, models.Week, 7 * 24 * time.Hour},
	}

	for _, tc := range tests {
		suite.Run(string(tc.interval), func() {
			suite.True(tc.interval.Valid())
			suite.Equal(tc.multiplier, tc.interval.Multiplier())
			suite.Equal(tc.timespan, tc.interval.Timespan())
			suite.Equal(tc.duration, tc.interval.Duration())
		})
	}

	suite.False(Interval("7m").Valid())
	suite.Equal(models.Day, Interval("7m").Timespan())
}
