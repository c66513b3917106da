package provider

import (
	"context"
	"slices"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

// PolygonAPIClient is the subset of the Polygon REST API the feed uses.
type PolygonAPIClient interface {
	Closes(ctx context.Context, ticker string, from, to time.Time, multiplier int, timespan models.Timespan) ([]float64, error)
	LastTrade(ctx context.Context, ticker string) (float64, error)
}

type polygonSDKClient struct {
	client *polygon.Client
}

func (c *polygonSDKClient) Closes(ctx context.Context, ticker string, from, to time.Time, multiplier int, timespan models.Timespan) ([]float64, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithLimit(50000)

	iter := c.client.ListAggs(ctx, params)

	var closes []float64
	for iter.Next() {
		closes = append(closes, iter.Item().Close)
	}

	if iter.Err() != nil {
		return nil, iter.Err()
	}

	return closes, nil
}

func (c *polygonSDKClient) LastTrade(ctx context.Context, ticker string) (float64, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	res, err := c.client.GetLastTrade(ctx, &models.GetLastTradeParams{Ticker: ticker})
	if err != nil {
		return 0, err
	}

	return res.Results.Price, nil
}

// PolygonFeed reads aggregates for history and the last trade for the
// latest prices.
type PolygonFeed struct {
	client   PolygonAPIClient
	symbols  []string
	interval Interval
	now      func() time.Time
}

// NewPolygonFeed validates opts and creates a feed backed by the Polygon SDK.
func NewPolygonFeed(opts PolygonOptions) (*PolygonFeed, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingAPIKey, "polygon feed", err)
	}

	return NewPolygonFeedWithClient(&polygonSDKClient{client: polygon.New(opts.ApiKey)}, opts.Symbols, opts.Interval), nil
}

// NewPolygonFeedWithClient creates a feed over an existing API client.
func NewPolygonFeedWithClient(client PolygonAPIClient, symbols []string, interval string) *PolygonFeed {
	return &PolygonFeed{
		client:   client,
		symbols:  slices.Clone(symbols),
		interval: Interval(interval),
		now:      time.Now,
	}
}

func (f *PolygonFeed) Name() string {
	return "polygon"
}

func (f *PolygonFeed) Symbols() []string {
	return slices.Clone(f.symbols)
}

// FetchInitialHistory requests a window wide enough for n candles, doubled
// to cover closed sessions, and keeps the last n closes.
func (f *PolygonFeed) FetchInitialHistory(ctx context.Context, n int) (map[string][]float64, error) {
	to := f.now()
	from := to.Add(-2 * time.Duration(max(n, 1)) * f.interval.Duration())
	out := make(map[string][]float64, len(f.symbols))

	for _, symbol := range f.symbols {
		closes, err := f.client.Closes(ctx, symbol, from, to, f.interval.Multiplier(), f.interval.Timespan())
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "polygon aggregates for %s", symbol)
		}

		if len(closes) > n {
			closes = closes[len(closes)-n:]
		}

		out[symbol] = closes
	}

	return out, nil
}

func (f *PolygonFeed) FetchLatestPrices(ctx context.Context) (map[string]float64, error) {
	out := make(map[string]float64, len(f.symbols))

	for _, symbol := range f.symbols {
		price, err := f.client.LastTrade(ctx, symbol)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "polygon last trade for %s", symbol)
		}

		out[symbol] = price
	}

	return out, nil
}
