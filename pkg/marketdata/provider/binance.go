package provider

import (
	"context"
	"slices"
	"strconv"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

// binanceKlinesLimit is the largest page the klines endpoint serves.
const binanceKlinesLimit = 1000

// BinanceAPIClient is the subset of the Binance REST API the feed uses.
type BinanceAPIClient interface {
	Klines(ctx context.Context, symbol string, interval string, limit int) ([]*binance.Kline, error)
	Prices(ctx context.Context, symbols []string) ([]*binance.SymbolPrice, error)
}

type binanceSDKClient struct {
	client *binance.Client
}

func (c *binanceSDKClient) Klines(ctx context.Context, symbol string, interval string, limit int) ([]*binance.Kline, error) {
	return c.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
}

func (c *binanceSDKClient) Prices(ctx context.Context, symbols []string) ([]*binance.SymbolPrice, error) {
	return c.client.NewListPricesService().Symbols(symbols).Do(ctx)
}

// BinanceFeed reads klines for history and the ticker price endpoint for
// the latest prices.
type BinanceFeed struct {
	client   BinanceAPIClient
	symbols  []string
	interval string
}

// NewBinanceFeed validates opts and creates a feed backed by go-binance.
func NewBinanceFeed(opts BinanceOptions) (*BinanceFeed, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "binance feed", err)
	}

	client := binance.NewClient(opts.APIKey, opts.SecretKey)
	if opts.BaseURL != "" {
		client.BaseURL = opts.BaseURL
	}

	return NewBinanceFeedWithClient(&binanceSDKClient{client: client}, opts.Symbols, opts.Interval), nil
}

// NewBinanceFeedWithClient creates a feed over an existing API client.
func NewBinanceFeedWithClient(client BinanceAPIClient, symbols []string, interval string) *BinanceFeed {
	return &BinanceFeed{
		client:   client,
		symbols:  slices.Clone(symbols),
		interval: interval,
	}
}

func (f *BinanceFeed) Name() string {
	return "binance"
}

func (f *BinanceFeed) Symbols() []string {
	return slices.Clone(f.symbols)
}

// FetchInitialHistory returns the closes of the last n klines per symbol.
func (f *BinanceFeed) FetchInitialHistory(ctx context.Context, n int) (map[string][]float64, error) {
	limit := min(max(n, 1), binanceKlinesLimit)
	out := make(map[string][]float64, len(f.symbols))

	for _, symbol := range f.symbols {
		klines, err := f.client.Klines(ctx, symbol, f.interval, limit)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "binance klines for %s", symbol)
		}

		closes := make([]float64, 0, len(klines))

		for _, k := range klines {
			closePrice, err := strconv.ParseFloat(k.Close, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "binance close %q for %s", k.Close, symbol)
			}

			closes = append(closes, closePrice)
		}

		out[symbol] = closes
	}

	return out, nil
}

// FetchLatestPrices returns the ticker prices. Symbols the exchange did not
// return are absent from the map.
func (f *BinanceFeed) FetchLatestPrices(ctx context.Context) (map[string]float64, error) {
	prices, err := f.client.Prices(ctx, f.symbols)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "binance ticker prices", err)
	}

	out := make(map[string]float64, len(prices))

	for _, p := range prices {
		price, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "binance price %q for %s", p.Price, p.Symbol)
		}

		out[p.Symbol] = price
	}

	return out, nil
}
