package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/rxtech-lab/argo-tracker/internal/logger"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

// PriceFeed supplies closes for a fixed set of tickers.
type PriceFeed interface {
	// Name identifies the feed in logs and run stats.
	Name() string
	// Symbols returns the tickers the feed was built for.
	Symbols() []string
	// FetchInitialHistory returns up to n closes per ticker, oldest first.
	FetchInitialHistory(ctx context.Context, n int) (map[string][]float64, error)
	// FetchLatestPrices returns the current price of every ticker.
	FetchLatestPrices(ctx context.Context) (map[string]float64, error)
}

// FallbackReporter is implemented by feeds that substitute synthetic prices
// when their upstream fails.
type FallbackReporter interface {
	Fallbacks() int
}

// New builds the feed selected by cfg.Feed.Provider. Network feeds are
// wrapped in a FallbackFeed so the engine never sees a transport error.
func New(cfg config.Config, log *logger.Logger) (PriceFeed, error) {
	synthetic := NewSyntheticFeedFromConfig(cfg)

	var primary PriceFeed

	switch cfg.Feed.Provider {
	case config.FeedProviderSynthetic:
		return synthetic, nil
	case config.FeedProviderBinance:
		feed, err := NewBinanceFeed(BinanceOptions{
			BaseOptions: BaseOptions{Symbols: cfg.Simulation.Assets, Interval: cfg.Feed.Interval},
			APIKey:      cfg.Feed.BinanceAPIKey,
			SecretKey:   cfg.Feed.BinanceSecretKey,
		})
		if err != nil {
			return nil, err
		}

		primary = feed
	case config.FeedProviderPolygon:
		feed, err := NewPolygonFeed(PolygonOptions{
			BaseOptions: BaseOptions{Symbols: cfg.Simulation.Assets, Interval: cfg.Feed.Interval},
			ApiKey:      cfg.Feed.PolygonAPIKey,
		})
		if err != nil {
			return nil, err
		}

		primary = feed
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported price feed: %s", cfg.Feed.Provider)
	}

	return NewFallbackFeed(primary, synthetic, FallbackOptions{
		Timeout:           cfg.FeedTimeout(),
		RequestsPerSecond: cfg.Feed.RequestsPerSecond,
	}, log), nil
}

// fetchContext bounds a single upstream call.
func fetchContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}
