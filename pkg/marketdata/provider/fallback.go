package provider

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rxtech-lab/argo-tracker/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FallbackOptions bound the calls made to the primary feed.
type FallbackOptions struct {
	Timeout           time.Duration
	RequestsPerSecond float64
}

// FallbackFeed wraps a network feed. Every call is rate limited and
// bounded by a timeout; on failure, or for tickers the primary did not
// return, it substitutes a synthetic step from the last known price and
// logs a warning. It only returns an error when ctx itself is done.
type FallbackFeed struct {
	primary   PriceFeed
	synthetic *SyntheticFeed
	timeout   time.Duration
	limiter   *rate.Limiter
	log       *logger.Logger

	mu        sync.Mutex
	last      map[string]float64
	fallbacks atomic.Int64
}

var _ PriceFeed = (*FallbackFeed)(nil)
var _ FallbackReporter = (*FallbackFeed)(nil)

func NewFallbackFeed(primary PriceFeed, synthetic *SyntheticFeed, opts FallbackOptions, log *logger.Logger) *FallbackFeed {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &FallbackFeed{
		primary:   primary,
		synthetic: synthetic,
		timeout:   opts.Timeout,
		limiter:   rate.NewLimiter(limit, 1),
		log:       log,
		mu:        sync.Mutex{},
		last:      map[string]float64{},
		fallbacks: atomic.Int64{},
	}
}

func (f *FallbackFeed) Name() string {
	return f.primary.Name()
}

func (f *FallbackFeed) Symbols() []string {
	return f.primary.Symbols()
}

// Fallbacks counts the calls that used synthetic data for at least one ticker.
func (f *FallbackFeed) Fallbacks() int {
	return int(f.fallbacks.Load())
}

// FetchInitialHistory fills tickers the primary could not serve with the
// synthetic warm-up window.
func (f *FallbackFeed) FetchInitialHistory(ctx context.Context, n int) (map[string][]float64, error) {
	history, err := f.callHistory(ctx, n)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	out := make(map[string][]float64, len(f.Symbols()))
	var missing []string

	for _, symbol := range f.Symbols() {
		closes, ok := history[symbol]
		if err != nil || !ok || len(closes) == 0 || !allPositive(closes) {
			closes = f.synthetic.History(symbol, n)
			missing = append(missing, symbol)
		}

		out[symbol] = closes
	}

	if len(missing) > 0 {
		f.recordFallback("initial history unavailable, using synthetic warm-up", missing, err)
	}

	f.mu.Lock()
	for symbol, closes := range out {
		f.last[symbol] = closes[len(closes)-1]
	}
	f.mu.Unlock()

	return out, nil
}

// FetchLatestPrices always returns a price for every ticker.
func (f *FallbackFeed) FetchLatestPrices(ctx context.Context) (map[string]float64, error) {
	prices, err := f.callLatest(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	known := make(map[string]float64, len(f.Symbols()))
	for _, symbol := range f.Symbols() {
		if p, ok := f.last[symbol]; ok {
			known[symbol] = p
		} else {
			known[symbol] = f.synthetic.StartPrice(symbol)
		}
	}

	perturbed := f.synthetic.Perturb(known)
	out := make(map[string]float64, len(known))
	var missing []string

	for _, symbol := range f.Symbols() {
		price, ok := prices[symbol]
		if err != nil || !ok || price <= 0 {
			price = perturbed[symbol]
			missing = append(missing, symbol)
		}

		out[symbol] = price
		f.last[symbol] = price
	}

	if len(missing) > 0 {
		f.recordFallback("latest prices unavailable, using synthetic prices", missing, err)
	}

	return out, nil
}

func (f *FallbackFeed) callHistory(ctx context.Context, n int) (map[string][]float64, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := fetchContext(ctx, f.timeout)
	defer cancel()

	return f.primary.FetchInitialHistory(callCtx, n)
}

func (f *FallbackFeed) callLatest(ctx context.Context) (map[string]float64, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := fetchContext(ctx, f.timeout)
	defer cancel()

	return f.primary.FetchLatestPrices(callCtx)
}

func (f *FallbackFeed) recordFallback(msg string, symbols []string, err error) {
	f.fallbacks.Add(1)

	fields := []zap.Field{
		zap.String("feed", f.primary.Name()),
		zap.Strings("symbols", slices.Clone(symbols)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	f.log.Warn(msg, fields...)
}

func allPositive(values []float64) bool {
	for _, v := range values {
		if v <= 0 {
			return false
		}
	}

	return true
}
