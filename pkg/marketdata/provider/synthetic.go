package provider

import (
	"context"
	"maps"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-tracker/internal/config"
)

// minSyntheticPrice keeps a random walk strictly positive.
const minSyntheticPrice = 1e-8

// SyntheticFeed is a seedable random walk: each step multiplies the last
// price by 1 + N(0, noise).
type SyntheticFeed struct {
	mu      sync.Mutex
	symbols []string
	start   map[string]float64
	last    map[string]float64
	noise   float64
	rng     *rand.Rand
}

// NewSyntheticFeed creates a walk starting at start[symbol] for every symbol.
func NewSyntheticFeed(symbols []string, start map[string]float64, noise float64, seed int64) *SyntheticFeed {
	return &SyntheticFeed{
		mu:      sync.Mutex{},
		symbols: slices.Clone(symbols),
		start:   maps.Clone(start),
		last:    maps.Clone(start),
		noise:   noise,
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec // simulated prices
	}
}

// NewSyntheticFeedFromConfig uses the configured start prices and noise. An
// absent seed is taken from the clock.
func NewSyntheticFeedFromConfig(cfg config.Config) *SyntheticFeed {
	start := make(map[string]float64, len(cfg.Simulation.Assets))
	for _, symbol := range cfg.Simulation.Assets {
		start[symbol] = cfg.StartPrice(symbol)
	}

	seed := cfg.Seed.TakeOr(time.Now().UnixNano())

	return NewSyntheticFeed(cfg.Simulation.Assets, start, cfg.Feed.NoiseStdDev, seed)
}

func (f *SyntheticFeed) Name() string {
	return "synthetic"
}

func (f *SyntheticFeed) Symbols() []string {
	return slices.Clone(f.symbols)
}

// FetchInitialHistory repeats the start price n times, then resets the
// walk to it.
func (f *SyntheticFeed) FetchInitialHistory(_ context.Context, n int) (map[string][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string][]float64, len(f.symbols))

	for _, symbol := range f.symbols {
		out[symbol] = f.flatHistory(symbol, n)
		f.last[symbol] = f.start[symbol]
	}

	return out, nil
}

// FetchLatestPrices advances every walk one step.
func (f *SyntheticFeed) FetchLatestPrices(_ context.Context) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]float64, len(f.symbols))

	for _, symbol := range f.symbols {
		price := f.step(f.last[symbol])
		f.last[symbol] = price
		out[symbol] = price
	}

	return out, nil
}

// Perturb moves each price in last one random step without touching the
// walk. The result has the same keys as last.
func (f *SyntheticFeed) Perturb(last map[string]float64) map[string]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]float64, len(last))
	for symbol, price := range last {
		out[symbol] = f.step(price)
	}

	return out
}

// History returns the warm-up window for symbol.
func (f *SyntheticFeed) History(symbol string, n int) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.flatHistory(symbol, n)
}

// StartPrice is the configured start price of symbol.
func (f *SyntheticFeed) StartPrice(symbol string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.start[symbol]
}

func (f *SyntheticFeed) flatHistory(symbol string, n int) []float64 {
	history := make([]float64, n)
	for i := range history {
		history[i] = f.start[symbol]
	}

	return history
}

func (f *SyntheticFeed) step(price float64) float64 {
	next := price * (1 + f.rng.NormFloat64()*f.noise)

	return max(next, minSyntheticPrice)
}
