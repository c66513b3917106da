package mocks

import (
	"context"
	"slices"
	"sync"
)

// ScriptedFeed replays fixed close series. After the script runs out the
// last price repeats.
type ScriptedFeed struct {
	mu      sync.Mutex
	symbols []string
	history map[string][]float64
	script  map[string][]float64
	cursor  int
	calls   int
}

// NewScriptedFeed serves history from FetchInitialHistory and script one
// step per FetchLatestPrices call. Every symbol's script must be non-empty.
func NewScriptedFeed(symbols []string, history, script map[string][]float64) *ScriptedFeed {
	return &ScriptedFeed{
		mu:      sync.Mutex{},
		symbols: slices.Clone(symbols),
		history: history,
		script:  script,
		cursor:  0,
		calls:   0,
	}
}

func (f *ScriptedFeed) Name() string {
	return "scripted"
}

func (f *ScriptedFeed) Symbols() []string {
	return slices.Clone(f.symbols)
}

func (f *ScriptedFeed) FetchInitialHistory(_ context.Context, n int) (map[string][]float64, error) {
	out := make(map[string][]float64, len(f.history))

	for symbol, closes := range f.history {
		if len(closes) > n {
			closes = closes[len(closes)-n:]
		}

		out[symbol] = slices.Clone(closes)
	}

	return out, nil
}

func (f *ScriptedFeed) FetchLatestPrices(_ context.Context) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]float64, len(f.symbols))

	for _, symbol := range f.symbols {
		series := f.script[symbol]
		out[symbol] = series[min(f.cursor, len(series)-1)]
	}

	f.cursor++
	f.calls++

	return out, nil
}

// Calls is the number of FetchLatestPrices calls served.
func (f *ScriptedFeed) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}
