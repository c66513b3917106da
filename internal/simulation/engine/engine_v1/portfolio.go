package engine_v1

import (
	"slices"
	"time"

	"github.com/rxtech-lab/argo-tracker/internal/indicator"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

// Portfolio aggregates the asset ledgers in configured order and keeps the
// equity history, the running peak and the buy-and-hold benchmark.
type Portfolio struct {
	symbols        []string
	ledgers        map[string]*AssetLedger
	initialCapital float64
	// benchmarkUnits is the quantity each asset's share of the initial
	// capital bought at the first observed price. Empty until then.
	benchmarkUnits map[string]float64
	equity         []float64
	peak           float64
}

// NewPortfolio splits initialCapital evenly across symbols.
func NewPortfolio(symbols []string, initialCapital float64) *Portfolio {
	p := &Portfolio{
		symbols:        slices.Clone(symbols),
		ledgers:        make(map[string]*AssetLedger, len(symbols)),
		initialCapital: initialCapital,
		benchmarkUnits: map[string]float64{},
		equity:         []float64{},
		peak:           0,
	}

	share := 0.0
	if len(symbols) > 0 {
		share = initialCapital / float64(len(symbols))
	}

	for _, symbol := range symbols {
		p.ledgers[symbol] = NewAssetLedger(symbol, share)
	}

	return p
}

func (p *Portfolio) Symbols() []string {
	return slices.Clone(p.symbols)
}

func (p *Portfolio) InitialCapital() float64 {
	return p.initialCapital
}

// Ledger returns the ledger for symbol.
func (p *Portfolio) Ledger(symbol string) (*AssetLedger, error) {
	ledger, ok := p.ledgers[symbol]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownAsset, "unknown asset %s", symbol)
	}

	return ledger, nil
}

// Ledgers returns the ledgers in configured order.
func (p *Portfolio) Ledgers() []*AssetLedger {
	out := make([]*AssetLedger, 0, len(p.symbols))
	for _, symbol := range p.symbols {
		out = append(out, p.ledgers[symbol])
	}

	return out
}

// Cash is the sum of every asset's cash.
func (p *Portfolio) Cash() float64 {
	total := 0.0
	for _, ledger := range p.ledgers {
		total += ledger.Cash()
	}

	return total
}

// TotalValue marks every ledger at prices.
func (p *Portfolio) TotalValue(prices map[string]float64) (float64, error) {
	total := 0.0

	for _, symbol := range p.symbols {
		price, ok := prices[symbol]
		if !ok {
			return 0, errors.Newf(errors.ErrCodeMissingTickPrice, "no price for %s", symbol)
		}

		total += p.ledgers[symbol].Value(price)
	}

	return total, nil
}

// BenchmarkValue is the buy-and-hold value at prices. Before the first
// snapshot it is the initial capital.
func (p *Portfolio) BenchmarkValue(prices map[string]float64) float64 {
	if len(p.benchmarkUnits) == 0 {
		return p.initialCapital
	}

	total := 0.0
	for symbol, units := range p.benchmarkUnits {
		total += units * prices[symbol]
	}

	return total
}

// Snapshot values the portfolio at prices and appends the total to the
// equity history. The first call fixes the benchmark base.
func (p *Portfolio) Snapshot(tick int, prices map[string]float64, indicators map[string]indicator.Snapshot, at time.Time) (types.PortfolioSnapshot, error) {
	total, err := p.TotalValue(prices)
	if err != nil {
		return types.PortfolioSnapshot{}, err //nolint:exhaustruct // zero snapshot on error
	}

	if len(p.benchmarkUnits) == 0 && len(p.symbols) > 0 {
		share := p.initialCapital / float64(len(p.symbols))
		for _, symbol := range p.symbols {
			p.benchmarkUnits[symbol] = share / prices[symbol]
		}
	}

	assets := make([]types.AssetState, 0, len(p.symbols))
	for _, symbol := range p.symbols {
		assets = append(assets, p.ledgers[symbol].State(prices[symbol], indicators[symbol]))
	}

	p.equity = append(p.equity, total)
	if total > p.peak {
		p.peak = total
	}

	drawdown := 0.0
	if p.peak > 0 {
		drawdown = (p.peak - total) / p.peak * 100
	}

	return types.PortfolioSnapshot{
		Timestamp:           at,
		TickIndex:           tick,
		TotalValue:          total,
		Assets:              assets,
		BenchmarkIndexValue: p.BenchmarkValue(prices),
		PeakValue:           p.peak,
		DrawdownPct:         drawdown,
	}, nil
}

// Equity returns a copy of the total value history, one entry per snapshot.
func (p *Portfolio) Equity() []float64 {
	return slices.Clone(p.equity)
}

// Positions returns every position in configured order.
func (p *Portfolio) Positions() []types.Position {
	out := make([]types.Position, 0, len(p.symbols))
	for _, ledger := range p.Ledgers() {
		out = append(out, ledger.Position())
	}

	return out
}

// Trades merges the ledger logs by tick, keeping asset order within a tick.
func (p *Portfolio) Trades() []types.Trade {
	var out []types.Trade
	for _, ledger := range p.Ledgers() {
		out = append(out, ledger.Trades()...)
	}

	slices.SortStableFunc(out, func(a, b types.Trade) int {
		return a.Tick - b.Tick
	})

	return out
}
