package types

import "time"

// AssetState is one asset's row in a PortfolioSnapshot.
type AssetState struct {
	Symbol            string  `yaml:"symbol" json:"symbol"`
	Price             float64 `yaml:"price" json:"price"`
	Cash              float64 `yaml:"cash" json:"cash"`
	Quantity          float64 `yaml:"quantity" json:"quantity"`
	AverageEntryPrice float64 `yaml:"average_entry_price" json:"average_entry_price"`
	// Value is Cash + Quantity*Price.
	Value         float64 `yaml:"value" json:"value"`
	UnrealizedPnL float64 `yaml:"unrealized_pnl" json:"unrealized_pnl"`
	RealizedPnL   float64 `yaml:"realized_pnl" json:"realized_pnl"`
	// IndicatorsReady is false while the price window is shorter than the RSI period.
	IndicatorsReady bool    `yaml:"indicators_ready" json:"indicators_ready"`
	MAShort         float64 `yaml:"ma_short" json:"ma_short"`
	MALong          float64 `yaml:"ma_long" json:"ma_long"`
	RSI             float64 `yaml:"rsi" json:"rsi"`
}

// PortfolioSnapshot is the per-tick view of the whole portfolio.
type PortfolioSnapshot struct {
	Timestamp  time.Time    `yaml:"timestamp" json:"timestamp"`
	TickIndex  int          `yaml:"tick_index" json:"tick_index"`
	TotalValue float64      `yaml:"total_value" json:"total_value"`
	Assets     []AssetState `yaml:"assets" json:"assets"`
	// BenchmarkIndexValue is what the initial capital would be worth if it
	// had been split across the assets at their first prices and held.
	BenchmarkIndexValue float64 `yaml:"benchmark_index_value" json:"benchmark_index_value"`
	PeakValue           float64 `yaml:"peak_value" json:"peak_value"`
	DrawdownPct         float64 `yaml:"drawdown_pct" json:"drawdown_pct"`
}

// Asset returns the state of symbol in the snapshot.
func (s PortfolioSnapshot) Asset(symbol string) (AssetState, bool) {
	for _, a := range s.Assets {
		if a.Symbol == symbol {
			return a, true
		}
	}

	return AssetState{}, false //nolint:exhaustruct // zero value for a missing asset
}
