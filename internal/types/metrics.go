package types

import (
	"fmt"

	"github.com/moznion/go-optional"
)

// Metrics is the end-of-run performance summary. Ratios that are undefined
// for the run (zero volatility, no losing trades) are None.
type Metrics struct {
	InitialCapital     float64
	FinalValue         float64
	ReturnPct          float64
	BenchmarkReturnPct float64
	MaxDrawdownPct     float64
	Volatility         float64
	Sharpe             optional.Option[float64]
	Sortino            optional.Option[float64]
	WinRatePct         float64
	RiskReward         optional.Option[float64]
	TotalTrades        int
	ClosedTrades       int
	WinningTrades      int
	LosingTrades       int
	RealizedPnL        float64
	TotalCommission    float64
}

// MetricEntry is one named, formatted metric.
type MetricEntry struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// NotAvailable is the rendering of an undefined metric.
const NotAvailable = "N/A"

// Entries returns the metrics as an ordered list of formatted values.
func (m Metrics) Entries() []MetricEntry {
	return []MetricEntry{
		{Name: "initial_capital", Value: fmt.Sprintf("%.2f", m.InitialCapital)},
		{Name: "final_value", Value: fmt.Sprintf("%.2f", m.FinalValue)},
		{Name: "return_pct", Value: fmt.Sprintf("%.2f", m.ReturnPct)},
		{Name: "benchmark_return_pct", Value: fmt.Sprintf("%.2f", m.BenchmarkReturnPct)},
		{Name: "max_drawdown_pct", Value: fmt.Sprintf("%.2f", m.MaxDrawdownPct)},
		{Name: "volatility", Value: fmt.Sprintf("%.4f", m.Volatility)},
		{Name: "sharpe", Value: formatOptional(m.Sharpe)},
		{Name: "sortino", Value: formatOptional(m.Sortino)},
		{Name: "win_rate_pct", Value: fmt.Sprintf("%.2f", m.WinRatePct)},
		{Name: "risk_reward", Value: formatOptional(m.RiskReward)},
		{Name: "total_trades", Value: fmt.Sprintf("%d", m.TotalTrades)},
		{Name: "closed_trades", Value: fmt.Sprintf("%d", m.ClosedTrades)},
		{Name: "winning_trades", Value: fmt.Sprintf("%d", m.WinningTrades)},
		{Name: "losing_trades", Value: fmt.Sprintf("%d", m.LosingTrades)},
		{Name: "realized_pnl", Value: fmt.Sprintf("%.2f", m.RealizedPnL)},
		{Name: "total_commission", Value: fmt.Sprintf("%.4f", m.TotalCommission)},
	}
}

// AsMap returns the flat name to value mapping of Entries.
func (m Metrics) AsMap() map[string]string {
	entries := m.Entries()

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Name] = e.Value
	}

	return out
}

func formatOptional(v optional.Option[float64]) string {
	if v.IsNone() {
		return NotAvailable
	}

	return fmt.Sprintf("%.4f", v.Unwrap())
}
