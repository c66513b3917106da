// Package risk forces exits on open positions whose price has moved past
// the configured stop-loss or take-profit band around the average entry.
package risk

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/rxtech-lab/argo-tracker/internal/types"
)

// Manager checks one position against one price. Stop-loss is evaluated
// before take-profit and at most one exit is produced per call.
type Manager struct {
	enabled       bool
	stopLossPct   float64
	takeProfitPct float64
}

func NewManager(stopLossPct, takeProfitPct float64, enabled bool) *Manager {
	return &Manager{
		enabled:       enabled,
		stopLossPct:   stopLossPct,
		takeProfitPct: takeProfitPct,
	}
}

// NewManagerFromConfig reads the band and the enabled flag from cfg.
func NewManagerFromConfig(cfg config.Config) *Manager {
	return NewManager(cfg.Simulation.StopLossPct, cfg.Simulation.TakeProfitPct, cfg.Risk.Enabled)
}

func (m *Manager) Enabled() bool {
	return m.enabled
}

// StopLossPrice is the price at or below which a position is stopped out.
func (m *Manager) StopLossPrice(pos types.Position) float64 {
	return pos.AverageEntryPrice * (1 - m.stopLossPct)
}

// TakeProfitPrice is the price at or above which profit is taken.
func (m *Manager) TakeProfitPrice(pos types.Position) float64 {
	return pos.AverageEntryPrice * (1 + m.takeProfitPct)
}

// Check returns a full-quantity sell when price breaches the band.
func (m *Manager) Check(pos types.Position, price float64) optional.Option[types.Order] {
	if !m.enabled || !pos.IsOpen() || pos.AverageEntryPrice <= 0 {
		return optional.None[types.Order]()
	}

	if price <= m.StopLossPrice(pos) {
		return optional.Some(exit(pos, types.OrderReasonStopLoss))
	}

	if price >= m.TakeProfitPrice(pos) {
		return optional.Some(exit(pos, types.OrderReasonTakeProfit))
	}

	return optional.None[types.Order]()
}

func exit(pos types.Position, reason types.OrderReason) types.Order {
	return types.Order{
		Symbol:   pos.Symbol,
		Side:     types.SideSell,
		Reason:   reason,
		Quantity: pos.Quantity,
	}
}
