package dashboard

import (
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine"
	"github.com/rxtech-lab/argo-tracker/internal/types"
)

// SnapshotMsg carries the portfolio state after a logic tick.
type SnapshotMsg struct {
	Snapshot types.PortfolioSnapshot
}

// TradeMsg carries an accepted execution.
type TradeMsg struct {
	Trade types.Trade
}

// RejectedMsg reports an order the simulator refused.
type RejectedMsg struct {
	Order  types.Order
	Reason types.RejectReason
}

// FallbackMsg reports that the feed synthesized prices.
type FallbackMsg struct {
	Tick  int
	Total int
}

// StoppedMsg signals the end of the run.
type StoppedMsg struct {
	Err    error
	Result engine.Result
}

// refreshMsg drives the display cadence.
type refreshMsg struct{}
