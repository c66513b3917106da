package engine

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-tracker/internal/types"
)

// Lifecycle callback types for a simulation run.
// Callbacks with an error return abort the run when they fail; the run
// still liquidates and reports.

// OnEngineStartCallback is called once the price history is loaded.
// runPath is the session folder, or empty when persistence is disabled.
type OnEngineStartCallback func(symbols []string, runID string, runPath string) error

// OnEngineStopCallback is called when Run returns (always called via defer).
type OnEngineStopCallback func(err error, result Result)

// OnTickCallback is called after every logic tick with the prices it used.
type OnTickCallback func(tick int, prices map[string]float64) error

// OnSnapshotCallback is called with every portfolio snapshot, including the
// warm-up snapshot at tick 0 and the final one after liquidation.
type OnSnapshotCallback func(snapshot types.PortfolioSnapshot) error

// OnTradeCallback is called for every accepted execution.
type OnTradeCallback func(trade types.Trade) error

// OnOrderRejectedCallback is called when the simulator refuses an order.
type OnOrderRejectedCallback func(order types.Order, reason types.RejectReason)

// OnFeedFallbackCallback is called when a tick's prices were synthesized
// locally. total counts every fallback so far.
type OnFeedFallbackCallback func(tick int, total int)

// Callbacks holds all lifecycle callback functions for the engine.
// All fields are pointers - nil means no callback will be invoked.
type Callbacks struct {
	OnEngineStart   *OnEngineStartCallback
	OnEngineStop    *OnEngineStopCallback
	OnTick          *OnTickCallback
	OnSnapshot      *OnSnapshotCallback
	OnTrade         *OnTradeCallback
	OnOrderRejected *OnOrderRejectedCallback
	OnFeedFallback  *OnFeedFallbackCallback
}

// StopReason records why the tick loop ended.
type StopReason string

const (
	StopReasonMaxTicks  StopReason = "max_ticks"
	StopReasonCancelled StopReason = "cancelled"
	StopReasonQuit      StopReason = "quit"
	StopReasonError     StopReason = "error"
)

// Result is the complete outcome of a run.
type Result struct {
	RunID     string
	RunPath   string
	Strategy  string
	StartedAt time.Time
	EndedAt   time.Time
	// Ticks is the number of logic ticks executed, warm-up excluded.
	Ticks         int
	StopReason    StopReason
	FeedFallbacks int
	Snapshots     []types.PortfolioSnapshot
	Trades        []types.Trade
	Positions     []types.Position
	FinalPrices   map[string]float64
	Metrics       types.Metrics
}

// Final returns the last snapshot of the run.
func (r Result) Final() (types.PortfolioSnapshot, bool) {
	if len(r.Snapshots) == 0 {
		return types.PortfolioSnapshot{}, false //nolint:exhaustruct // zero snapshot for an empty run
	}

	return r.Snapshots[len(r.Snapshots)-1], true
}

// Engine runs one simulation from warm-up to the final report.
type Engine interface {
	// Run blocks until the tick budget is spent, ctx is cancelled or a quit
	// input arrives. An Engine can only be run once.
	Run(ctx context.Context, callbacks Callbacks) error

	// Latest returns the most recent snapshot, safe to call from any goroutine.
	Latest() (types.PortfolioSnapshot, bool)

	// Trades returns the trade log so far, safe to call from any goroutine.
	Trades() []types.Trade

	// Result is populated once Run returns.
	Result() Result
}
