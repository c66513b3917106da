package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is the immutable log entry written for every accepted execution.
type Trade struct {
	ID         string      `yaml:"id" json:"id" csv:"id"`
	Tick       int         `yaml:"tick" json:"tick" csv:"tick"`
	Symbol     string      `yaml:"symbol" json:"symbol" csv:"symbol"`
	Side       Side        `yaml:"side" json:"side" csv:"side"`
	Reason     OrderReason `yaml:"reason" json:"reason" csv:"reason"`
	ExecutedAt time.Time   `yaml:"executed_at" json:"executed_at" csv:"executed_at"`
	// AverageEntryPrice is the position's average entry after this trade.
	AverageEntryPrice float64 `yaml:"average_entry_price" json:"average_entry_price" csv:"average_entry_price"`
	ExecutionPrice    float64 `yaml:"execution_price" json:"execution_price" csv:"execution_price"`
	Quantity          float64 `yaml:"quantity" json:"quantity" csv:"quantity"`
	// PnL is (executionPrice - averageEntry) * quantity - commission for sells, 0 for buys.
	PnL           float64 `yaml:"pnl" json:"pnl" csv:"pnl"`
	Commission    float64 `yaml:"commission" json:"commission" csv:"commission"`
	CashAfter     float64 `yaml:"cash_after" json:"cash_after" csv:"cash_after"`
	QuantityAfter float64 `yaml:"quantity_after" json:"quantity_after" csv:"quantity_after"`
}

// Label is the trade-log tag for this trade.
func (t Trade) Label() string {
	return t.Reason.Label(t.Side)
}

// Position is the holding of a single asset. It is created at zero and only
// changed by the execution simulator.
type Position struct {
	Symbol            string  `yaml:"symbol" json:"symbol"`
	Quantity          float64 `yaml:"quantity" json:"quantity"`
	AverageEntryPrice float64 `yaml:"average_entry_price" json:"average_entry_price"`
	TotalCommission   float64 `yaml:"total_commission" json:"total_commission"`
	// GrossWinningPnL sums the PnL of sells that closed above zero.
	GrossWinningPnL float64 `yaml:"gross_winning_pnl" json:"gross_winning_pnl"`
	// GrossLosingPnL sums the PnL of sells that closed at or below zero. It is <= 0.
	GrossLosingPnL float64 `yaml:"gross_losing_pnl" json:"gross_losing_pnl"`
	ClosedTrades   int     `yaml:"closed_trades" json:"closed_trades"`
	WinningTrades  int     `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades   int     `yaml:"losing_trades" json:"losing_trades"`
}

// IsOpen reports whether any quantity is held.
func (p Position) IsOpen() bool {
	return p.Quantity > 0
}

// MarketValue is the held quantity valued at price.
func (p Position) MarketValue(price float64) float64 {
	return p.Quantity * price
}

// NetRealizedPnL sums winning and losing PnL without float drift.
func (p Position) NetRealizedPnL() float64 {
	return decimal.NewFromFloat(p.GrossWinningPnL).
		Add(decimal.NewFromFloat(p.GrossLosingPnL)).
		InexactFloat64()
}

// UnrealizedPnL values the open quantity against its average entry.
func (p Position) UnrealizedPnL(price float64) float64 {
	if !p.IsOpen() {
		return 0
	}

	return (price - p.AverageEntryPrice) * p.Quantity
}
