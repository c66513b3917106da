package engine_v1

import (
	"github.com/rxtech-lab/argo-tracker/internal/indicator"
	"github.com/rxtech-lab/argo-tracker/internal/types"
)

// AssetLedger owns the cash partition, the position and the trade log of a
// single asset. Only the Simulator mutates it.
type AssetLedger struct {
	symbol   string
	cash     float64
	position types.Position
	trades   []types.Trade
}

func NewAssetLedger(symbol string, cash float64) *AssetLedger {
	return &AssetLedger{
		symbol:   symbol,
		cash:     cash,
		position: types.Position{Symbol: symbol}, //nolint:exhaustruct // positions start at zero
		trades:   []types.Trade{},
	}
}

func (l *AssetLedger) Symbol() string {
	return l.symbol
}

func (l *AssetLedger) Cash() float64 {
	return l.cash
}

func (l *AssetLedger) Position() types.Position {
	return l.position
}

// Trades returns a copy of the trade log in execution order.
func (l *AssetLedger) Trades() []types.Trade {
	out := make([]types.Trade, len(l.trades))
	copy(out, l.trades)

	return out
}

// Value is cash plus the position marked at price.
func (l *AssetLedger) Value(price float64) float64 {
	return l.cash + l.position.MarketValue(price)
}

// State renders the ledger as a snapshot row.
func (l *AssetLedger) State(price float64, ind indicator.Snapshot) types.AssetState {
	state := types.AssetState{
		Symbol:            l.symbol,
		Price:             price,
		Cash:              l.cash,
		Quantity:          l.position.Quantity,
		AverageEntryPrice: l.position.AverageEntryPrice,
		Value:             l.Value(price),
		UnrealizedPnL:     l.position.UnrealizedPnL(price),
		RealizedPnL:       l.position.NetRealizedPnL(),
		IndicatorsReady:   ind.Ready(),
		MAShort:           0,
		MALong:            0,
		RSI:               0,
	}

	if ind.MAShort.IsSome() {
		state.MAShort = ind.MAShort.Unwrap()
	}

	if ind.MALong.IsSome() {
		state.MALong = ind.MALong.Unwrap()
	}

	if ind.RSI.IsSome() {
		state.RSI = ind.RSI.Unwrap()
	}

	return state
}

func (l *AssetLedger) record(trade types.Trade) {
	l.trades = append(l.trades, trade)
}
