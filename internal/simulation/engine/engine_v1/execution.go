package engine_v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/internal/utils"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
	"github.com/shopspring/decimal"
)

// quantityEpsilon is the residual below which a sold-down position is flat.
const quantityEpsilon = 1e-9

// ExecutionResult is the outcome of one Apply call. A rejected order leaves
// the ledger untouched and carries the reason; it is not an error.
type ExecutionResult struct {
	Order    types.Order
	Accepted bool
	Reason   types.RejectReason
	Trade    types.Trade
}

// Simulator fills orders at the current tick price with slippage and
// commission. Fills are all-or-nothing.
type Simulator struct {
	slippagePct float64
	fee         commission_fee.CommissionFee
	newID       func() string
}

func NewSimulator(slippagePct float64, fee commission_fee.CommissionFee) *Simulator {
	return &Simulator{
		slippagePct: slippagePct,
		fee:         fee,
		newID:       func() string { return uuid.New().String() },
	}
}

// ExecutionPrice moves price against the trader by the slippage fraction.
func (s *Simulator) ExecutionPrice(side types.Side, price float64) float64 {
	if side == types.SideBuy {
		return price * (1 + s.slippagePct)
	}

	return price * (1 - s.slippagePct)
}

// Apply executes order against ledger at price. Errors are reserved for
// malformed input: an invalid order, a ledger for another asset or a
// non-positive price.
func (s *Simulator) Apply(ledger *AssetLedger, order types.Order, price float64, tick int, at time.Time) (ExecutionResult, error) {
	result := ExecutionResult{
		Order:    order,
		Accepted: false,
		Reason:   types.RejectReasonNone,
		Trade:    types.Trade{}, //nolint:exhaustruct // filled on acceptance
	}

	if err := order.Validate(); err != nil {
		return result, err
	}

	if order.Symbol != ledger.Symbol() {
		return result, errors.Newf(errors.ErrCodeUnknownAsset, "order for %s applied to ledger %s", order.Symbol, ledger.Symbol())
	}

	if price <= 0 {
		return result, errors.Newf(errors.ErrCodeMissingTickPrice, "no valid price for %s at tick %d", order.Symbol, tick)
	}

	if order.Quantity <= 0 {
		result.Reason = types.RejectReasonInvalidQuantity

		return result, nil
	}

	switch order.Side {
	case types.SideBuy:
		return s.buy(ledger, result, price, tick, at), nil
	case types.SideSell:
		return s.sell(ledger, result, price, tick, at), nil
	default:
		return result, errors.Newf(errors.ErrCodeInvalidParameter, "unknown side %q", order.Side)
	}
}

func (s *Simulator) buy(ledger *AssetLedger, result ExecutionResult, price float64, tick int, at time.Time) ExecutionResult {
	qty := result.Order.Quantity
	execPrice := s.ExecutionPrice(types.SideBuy, price)
	commission := s.fee.Calculate(execPrice, qty)
	required := execPrice*qty + commission

	if ledger.cash < required {
		result.Reason = types.RejectReasonInsufficientFunds

		return result
	}

	pos := ledger.position
	newQty := pos.Quantity + qty
	pos.AverageEntryPrice = (pos.AverageEntryPrice*pos.Quantity + execPrice*qty) / newQty
	pos.Quantity = newQty
	pos.TotalCommission += commission

	ledger.cash -= required
	ledger.position = pos

	result.Accepted = true
	result.Trade = s.trade(ledger, result.Order, tick, at, execPrice, qty, 0, commission)
	ledger.record(result.Trade)

	return result
}

func (s *Simulator) sell(ledger *AssetLedger, result ExecutionResult, price float64, tick int, at time.Time) ExecutionResult {
	pos := ledger.position
	if !pos.IsOpen() {
		result.Reason = types.RejectReasonNoPosition

		return result
	}

	qty := result.Order.Quantity
	if qty > pos.Quantity {
		qty = pos.Quantity
	}

	execPrice := s.ExecutionPrice(types.SideSell, price)
	commission := s.fee.Calculate(execPrice, qty)

	pnl := decimal.NewFromFloat(execPrice).
		Sub(decimal.NewFromFloat(pos.AverageEntryPrice)).
		Mul(decimal.NewFromFloat(qty)).
		Sub(decimal.NewFromFloat(commission)).
		InexactFloat64()

	ledger.cash += execPrice*qty - commission

	pos.Quantity -= qty
	pos.TotalCommission += commission
	pos.ClosedTrades++

	if pnl > 0 {
		pos.WinningTrades++
		pos.GrossWinningPnL += pnl
	} else {
		pos.LosingTrades++
		pos.GrossLosingPnL += pnl
	}

	if utils.ApproxZero(pos.Quantity, quantityEpsilon) {
		pos.Quantity = 0
		pos.AverageEntryPrice = 0
	}

	ledger.position = pos

	result.Accepted = true
	result.Trade = s.trade(ledger, result.Order, tick, at, execPrice, qty, pnl, commission)
	ledger.record(result.Trade)

	return result
}

func (s *Simulator) trade(ledger *AssetLedger, order types.Order, tick int, at time.Time, execPrice, qty, pnl, commission float64) types.Trade {
	return types.Trade{
		ID:                s.newID(),
		Tick:              tick,
		Symbol:            order.Symbol,
		Side:              order.Side,
		Reason:            order.Reason,
		ExecutedAt:        at,
		AverageEntryPrice: ledger.position.AverageEntryPrice,
		ExecutionPrice:    execPrice,
		Quantity:          qty,
		PnL:               pnl,
		Commission:        commission,
		CashAfter:         ledger.cash,
		QuantityAfter:     ledger.position.Quantity,
	}
}
