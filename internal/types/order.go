package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderReason records why an order was created. The set is closed; every
// switch over it is expected to handle all members.
type OrderReason string

const (
	OrderReasonSignal       OrderReason = "signal"
	OrderReasonStopLoss     OrderReason = "stop_loss"
	OrderReasonTakeProfit   OrderReason = "take_profit"
	OrderReasonManualBuy    OrderReason = "manual_buy"
	OrderReasonManualSell   OrderReason = "manual_sell"
	OrderReasonInitialEntry OrderReason = "initial_entry"
	OrderReasonFinalClose   OrderReason = "final_close"
)

// AllOrderReasons lists every OrderReason in declaration order.
var AllOrderReasons = []OrderReason{
	OrderReasonSignal,
	OrderReasonStopLoss,
	OrderReasonTakeProfit,
	OrderReasonManualBuy,
	OrderReasonManualSell,
	OrderReasonInitialEntry,
	OrderReasonFinalClose,
}

// Valid reports whether r is a member of the closed reason set.
func (r OrderReason) Valid() bool {
	switch r {
	case OrderReasonSignal, OrderReasonStopLoss, OrderReasonTakeProfit,
		OrderReasonManualBuy, OrderReasonManualSell,
		OrderReasonInitialEntry, OrderReasonFinalClose:
		return true
	default:
		return false
	}
}

// Forced reports whether the order bypasses the strategy.
func (r OrderReason) Forced() bool {
	switch r {
	case OrderReasonStopLoss, OrderReasonTakeProfit, OrderReasonFinalClose:
		return true
	case OrderReasonSignal, OrderReasonManualBuy, OrderReasonManualSell, OrderReasonInitialEntry:
		return false
	default:
		return false
	}
}

// Label is the short trade-log tag for a side and reason, e.g. SELL_SL.
func (r OrderReason) Label(side Side) string {
	switch r {
	case OrderReasonSignal:
		return string(side)
	case OrderReasonStopLoss:
		return "SELL_SL"
	case OrderReasonTakeProfit:
		return "SELL_TP"
	case OrderReasonManualBuy:
		return "BUY_MANUAL"
	case OrderReasonManualSell:
		return "SELL_MANUAL"
	case OrderReasonInitialEntry:
		return "BUY_INITIAL"
	case OrderReasonFinalClose:
		return "CLOSE"
	default:
		return fmt.Sprintf("%s_%s", side, r)
	}
}

// Order is an intent to trade produced by the strategy, the risk manager
// or the user. It is consumed by the execution simulator in the same tick.
type Order struct {
	Symbol   string      `yaml:"symbol" json:"symbol" validate:"required"`
	Side     Side        `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	Reason   OrderReason `yaml:"reason" json:"reason" validate:"required"`
	Quantity float64     `yaml:"quantity" json:"quantity"`
}

var orderValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the order shape. A non-positive quantity is not a shape
// error; the execution simulator rejects it as a no-op.
func (o Order) Validate() error {
	if err := orderValidator.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid order", err)
	}

	if !o.Reason.Valid() {
		return errors.Newf(errors.ErrCodeUnknownReason, "unknown order reason %q", o.Reason)
	}

	return nil
}

// RejectReason explains why the execution simulator did not fill an order.
type RejectReason string

const (
	RejectReasonNone              RejectReason = ""
	RejectReasonInvalidQuantity   RejectReason = "invalid_quantity"
	RejectReasonInsufficientFunds RejectReason = "insufficient_funds"
	RejectReasonNoPosition        RejectReason = "no_position"
)
