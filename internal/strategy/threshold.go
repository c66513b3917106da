package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/types"
)

// Threshold buys an oversold flat asset and sells an overbought open one.
type Threshold struct {
	buyThreshold  float64
	sellThreshold float64
	sizing        Sizing
}

func NewThreshold(buyThreshold, sellThreshold float64, sizing Sizing) *Threshold {
	return &Threshold{
		buyThreshold:  buyThreshold,
		sellThreshold: sellThreshold,
		sizing:        sizing,
	}
}

func (t *Threshold) Name() string {
	return "threshold"
}

func (t *Threshold) Evaluate(in Input) optional.Option[types.Order] {
	if !in.Indicators.Ready() {
		return optional.None[types.Order]()
	}

	rsi := in.Indicators.RSI.Unwrap()

	if !in.Position.IsOpen() && rsi <= t.buyThreshold {
		return buyOrder(in, t.sizing.BuyQuantity(in.Cash, in.Price))
	}

	if in.Position.IsOpen() && rsi >= t.sellThreshold {
		return sellAllOrder(in)
	}

	return optional.None[types.Order]()
}
