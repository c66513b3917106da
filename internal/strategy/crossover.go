package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/types"
)

// CrossoverRSIMidline is the RSI level a crossover must be on the right
// side of to count.
const CrossoverRSIMidline = 50.0

// Crossover buys when the short average crosses above the long one while
// RSI < 50, and sells on the opposite cross while RSI > 50.
type Crossover struct {
	sizing Sizing
}

func NewCrossover(sizing Sizing) *Crossover {
	return &Crossover{sizing: sizing}
}

func (c *Crossover) Name() string {
	return "crossover"
}

func (c *Crossover) Evaluate(in Input) optional.Option[types.Order] {
	ind := in.Indicators
	if !ind.CrossoverReady() {
		return optional.None[types.Order]()
	}

	short, long := ind.MAShort.Unwrap(), ind.MALong.Unwrap()
	prevShort, prevLong := ind.PrevMAShort.Unwrap(), ind.PrevMALong.Unwrap()
	rsi := ind.RSI.Unwrap()

	crossedUp := prevShort < prevLong && short > long
	crossedDown := prevShort > prevLong && short < long

	if !in.Position.IsOpen() && crossedUp && rsi < CrossoverRSIMidline {
		return buyOrder(in, c.sizing.BuyQuantity(in.Cash, in.Price))
	}

	if in.Position.IsOpen() && crossedDown && rsi > CrossoverRSIMidline {
		return sellAllOrder(in)
	}

	return optional.None[types.Order]()
}
