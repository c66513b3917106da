package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/types"
)

// DCA accumulates: every oversold tick spends a fraction of the remaining
// cash, whether or not a position is already open. It never sells on signal.
type DCA struct {
	buyThreshold float64
	sizing       Sizing
}

func NewDCA(buyThreshold float64, sizing Sizing) *DCA {
	return &DCA{
		buyThreshold: buyThreshold,
		sizing:       sizing,
	}
}

func (d *DCA) Name() string {
	return "dca"
}

func (d *DCA) Evaluate(in Input) optional.Option[types.Order] {
	if !in.Indicators.Ready() {
		return optional.None[types.Order]()
	}

	if in.Indicators.RSI.Unwrap() <= d.buyThreshold {
		return buyOrder(in, d.sizing.BuyQuantity(in.Cash, in.Price))
	}

	return optional.None[types.Order]()
}
