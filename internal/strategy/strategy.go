// Package strategy maps indicator values and position state to orders.
// Evaluators are pure: the same Input always yields the same result.
package strategy

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/config"
	"github.com/rxtech-lab/argo-tracker/internal/indicator"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/internal/utils"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

// Input is everything an evaluator may look at for one asset on one tick.
type Input struct {
	Symbol     string
	Indicators indicator.Snapshot
	Position   types.Position
	Cash       float64
	Price      float64
}

// Evaluator decides at most one order per asset per tick.
type Evaluator interface {
	Name() string
	Evaluate(in Input) optional.Option[types.Order]
}

// Sizing turns available cash into a fundable buy quantity at the
// execution price the simulator will charge.
type Sizing struct {
	AllocationPct float64
	SlippagePct   float64
	Fee           commission_fee.CommissionFee
}

// NewSizing reads the cost model from the simulation config.
func NewSizing(sim config.SimulationConfig) Sizing {
	return Sizing{
		AllocationPct: sim.CapitalAllocationPct,
		SlippagePct:   sim.SlippagePct,
		Fee:           commission_fee.ForPct(sim.CommissionPct),
	}
}

// BuyQuantity spends AllocationPct of cash.
func (s Sizing) BuyQuantity(cash, price float64) float64 {
	return utils.CalculateOrderQuantityByPercentage(cash, price*(1+s.SlippagePct), s.Fee, s.AllocationPct)
}

func buyOrder(in Input, qty float64) optional.Option[types.Order] {
	if qty <= 0 {
		return optional.None[types.Order]()
	}

	return optional.Some(types.Order{
		Symbol:   in.Symbol,
		Side:     types.SideBuy,
		Reason:   types.OrderReasonSignal,
		Quantity: qty,
	})
}

func sellAllOrder(in Input) optional.Option[types.Order] {
	return optional.Some(types.Order{
		Symbol:   in.Symbol,
		Side:     types.SideSell,
		Reason:   types.OrderReasonSignal,
		Quantity: in.Position.Quantity,
	})
}

// New builds the evaluator selected by cfg.Strategy.Mode.
func New(cfg config.Config) (Evaluator, error) {
	sim := cfg.Simulation
	sizing := NewSizing(sim)

	switch cfg.Strategy.Mode {
	case config.StrategyModeThreshold:
		return NewThreshold(sim.RSIBuyThreshold, sim.RSISellThreshold, sizing), nil
	case config.StrategyModeDCA:
		return NewDCA(sim.RSIBuyThreshold, sizing), nil
	case config.StrategyModeCrossover:
		return NewCrossover(sizing), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedStrategy, "unsupported strategy mode %q", cfg.Strategy.Mode)
	}
}
