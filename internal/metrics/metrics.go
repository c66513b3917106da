// Package metrics computes the end-of-run performance summary from the
// equity curve and the trade log.
package metrics

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/shopspring/decimal"
)

// SecondsPerYear is the annualization base for tick statistics.
const SecondsPerYear = 365 * 24 * 3600

// TicksPerYear converts a logic tick interval into ticks per year.
func TicksPerYear(tickSeconds float64) float64 {
	if tickSeconds <= 0 {
		return 0
	}

	return SecondsPerYear / tickSeconds
}

// Calculate summarizes a run. equity holds one total value per snapshot;
// an empty curve means the run never valued the portfolio and leaves the
// final value at initialCapital. BenchmarkReturnPct is left for the caller.
func Calculate(equity []float64, trades []types.Trade, initialCapital, ticksPerYear float64) types.Metrics {
	final := initialCapital
	if len(equity) > 0 {
		final = equity[len(equity)-1]
	}

	m := types.Metrics{
		InitialCapital:     initialCapital,
		FinalValue:         final,
		ReturnPct:          ReturnPct(initialCapital, final),
		BenchmarkReturnPct: 0,
		MaxDrawdownPct:     MaxDrawdownPct(equity),
		Volatility:         0,
		Sharpe:             optional.None[float64](),
		Sortino:            optional.None[float64](),
		WinRatePct:         0,
		RiskReward:         optional.None[float64](),
		TotalTrades:        len(trades),
		ClosedTrades:       0,
		WinningTrades:      0,
		LosingTrades:       0,
		RealizedPnL:        0,
		TotalCommission:    0,
	}

	returns := TickReturns(equity)
	annualizer := math.Sqrt(ticksPerYear)

	if len(returns) > 0 {
		mean := Mean(returns)
		stdev := StdDev(returns)
		m.Volatility = stdev * annualizer

		if stdev > 0 {
			m.Sharpe = optional.Some(mean / stdev * annualizer)
		}

		downside := StdDev(negatives(returns))
		if downside == 0 {
			downside = stdev
		}

		if downside > 0 {
			m.Sortino = optional.Some(mean / downside * annualizer)
		}
	}

	applyTrades(&m, trades)

	return m
}

func applyTrades(m *types.Metrics, trades []types.Trade) {
	realized := decimal.Zero
	commission := decimal.Zero
	gains := decimal.Zero
	losses := decimal.Zero

	for _, t := range trades {
		commission = commission.Add(decimal.NewFromFloat(t.Commission))

		if t.Side != types.SideSell {
			continue
		}

		pnl := decimal.NewFromFloat(t.PnL)
		realized = realized.Add(pnl)
		m.ClosedTrades++

		if t.PnL > 0 {
			m.WinningTrades++
			gains = gains.Add(pnl)
		} else {
			m.LosingTrades++
			losses = losses.Add(pnl.Abs())
		}
	}

	m.RealizedPnL = realized.InexactFloat64()
	m.TotalCommission = commission.InexactFloat64()

	if m.ClosedTrades > 0 {
		m.WinRatePct = float64(m.WinningTrades) / float64(m.ClosedTrades) * 100
	}

	if m.WinningTrades > 0 && m.LosingTrades > 0 && losses.IsPositive() {
		avgWin := gains.Div(decimal.NewFromInt(int64(m.WinningTrades)))
		avgLoss := losses.Div(decimal.NewFromInt(int64(m.LosingTrades)))
		m.RiskReward = optional.Some(avgWin.Div(avgLoss).InexactFloat64())
	}
}

// ReturnPct is the percentage change from initial to final.
func ReturnPct(initial, final float64) float64 {
	if initial == 0 {
		return 0
	}

	return (final - initial) / initial * 100
}

// MaxDrawdownPct is the largest peak-to-trough fall of the curve as a
// positive percentage of the peak.
func MaxDrawdownPct(equity []float64) float64 {
	peak := 0.0
	worst := 0.0

	for _, v := range equity {
		if v > peak {
			peak = v
		}

		if peak <= 0 {
			continue
		}

		if dd := (peak - v) / peak; dd > worst {
			worst = dd
		}
	}

	return worst * 100
}

// TickReturns are the simple returns between consecutive equity values.
// Steps from a non-positive value are skipped.
func TickReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}

	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] <= 0 {
			continue
		}

		out = append(out, equity[i]/equity[i-1]-1)
	}

	return out
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// StdDev is the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)

	sq := 0.0
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}

	return math.Sqrt(sq / float64(len(values)))
}

func negatives(values []float64) []float64 {
	var out []float64
	for _, v := range values {
		if v < 0 {
			out = append(out, v)
		}
	}

	return out
}
