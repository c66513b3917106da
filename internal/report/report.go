// Package report renders the end-of-run summary and the stats.yaml file.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/rxtech-lab/argo-tracker/internal/simulation/engine"
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

const (
	StatsFileName  = "stats.yaml"
	TradesFileName = "trades.parquet"
	EquityFileName = "equity.parquet"
)

// WriteSummary prints the final asset table, the trade log and the metrics.
func WriteSummary(w io.Writer, result engine.Result) error {
	fmt.Fprintf(w, "\n=== Simulation finished (%s) after %d ticks ===\n\n", result.StopReason, result.Ticks)

	if final, ok := result.Final(); ok {
		if err := writeAssets(w, final); err != nil {
			return err
		}

		fmt.Fprintf(w, "Total value: %.2f  Benchmark: %.2f\n\n", final.TotalValue, final.BenchmarkIndexValue)
	}

	fmt.Fprintf(w, "Trade log (%d trades)\n", len(result.Trades))

	if err := WriteTradeLog(w, result.Trades); err != nil {
		return err
	}

	fmt.Fprintln(w)

	return WriteMetrics(w, result.Metrics)
}

func writeAssets(w io.Writer, final types.PortfolioSnapshot) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Header("Asset", "Final Price", "Cash", "Quantity", "Value", "Realized PnL")

	for _, a := range final.Assets {
		err := tbl.Append(
			a.Symbol,
			fmt.Sprintf("%.4f", a.Price),
			fmt.Sprintf("%.2f", a.Cash),
			fmt.Sprintf("%.6f", a.Quantity),
			fmt.Sprintf("%.2f", a.Value),
			fmt.Sprintf("%.2f", a.RealizedPnL),
		)
		if err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, "failed to render asset row", err)
		}
	}

	if err := tbl.Render(); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to render asset table", err)
	}

	return nil
}

// WriteTradeLog prints one row per trade in execution order.
func WriteTradeLog(w io.Writer, trades []types.Trade) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Header("Tick", "Asset", "Type", "Price", "Quantity", "Avg Entry", "PnL", "Commission", "Cash After")

	for _, t := range trades {
		err := tbl.Append(
			fmt.Sprintf("%d", t.Tick),
			t.Symbol,
			t.Label(),
			fmt.Sprintf("%.4f", t.ExecutionPrice),
			fmt.Sprintf("%.6f", t.Quantity),
			fmt.Sprintf("%.4f", t.AverageEntryPrice),
			fmt.Sprintf("%.2f", t.PnL),
			fmt.Sprintf("%.4f", t.Commission),
			fmt.Sprintf("%.2f", t.CashAfter),
		)
		if err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, "failed to render trade row", err)
		}
	}

	if err := tbl.Render(); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to render trade log", err)
	}

	return nil
}

// WriteMetrics prints the named metrics, N/A for undefined ratios.
func WriteMetrics(w io.Writer, m types.Metrics) error {
	tbl := tablewriter.NewWriter(w)
	tbl.Header("Metric", "Value")

	for _, e := range m.Entries() {
		if err := tbl.Append(e.Name, e.Value); err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, "failed to render metric row", err)
		}
	}

	if err := tbl.Render(); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to render metrics", err)
	}

	return nil
}

// BuildStats converts a Result into the stats.yaml document. Parquet paths
// are only recorded when the files exist.
func BuildStats(result engine.Result) types.RunStats {
	stats := types.RunStats{
		ID:             result.RunID,
		StartedAt:      result.StartedAt,
		EndedAt:        result.EndedAt,
		Ticks:          result.Ticks,
		Strategy:       result.Strategy,
		FeedFallbacks:  result.FeedFallbacks,
		Assets:         []types.AssetSummary{},
		Metrics:        result.Metrics.Entries(),
		TradesFilePath: "",
		EquityFilePath: "",
	}

	counts := map[string]int{}
	for _, t := range result.Trades {
		counts[t.Symbol]++
	}

	if final, ok := result.Final(); ok {
		for _, a := range final.Assets {
			stats.Assets = append(stats.Assets, types.AssetSummary{
				Symbol:      a.Symbol,
				FinalPrice:  a.Price,
				FinalCash:   a.Cash,
				FinalValue:  a.Value,
				RealizedPnL: a.RealizedPnL,
				Trades:      counts[a.Symbol],
			})
		}
	}

	if result.RunPath != "" {
		stats.TradesFilePath = existing(filepath.Join(result.RunPath, TradesFileName))
		stats.EquityFilePath = existing(filepath.Join(result.RunPath, EquityFileName))
	}

	return stats
}

// WriteStats writes BuildStats(result) as YAML to path.
func WriteStats(path string, result engine.Result) error {
	if err := types.WriteRunStats(path, BuildStats(result)); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to write run stats", err)
	}

	return nil
}

func existing(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}

	return path
}
