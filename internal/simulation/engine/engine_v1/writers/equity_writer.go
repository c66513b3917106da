package writers

import (
	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

var equityTable = table{
	name: "equity",
	ddl: `
		CREATE TABLE IF NOT EXISTS equity (
			tick_index INTEGER,
			timestamp TIMESTAMP,
			total_value DOUBLE,
			benchmark_value DOUBLE,
			peak_value DOUBLE,
			drawdown_pct DOUBLE,
			cash DOUBLE
		)
	`,
	columns: []string{"tick_index", "timestamp", "total_value", "benchmark_value", "peak_value", "drawdown_pct", "cash"},
	orderBy: "tick_index ASC",
}

// EquityPoint is one row of equity.parquet.
type EquityPoint struct {
	TickIndex      int
	TotalValue     float64
	BenchmarkValue float64
	PeakValue      float64
	DrawdownPct    float64
	Cash           float64
}

// EquityWriter records one row per snapshot. Rows are exported on Flush
// only.
type EquityWriter struct {
	*parquetWriter
}

func NewEquityWriter(outputPath string) *EquityWriter {
	return &EquityWriter{parquetWriter: newParquetWriter(outputPath, equityTable, false)}
}

func (w *EquityWriter) Write(snapshot types.PortfolioSnapshot) error {
	cash := 0.0
	for _, a := range snapshot.Assets {
		cash += a.Cash
	}

	return w.insert(
		snapshot.TickIndex, snapshot.Timestamp, snapshot.TotalValue,
		snapshot.BenchmarkIndexValue, snapshot.PeakValue, snapshot.DrawdownPct, cash,
	)
}

// ReadEquity loads an equity.parquet file in tick order.
func ReadEquity(path string) ([]EquityPoint, error) {
	db, err := openParquet(path, "equity_view")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query, args, err := sq.
		Select("tick_index", "total_value", "benchmark_value", "peak_value", "drawdown_pct", "cash").
		From("equity_view").
		OrderBy(equityTable.orderBy).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build equity query", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query equity", err)
	}
	defer rows.Close()

	points := []EquityPoint{}

	for rows.Next() {
		var p EquityPoint
		if err := rows.Scan(&p.TickIndex, &p.TotalValue, &p.BenchmarkValue, &p.PeakValue, &p.DrawdownPct, &p.Cash); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan equity row", err)
		}

		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating equity rows", err)
	}

	return points, nil
}
