package writers

import (
	"time"

	"github.com/rxtech-lab/argo-tracker/internal/types"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

var tradesTable = table{
	name: "trades",
	ddl: `
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT,
			tick INTEGER,
			symbol TEXT,
			side TEXT,
			reason TEXT,
			executed_at TIMESTAMP,
			execution_price DOUBLE,
			quantity DOUBLE,
			average_entry_price DOUBLE,
			pnl DOUBLE,
			commission DOUBLE,
			cash_after DOUBLE,
			quantity_after DOUBLE
		)
	`,
	columns: []string{
		"id", "tick", "symbol", "side", "reason", "executed_at", "execution_price",
		"quantity", "average_entry_price", "pnl", "commission", "cash_after", "quantity_after",
	},
	orderBy: "tick ASC, executed_at ASC",
}

// TradesWriter writes every accepted execution to trades.parquet as it happens.
type TradesWriter struct {
	*parquetWriter
}

func NewTradesWriter(outputPath string) *TradesWriter {
	return &TradesWriter{parquetWriter: newParquetWriter(outputPath, tradesTable, true)}
}

func (w *TradesWriter) Write(trade types.Trade) error {
	return w.insert(
		trade.ID, trade.Tick, trade.Symbol, string(trade.Side), string(trade.Reason),
		trade.ExecutedAt, trade.ExecutionPrice, trade.Quantity, trade.AverageEntryPrice,
		trade.PnL, trade.Commission, trade.CashAfter, trade.QuantityAfter,
	)
}

// ReadTrades loads a trades.parquet file in tick order.
func ReadTrades(path string) ([]types.Trade, error) {
	db, err := openParquet(path, "trades_view")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query, args, err := sq.Select(tradesTable.columns...).From("trades_view").OrderBy(tradesTable.orderBy).ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build trades query", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	trades := []types.Trade{}

	for rows.Next() {
		var (
			trade      types.Trade
			side       string
			reason     string
			executedAt time.Time
		)

		err := rows.Scan(
			&trade.ID, &trade.Tick, &trade.Symbol, &side, &reason, &executedAt,
			&trade.ExecutionPrice, &trade.Quantity, &trade.AverageEntryPrice,
			&trade.PnL, &trade.Commission, &trade.CashAfter, &trade.QuantityAfter,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade row", err)
		}

		trade.Side = types.Side(side)
		trade.Reason = types.OrderReason(reason)
		trade.ExecutedAt = executedAt
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating trade rows", err)
	}

	return trades, nil
}
