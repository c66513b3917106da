// Package writers persists the trade log and the equity curve of a run to
// parquet files through an in-memory DuckDB table.
package writers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-tracker/pkg/errors"
)

var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type table struct {
	name    string
	ddl     string
	columns []string
	orderBy string
}

// parquetWriter holds one DuckDB table and mirrors it to outputPath.
type parquetWriter struct {
	db         *sql.DB
	outputPath string
	table      table
	// exportOnWrite rewrites the parquet file after every insert.
	exportOnWrite bool
	mu            sync.Mutex
}

func newParquetWriter(outputPath string, t table, exportOnWrite bool) *parquetWriter {
	return &parquetWriter{
		db:            nil,
		outputPath:    outputPath,
		table:         t,
		exportOnWrite: exportOnWrite,
		mu:            sync.Mutex{},
	}
}

// Initialize opens the database, creates the table and loads any rows
// already exported to outputPath.
func (w *parquetWriter) Initialize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeOutputPathError, "failed to create data directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriterNotReady, "failed to open DuckDB connection", err)
	}

	if _, err := db.Exec(w.table.ddl); err != nil {
		db.Close()

		return errors.Wrapf(errors.ErrCodeWriterNotReady, err, "failed to create %s table", w.table.name)
	}

	if _, err := os.Stat(w.outputPath); err == nil {
		// a corrupt previous export is replaced on the next write
		_, _ = db.Exec(fmt.Sprintf("INSERT INTO %s SELECT * FROM read_parquet('%s')", w.table.name, quote(w.outputPath)))
	}

	w.db = db

	return nil
}

func (w *parquetWriter) insert(values ...any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeWriterNotReady, "writer not initialized")
	}

	query, args, err := sq.Insert(w.table.name).Columns(w.table.columns...).Values(values...).ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build insert", err)
	}

	if _, err := w.db.Exec(query, args...); err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to insert into %s", w.table.name)
	}

	if w.exportOnWrite {
		return w.export()
	}

	return nil
}

// Flush forces an export to parquet.
func (w *parquetWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeWriterNotReady, "writer not initialized")
	}

	return w.export()
}

// Count returns the number of rows stored.
func (w *parquetWriter) Count() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return 0, errors.New(errors.ErrCodeWriterNotReady, "writer not initialized")
	}

	query, args, err := sq.Select("COUNT(*)").From(w.table.name).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count", err)
	}

	var count int
	if err := w.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to count %s", w.table.name)
	}

	return count, nil
}

// OutputPath returns the parquet file path.
func (w *parquetWriter) OutputPath() string {
	return w.outputPath
}

// Close releases database resources.
func (w *parquetWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return nil
	}

	err := w.db.Close()
	w.db = nil

	if err != nil {
		return errors.Wrap(errors.ErrCodeWriterNotReady, "failed to close database", err)
	}

	return nil
}

//nolint:funcorder // helper used by insert and Flush
func (w *parquetWriter) export() error {
	_, err := w.db.Exec(fmt.Sprintf("COPY (SELECT * FROM %s ORDER BY %s) TO '%s' (FORMAT PARQUET)",
		w.table.name, w.table.orderBy, quote(w.outputPath)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to export to parquet", err)
	}

	return nil
}

func quote(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}

// openParquet opens a throwaway database with a view over path.
func openParquet(path, view string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read %s", path)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriterNotReady, "failed to open DuckDB connection", err)
	}

	if _, err := db.Exec(fmt.Sprintf("CREATE VIEW %s AS SELECT * FROM read_parquet('%s')", view, quote(path))); err != nil {
		db.Close()

		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read %s", path)
	}

	return db, nil
}
