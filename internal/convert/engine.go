// Package convert turns parquet files into CSV by delegating parsing and
// query execution to an embedded DuckDB engine. The package never decodes
// parquet itself; it registers files with the engine and issues plain SQL
// (COUNT(*), DESCRIBE, SELECT *, COPY ... TO) against them.
package convert

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// parquetMagic is the 4-byte header every parquet file starts with.
const parquetMagic = "PAR1"

// Column describes one column of a registered parquet file.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableInfo is the result of inspecting a parquet file.
type TableInfo struct {
	Path    string   `json:"path"`
	Rows    int64    `json:"rows"`
	Columns []Column `json:"columns"`
}

// Engine wraps an in-memory DuckDB instance. It is safe for concurrent
// use; DuckDB serializes access through database/sql connections.
type Engine struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	log    *zap.Logger
}

// NewEngine opens an in-memory DuckDB database.
func NewEngine(log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Engine{db: db, log: log}, nil
}

// Close releases the engine. Further operations return ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.db.Close()
}

func (e *Engine) checkOpen() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return ErrEngineClosed
	}
	return nil
}

// VerifyParquet rejects files that do not start with the parquet magic
// bytes, before the engine ever sees them.
func VerifyParquet(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	magic := make([]byte, len(parquetMagic))
	if _, err := f.Read(magic); err != nil {
		return fmt.Errorf("%w: %s", ErrNotParquet, path)
	}
	if string(magic) != parquetMagic {
		return fmt.Errorf("%w: %s", ErrNotParquet, path)
	}
	return nil
}

// sourceExpr builds the read_parquet() relation for a file path, with the
// path embedded as a SQL string literal.
func sourceExpr(path string) string {
	return fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(path, "'", "''"))
}

// Inspect registers the parquet file with the engine and returns its row
// count and schema via COUNT(*) and DESCRIBE.
func (e *Engine) Inspect(ctx context.Context, path string) (*TableInfo, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if err := VerifyParquet(path); err != nil {
		return nil, err
	}

	src := sourceExpr(path)
	info := &TableInfo{Path: path}

	row := e.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+src)
	if err := row.Scan(&info.Rows); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	rows, err := e.db.QueryContext(ctx, "DESCRIBE SELECT * FROM "+src)
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	defer rows.Close()

	// DESCRIBE returns column_name, column_type, null, key, default, extra.
	for rows.Next() {
		var (
			name, typ    string
			null, key    sql.NullString
			deflt, extra sql.NullString
		)
		if err := rows.Scan(&name, &typ, &null, &key, &deflt, &extra); err != nil {
			return nil, fmt.Errorf("scan describe row: %w", err)
		}
		info.Columns = append(info.Columns, Column{Name: name, Type: typ})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe cursor: %w", err)
	}

	e.log.Debug("inspected parquet file",
		zap.String("path", path),
		zap.Int64("rows", info.Rows),
		zap.Int("columns", len(info.Columns)))
	return info, nil
}

// Query runs SELECT * over the registered file and returns the cursor.
// The caller owns the returned rows.
func (e *Engine) Query(ctx context.Context, path string) (*sql.Rows, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := e.db.QueryContext(ctx, "SELECT * FROM "+sourceExpr(path))
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return rows, nil
}

// CopyTo delegates serialization entirely to the engine:
// COPY (SELECT * FROM read_parquet(...)) TO 'out' (FORMAT CSV, HEADER).
// Returns the number of rows the engine reports as exported.
func (e *Engine) CopyTo(ctx context.Context, path, out string) (int64, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}
	if err := VerifyParquet(path); err != nil {
		return 0, err
	}
	stmt := fmt.Sprintf("COPY (SELECT * FROM %s) TO '%s' (FORMAT CSV, HEADER)",
		sourceExpr(path), strings.ReplaceAll(out, "'", "''"))
	res, err := e.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("copy to csv: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		// DuckDB reports exported row counts; treat a missing count as zero.
		return 0, nil
	}
	return n, nil
}
