// Package duckdb implements storage.Store on an embedded DuckDB database.
//
// DuckDB is the analytical engine for the whole pipeline: its native
// read_csv_auto/read_parquet table functions do the heavy lifting for file
// ingestion, and its SQL layer computes every derived table and check. This
// package only adapts the database/sql handle to the narrow storage.Store
// surface.
package duckdb

import (
	"context"
	"database/sql"

	_ "github.com/marcboeker/go-duckdb"

	"salesetl/internal/storage"
)

// DB implements storage.Store for DuckDB.
type DB struct {
	db *sql.DB
}

func init() {
	storage.Register("duckdb", New)
}

// New opens a DuckDB database. An empty DSN opens an in-memory database,
// so tables vanish when the process exits unless a file path is given.
func New(ctx context.Context, cfg storage.Config) (storage.Store, error) {
	db, err := sql.Open("duckdb", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) error {
	_, err := d.db.ExecContext(ctx, query, args...)
	return err
}

func (d *DB) ScalarInt64(ctx context.Context, query string, args ...any) (int64, error) {
	var n sql.NullInt64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n.Int64, nil
}

func (d *DB) ScalarFloat64(ctx context.Context, query string, args ...any) (float64, bool, error) {
	var f sql.NullFloat64
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&f); err != nil {
		return 0, false, err
	}
	return f.Float64, f.Valid, nil
}

func (d *DB) QueryRowScan(ctx context.Context, query string, dest ...any) error {
	return d.db.QueryRowContext(ctx, query).Scan(dest...)
}

func (d *DB) Close() error { return d.db.Close() }

var _ storage.Store = (*DB)(nil)
