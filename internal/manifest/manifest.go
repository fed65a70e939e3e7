// Package manifest persists a history record per pipeline run to an
// embedded SQLite file.
//
// The manifest is operational bookkeeping, not pipeline state: a write
// failure here is reported to the caller but must never fail the run
// itself (the orchestrator logs and continues).
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID             string
	StartedAt      time.Time
	Duration       time.Duration
	SalesRows      int64
	ProductRows    int64
	RegionRows     int64
	RegionsSkipped bool
	IssueCount     int
	TotalRevenue   float64
	Err            string // empty on success
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

const createRunsSQL = `CREATE TABLE IF NOT EXISTS runs (
	run_id          TEXT PRIMARY KEY,
	started_at      TEXT NOT NULL,
	duration_ms     INTEGER NOT NULL,
	sales_rows      INTEGER NOT NULL,
	product_rows    INTEGER NOT NULL,
	region_rows     INTEGER NOT NULL,
	regions_skipped INTEGER NOT NULL,
	issue_count     INTEGER NOT NULL,
	total_revenue   REAL NOT NULL,
	error           TEXT NOT NULL
)`

// Store writes run records to a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the manifest database at path and ensures
// the runs table exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping manifest %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, createRunsSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure runs table: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts one run record. Timestamps are stored as RFC3339Nano
// strings for reliable round-trip behavior in SQLite's TEXT affinity.
func (s *Store) Record(ctx context.Context, r Run) error {
	if r.ID == "" {
		return fmt.Errorf("manifest: run ID is required")
	}

	skipped := 0
	if r.RegionsSkipped {
		skipped = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, duration_ms, sales_rows, product_rows,
			region_rows, regions_skipped, issue_count, total_revenue, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.Duration.Milliseconds(),
		r.SalesRows,
		r.ProductRows,
		r.RegionRows,
		skipped,
		r.IssueCount,
		r.TotalRevenue,
		r.Err,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to limit run records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, duration_ms, sales_rows, product_rows,
			region_rows, regions_skipped, issue_count, total_revenue, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r          Run
			started    string
			durationMS int64
			skipped    int
		)
		if err := rows.Scan(&r.ID, &started, &durationMS, &r.SalesRows, &r.ProductRows,
			&r.RegionRows, &skipped, &r.IssueCount, &r.TotalRevenue, &r.Err); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, started); err == nil {
			r.StartedAt = ts
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.RegionsSkipped = skipped != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
