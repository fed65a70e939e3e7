// Package storage defines the backend-agnostic store interface the pipeline
// stages run against, plus the factory registry used to select a backend at
// startup.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config is the minimal configuration needed to open a store.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; an empty DSN means an
//     in-memory database for backends that support it.
type Config struct {
	Kind string
	DSN  string
}

// Store is the minimal query surface the ETL stages need.
//
// IMPORTANT: This interface is intentionally small. Stages build their SQL
// as fixed statements and only ever need "execute", "one scalar", or
// "one row"; keeping the surface this narrow is what makes the stage
// packages trivially fakeable in tests.
type Store interface {
	// Exec runs a statement (DDL or DML) and discards any result rows.
	Exec(ctx context.Context, query string, args ...any) error

	// ScalarInt64 runs a query expected to return a single integer value.
	// A NULL result scans as 0.
	ScalarInt64(ctx context.Context, query string, args ...any) (int64, error)

	// ScalarFloat64 runs a query expected to return a single numeric value.
	// ok is false when the result is NULL (e.g. SUM over an empty table).
	ScalarFloat64(ctx context.Context, query string, args ...any) (float64, bool, error)

	// QueryRowScan runs a query expected to return exactly one row and scans
	// it into dest. dest entries follow database/sql scanning rules.
	QueryRowScan(ctx context.Context, query string, dest ...any) error

	// Close releases the underlying connection. Call once at shutdown.
	Close() error
}

type factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a store backend under a kind (e.g. "duckdb").
//
// Edge cases:
//   - kind must be non-empty and f non-nil.
//   - Registering the same kind twice panics. This is intentional to fail
//     fast on ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Store using the registered backend factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unsupported.
//   - Returns whatever error the registered factory returns.
func New(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing Kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
