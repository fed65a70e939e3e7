package loader

import (
	"context"
	"fmt"
	"os"

	"salesetl/internal/storage"
)

// LoadSales loads sales transactions from a CSV file into the sales table
// using the engine's native CSV reader (header-aware, type-inferring).
//
// Errors:
//   - Missing or unreadable file: fatal.
//   - Malformed rows or schema mismatch: fatal, surfaced by the engine.
//   - Duplicate transaction_id: fatal (primary key violation).
func LoadSales(ctx context.Context, st storage.Store, path string, lg Logger) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		return Result{}, fmt.Errorf("sales csv %s: %w", path, err)
	}

	logf(lg, "loading sales data from %s", path)

	q := "INSERT INTO sales SELECT * FROM read_csv_auto(" + sqlPath(path) + ", header=true)"
	if err := st.Exec(ctx, q); err != nil {
		return Result{}, fmt.Errorf("load sales from %s: %w", path, err)
	}

	count, err := st.ScalarInt64(ctx, "SELECT COUNT(*) FROM sales")
	if err != nil {
		return Result{}, fmt.Errorf("count sales: %w", err)
	}

	logf(lg, "loaded %d sales records", count)
	return Result{Table: "sales", Rows: count}, nil
}
