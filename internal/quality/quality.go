// Package quality runs the fixed data-quality checklist against the loaded
// base tables.
//
// Findings are informational: a nonzero count produces a human-readable
// issue string, never an error. Only engine-level query failures are fatal.
package quality

import (
	"context"
	"fmt"

	"salesetl/internal/storage"
)

// Logger is the minimal logging interface used by the checker.
type Logger interface {
	Printf(format string, v ...any)
}

// check is one COUNT(*) probe plus the issue template used when the count
// is nonzero. The template receives the count.
type check struct {
	Table     string
	Predicate string
	Format    string // e.g. "sales.product_id: %d null values"
}

// checklist is the fixed set of probes: five null checks across two tables,
// one negative-amount check, one future-date check.
var checklist = []check{
	{Table: "sales", Predicate: "product_id IS NULL", Format: "sales.product_id: %d null values"},
	{Table: "sales", Predicate: "customer_id IS NULL", Format: "sales.customer_id: %d null values"},
	{Table: "sales", Predicate: "total_amount IS NULL", Format: "sales.total_amount: %d null values"},
	{Table: "products", Predicate: "product_id IS NULL", Format: "products.product_id: %d null values"},
	{Table: "products", Predicate: "name IS NULL", Format: "products.name: %d null values"},
	{Table: "sales", Predicate: "total_amount < 0", Format: "sales.total_amount: %d negative values"},
	{Table: "sales", Predicate: "sale_date > CURRENT_DATE", Format: "sales.sale_date: %d future dates"},
}

// Run executes every probe and returns the issues found. An empty slice
// means every check passed.
//
// Errors:
//   - Only engine-level query failures are returned as errors; findings are
//     collected, logged, and returned as data.
func Run(ctx context.Context, st storage.Store, lg Logger) ([]string, error) {
	if lg != nil {
		lg.Printf("running data quality checks")
	}

	var issues []string
	for _, c := range checklist {
		q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", c.Table, c.Predicate)
		n, err := st.ScalarInt64(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("quality check %s (%s): %w", c.Table, c.Predicate, err)
		}
		if n > 0 {
			issues = append(issues, fmt.Sprintf(c.Format, n))
		}
	}

	if lg != nil {
		if len(issues) > 0 {
			lg.Printf("warning: data quality issues found: %v", issues)
		} else {
			lg.Printf("all data quality checks passed")
		}
	}
	return issues, nil
}
