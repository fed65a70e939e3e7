// Package report builds the end-of-run summary from read-only queries.
package report

import (
	"context"
	"database/sql"
	"fmt"

	"salesetl/internal/storage"
)

// Summary is the pipeline's output mapping: base-table row counts, the
// sales date range, and total revenue.
type Summary struct {
	Sales    int64
	Products int64
	Regions  int64

	// SalesDateRange is "<min> to <max>". With no sales rows it degrades to
	// "<nil> to <nil>", matching the NULL MIN/MAX the engine returns.
	SalesDateRange string

	// TotalRevenue is 0 when the sales table is empty (SUM over no rows is
	// NULL).
	TotalRevenue float64
}

// Build queries the summary statistics. It has no side effects.
func Build(ctx context.Context, st storage.Store) (Summary, error) {
	var s Summary

	counts := []struct {
		table string
		dst   *int64
	}{
		{table: "sales", dst: &s.Sales},
		{table: "products", dst: &s.Products},
		{table: "regions", dst: &s.Regions},
	}
	for _, c := range counts {
		n, err := st.ScalarInt64(ctx, "SELECT COUNT(*) FROM "+c.table)
		if err != nil {
			return Summary{}, fmt.Errorf("count %s: %w", c.table, err)
		}
		*c.dst = n
	}

	var minDate, maxDate sql.NullString
	if err := st.QueryRowScan(ctx,
		"SELECT CAST(MIN(sale_date) AS VARCHAR), CAST(MAX(sale_date) AS VARCHAR) FROM sales",
		&minDate, &maxDate,
	); err != nil {
		return Summary{}, fmt.Errorf("sales date range: %w", err)
	}
	s.SalesDateRange = fmt.Sprintf("%s to %s", nullableDate(minDate), nullableDate(maxDate))

	revenue, ok, err := st.ScalarFloat64(ctx, "SELECT SUM(total_amount) FROM sales")
	if err != nil {
		return Summary{}, fmt.Errorf("total revenue: %w", err)
	}
	if ok {
		s.TotalRevenue = revenue
	}

	return s, nil
}

func nullableDate(v sql.NullString) string {
	if !v.Valid {
		return "<nil>"
	}
	return v.String
}
