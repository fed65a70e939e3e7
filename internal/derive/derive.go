// Package derive rebuilds the aggregation tables from the base tables.
//
// Both derived tables are fully replaced on every run (batch model, not
// incremental): CREATE OR REPLACE TABLE ... AS recomputes them wholesale,
// so a rerun never has to reconcile with stale aggregates.
package derive

import (
	"context"
	"fmt"

	"salesetl/internal/storage"
)

// Logger is the minimal logging interface used by the builder.
type Logger interface {
	Printf(format string, v ...any)
}

// monthlySalesSQL groups sales by (year, month, region).
const monthlySalesSQL = `CREATE OR REPLACE TABLE monthly_sales AS
SELECT
	EXTRACT(YEAR FROM sale_date)  AS year,
	EXTRACT(MONTH FROM sale_date) AS month,
	region,
	COUNT(*)          AS transaction_count,
	SUM(total_amount) AS total_revenue,
	AVG(total_amount) AS avg_transaction_value,
	SUM(quantity)     AS total_quantity
FROM sales
GROUP BY year, month, region`

// productPerformanceSQL left-joins products to sales so unsold products are
// retained with NULL aggregates. NULLIF keeps a zero-cost product from
// producing a division error; its margin comes back NULL.
const productPerformanceSQL = `CREATE OR REPLACE TABLE product_performance AS
SELECT
	p.product_id,
	p.name,
	p.category,
	p.brand,
	COUNT(s.transaction_id) AS transaction_count,
	SUM(s.total_amount)     AS total_revenue,
	SUM(s.quantity)         AS total_quantity_sold,
	AVG(s.unit_price)       AS avg_selling_price,
	p.cost,
	(AVG(s.unit_price) - p.cost) / NULLIF(p.cost, 0) * 100 AS margin_percent
FROM products p
LEFT JOIN sales s ON p.product_id = s.product_id
GROUP BY p.product_id, p.name, p.category, p.brand, p.cost`

var statements = []struct {
	Table string
	SQL   string
}{
	{Table: "monthly_sales", SQL: monthlySalesSQL},
	{Table: "product_performance", SQL: productPerformanceSQL},
}

// Tables returns the derived table names in build order.
func Tables() []string {
	out := make([]string, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.Table)
	}
	return out
}

// Build (re)computes the derived tables. The base tables must already be
// populated; an empty sales table simply yields empty (or all-NULL) rollups.
func Build(ctx context.Context, st storage.Store, lg Logger) error {
	for _, s := range statements {
		if err := st.Exec(ctx, s.SQL); err != nil {
			return fmt.Errorf("build %s: %w", s.Table, err)
		}
		if lg != nil {
			lg.Printf("derived table %s rebuilt", s.Table)
		}
	}
	return nil
}
