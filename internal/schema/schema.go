// Package schema owns the DDL for the base tables.
//
// Initialization is destructive on purpose: CREATE OR REPLACE resets each
// base table to an empty state, which is what makes a rerun after a failed
// pipeline safe without any rollback machinery.
package schema

import (
	"context"
	"fmt"

	"salesetl/internal/storage"
)

// Statements in execution order. Column sets mirror the input files
// (data/sales.csv, data/products.json, data/regions.parquet).
var ddl = []struct {
	Table string
	SQL   string
}{
	{
		Table: "sales",
		SQL: `CREATE OR REPLACE TABLE sales (
	transaction_id VARCHAR PRIMARY KEY,
	product_id     VARCHAR,
	customer_id    VARCHAR,
	sale_date      DATE,
	quantity       INTEGER,
	unit_price     DECIMAL(10,2),
	total_amount   DECIMAL(10,2),
	region         VARCHAR,
	sales_rep      VARCHAR
)`,
	},
	{
		Table: "products",
		SQL: `CREATE OR REPLACE TABLE products (
	product_id  VARCHAR PRIMARY KEY,
	name        VARCHAR,
	category    VARCHAR,
	subcategory VARCHAR,
	brand       VARCHAR,
	cost        DECIMAL(10,2),
	price       DECIMAL(10,2),
	margin      DECIMAL(5,2)
)`,
	},
	{
		Table: "regions",
		SQL: `CREATE OR REPLACE TABLE regions (
	region_id      VARCHAR PRIMARY KEY,
	region_name    VARCHAR,
	country        VARCHAR,
	timezone       VARCHAR,
	manager        VARCHAR,
	target_revenue DECIMAL(12,2)
)`,
	},
}

// Tables returns the base table names in creation order.
func Tables() []string {
	out := make([]string, 0, len(ddl))
	for _, d := range ddl {
		out = append(out, d.Table)
	}
	return out
}

// Init (re)creates the base tables. Idempotent: running it twice leaves the
// same empty-table state as running it once. Any engine error is fatal.
func Init(ctx context.Context, st storage.Store) error {
	for _, d := range ddl {
		if err := st.Exec(ctx, d.SQL); err != nil {
			return fmt.Errorf("create table %s: %w", d.Table, err)
		}
	}
	return nil
}
