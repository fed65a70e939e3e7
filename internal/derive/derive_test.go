package derive

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeStore struct {
	execs   []string
	execErr error
}

func (f *fakeStore) Exec(ctx context.Context, query string, args ...any) error {
	f.execs = append(f.execs, query)
	return f.execErr
}

func (f *fakeStore) ScalarInt64(ctx context.Context, query string, args ...any) (int64, error) {
	return 0, nil
}

func (f *fakeStore) ScalarFloat64(ctx context.Context, query string, args ...any) (float64, bool, error) {
	return 0, false, nil
}

func (f *fakeStore) QueryRowScan(ctx context.Context, query string, dest ...any) error { return nil }
func (f *fakeStore) Close() error                                                      { return nil }

func TestBuildReplacesBothTables(t *testing.T) {
	st := &fakeStore{}
	if err := Build(context.Background(), st, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(st.execs) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(st.execs))
	}
	if !strings.Contains(st.execs[0], "CREATE OR REPLACE TABLE monthly_sales AS") {
		t.Fatalf("first statement: %s", st.execs[0])
	}
	if !strings.Contains(st.execs[1], "CREATE OR REPLACE TABLE product_performance AS") {
		t.Fatalf("second statement: %s", st.execs[1])
	}
}

func TestProductPerformanceKeepsUnsoldProducts(t *testing.T) {
	// LEFT JOIN from products is what retains products with no sales.
	if !strings.Contains(productPerformanceSQL, "FROM products p") ||
		!strings.Contains(productPerformanceSQL, "LEFT JOIN sales s") {
		t.Fatalf("product_performance must left-join products to sales:\n%s", productPerformanceSQL)
	}
}

func TestProductPerformanceGuardsZeroCost(t *testing.T) {
	if !strings.Contains(productPerformanceSQL, "NULLIF(p.cost, 0)") {
		t.Fatalf("margin_percent must not divide by a raw cost:\n%s", productPerformanceSQL)
	}
}

func TestMonthlySalesGroupsByYearMonthRegion(t *testing.T) {
	if !strings.Contains(monthlySalesSQL, "GROUP BY year, month, region") {
		t.Fatalf("monthly_sales grouping:\n%s", monthlySalesSQL)
	}
}

func TestBuildErrorCarriesTableName(t *testing.T) {
	boom := errors.New("boom")
	st := &fakeStore{execErr: boom}

	err := Build(context.Background(), st, nil)
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "build monthly_sales") {
		t.Fatalf("error lacks table context: %v", err)
	}
}

func TestTables(t *testing.T) {
	got := Tables()
	if len(got) != 2 || got[0] != "monthly_sales" || got[1] != "product_performance" {
		t.Fatalf("Tables() = %v", got)
	}
}
