package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadSalesDelegatesToEngineReader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.csv",
		"transaction_id,product_id,customer_id,sale_date,quantity,unit_price,total_amount,region,sales_rep\n"+
			"TXN_001,PRD_101,CUST_123,2024-01-15,2,29.99,59.98,NA_EAST,Alice Cooper\n")

	st := &fakeStore{counts: map[string]int64{"FROM sales": 1}}
	lg := &captureLogger{}

	res, err := LoadSales(context.Background(), st, path, lg)
	if err != nil {
		t.Fatalf("LoadSales: %v", err)
	}

	if len(st.execs) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(st.execs))
	}
	q := st.execs[0]
	if !strings.Contains(q, "INSERT INTO sales") || !strings.Contains(q, "read_csv_auto('"+path+"', header=true)") {
		t.Fatalf("unexpected insert statement: %s", q)
	}

	if res.Table != "sales" || res.Rows != 1 || res.IsSkipped() {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !lg.contains("loaded 1 sales records") {
		t.Fatalf("missing row-count log: %v", lg.lines)
	}
}

func TestLoadSalesMissingFileIsFatal(t *testing.T) {
	st := &fakeStore{}

	_, err := LoadSales(context.Background(), st, filepath.Join(t.TempDir(), "nope.csv"), nil)
	if err == nil {
		t.Fatalf("expected error for missing sales file")
	}
	if len(st.execs) != 0 {
		t.Fatalf("no statements should run for a missing file")
	}
}

func TestLoadSalesEngineErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.csv", "transaction_id\nTXN_001\n")

	st := &fakeStore{execErr: context.DeadlineExceeded}
	_, err := LoadSales(context.Background(), st, path, nil)
	if err == nil || !strings.Contains(err.Error(), "load sales from") {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}
}
