package gen

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
)

var testEnd = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

func TestWriteSalesCSVDeterministic(t *testing.T) {
	dir := t.TempDir()
	cfg := SalesConfig{Rows: 200, Seed: 42, End: testEnd}

	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	if _, err := WriteSalesCSV(a, cfg); err != nil {
		t.Fatalf("WriteSalesCSV: %v", err)
	}
	if _, err := WriteSalesCSV(b, cfg); err != nil {
		t.Fatalf("WriteSalesCSV: %v", err)
	}

	rawA, err := os.ReadFile(a)
	if err != nil {
		t.Fatalf("read a: %v", err)
	}
	rawB, err := os.ReadFile(b)
	if err != nil {
		t.Fatalf("read b: %v", err)
	}
	if !bytes.Equal(rawA, rawB) {
		t.Fatalf("same seed must produce identical files")
	}
}

func TestWriteSalesCSVShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	products := Products(20, 7)

	stats, err := WriteSalesCSV(path, SalesConfig{Rows: 500, Seed: 7, End: testEnd, Products: products})
	if err != nil {
		t.Fatalf("WriteSalesCSV: %v", err)
	}
	if stats.Rows != 500 {
		t.Fatalf("stats.Rows = %d", stats.Rows)
	}
	if stats.TotalRevenue <= 0 {
		t.Fatalf("stats.TotalRevenue = %v", stats.TotalRevenue)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 501 {
		t.Fatalf("records = %d, want header + 500", len(records))
	}
	if records[0][0] != "transaction_id" || len(records[0]) != 9 {
		t.Fatalf("header = %v", records[0])
	}

	priceByProduct := map[string]float64{}
	for _, p := range products {
		priceByProduct[p.ProductID] = p.Price
	}

	prevDate := ""
	for i, rec := range records[1:] {
		date := rec[3]
		if date < prevDate {
			t.Fatalf("row %d out of date order: %s after %s", i, date, prevDate)
		}
		prevDate = date

		q, err := strconv.Atoi(rec[4])
		if err != nil || q < 1 {
			t.Fatalf("row %d quantity %q", i, rec[4])
		}
		price, err := strconv.ParseFloat(rec[5], 64)
		if err != nil || price <= 0 {
			t.Fatalf("row %d unit_price %q", i, rec[5])
		}
		if want, ok := priceByProduct[rec[1]]; !ok {
			t.Fatalf("row %d references unknown product %q", i, rec[1])
		} else if price != want {
			t.Fatalf("row %d price %v differs from catalog %v", i, price, want)
		}

		total, err := strconv.ParseFloat(rec[6], 64)
		if err != nil {
			t.Fatalf("row %d total_amount %q", i, rec[6])
		}
		if want := float64(q) * price; total < want-0.01 || total > want+0.01 {
			t.Fatalf("row %d total %v != %d * %v", i, total, q, price)
		}
	}
}

func TestProductsDeterministicAndPriced(t *testing.T) {
	a := Products(50, 42)
	b := Products(50, 42)
	if len(a) != 50 {
		t.Fatalf("len = %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("product %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}

	for _, p := range a {
		if p.Cost <= 0 || p.Price <= p.Cost {
			t.Fatalf("pricing out of range: %+v", p)
		}
		if p.Margin < 20 || p.Margin > 60 {
			t.Fatalf("margin out of range: %+v", p)
		}
		if subcategories[p.Category] == nil {
			t.Fatalf("unknown category: %+v", p)
		}
	}
}

func TestWriteProductsJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")

	written, err := WriteProductsJSON(path, 10, 1)
	if err != nil {
		t.Fatalf("WriteProductsJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got []Product
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 10 || got[0] != written[0] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestWriteRegionsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.parquet")

	n, err := WriteRegionsParquet(path)
	if err != nil {
		t.Fatalf("WriteRegionsParquet: %v", err)
	}
	if n != 10 {
		t.Fatalf("n = %d, want 10", n)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[Region](f)
	defer reader.Close()

	got := make([]Region, n)
	read, err := reader.Read(got)
	if err != nil && read != n {
		t.Fatalf("read: %v", err)
	}

	want := Regions()
	for i := 0; i < read; i++ {
		if got[i] != want[i] {
			t.Fatalf("region %d mismatch: %+v vs %+v", i, got[i], want[i])
		}
	}
	if got[0].RegionID != "NA_EAST" || got[9].RegionID != "MEA" {
		t.Fatalf("catalog order: %+v", got)
	}
}
