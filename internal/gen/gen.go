// Package gen produces synthetic input files for local runs and load
// testing: a sales CSV, a product catalog JSON, and the regions Parquet
// file.
//
// Generation is deterministic for a fixed seed and end date, so two runs
// with the same parameters produce byte-identical files.
package gen

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Region is one row of the regions reference file.
type Region struct {
	RegionID      string  `parquet:"region_id"`
	RegionName    string  `parquet:"region_name"`
	Country       string  `parquet:"country"`
	Timezone      string  `parquet:"timezone"`
	Manager       string  `parquet:"manager"`
	TargetRevenue float64 `parquet:"target_revenue"`
}

// Regions returns the fixed regional catalog.
func Regions() []Region {
	return []Region{
		{"NA_EAST", "North America East", "United States", "America/New_York", "Sarah Johnson", 2500000.00},
		{"NA_WEST", "North America West", "United States", "America/Los_Angeles", "Michael Chen", 2800000.00},
		{"NA_CENTRAL", "North America Central", "United States", "America/Chicago", "David Rodriguez", 2200000.00},
		{"EU_NORTH", "Europe North", "Multiple", "Europe/Stockholm", "Anna Larsson", 1800000.00},
		{"EU_CENTRAL", "Europe Central", "Multiple", "Europe/Berlin", "Klaus Mueller", 2100000.00},
		{"EU_SOUTH", "Europe South", "Multiple", "Europe/Rome", "Maria Rossi", 1600000.00},
		{"APAC_EAST", "Asia Pacific East", "Multiple", "Asia/Tokyo", "Hiroshi Tanaka", 2000000.00},
		{"APAC_SOUTH", "Asia Pacific South", "Multiple", "Asia/Singapore", "Li Wei", 1900000.00},
		{"LATAM", "Latin America", "Multiple", "America/Sao_Paulo", "Carlos Silva", 1400000.00},
		{"MEA", "Middle East & Africa", "Multiple", "Africa/Johannesburg", "Ahmed Hassan", 1200000.00},
	}
}

// WriteRegionsParquet writes the regional catalog to path and returns the
// row count.
func WriteRegionsParquet(path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	regions := Regions()
	w := parquet.NewGenericWriter[Region](f)
	if _, err := w.Write(regions); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("write regions: %w", err)
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}
	return len(regions), nil
}

// Product is one entry of the generated product catalog.
type Product struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Brand       string  `json:"brand"`
	Cost        float64 `json:"cost"`
	Price       float64 `json:"price"`
	Margin      float64 `json:"margin"`
}

var (
	categories = []string{
		"Electronics", "Clothing", "Home & Garden", "Sports", "Books",
		"Toys", "Health & Beauty", "Automotive", "Tools", "Food & Beverage",
	}

	subcategories = map[string][]string{
		"Electronics":     {"Smartphones", "Laptops", "Tablets", "Accessories", "Audio"},
		"Clothing":        {"Shirts", "Pants", "Dresses", "Shoes", "Accessories"},
		"Home & Garden":   {"Furniture", "Decor", "Appliances", "Garden Tools", "Lighting"},
		"Sports":          {"Fitness Equipment", "Outdoor Gear", "Team Sports", "Water Sports", "Winter Sports"},
		"Books":           {"Fiction", "Non-Fiction", "Educational", "Children's", "Reference"},
		"Toys":            {"Action Figures", "Board Games", "Educational", "Electronic", "Outdoor"},
		"Health & Beauty": {"Skincare", "Makeup", "Hair Care", "Supplements", "Personal Care"},
		"Automotive":      {"Parts", "Accessories", "Tools", "Electronics", "Maintenance"},
		"Tools":           {"Hand Tools", "Power Tools", "Hardware", "Measuring", "Safety"},
		"Food & Beverage": {"Snacks", "Beverages", "Ingredients", "Organic", "International"},
	}

	brands = []string{
		"TechPro", "StyleMax", "HomeComfort", "SportElite", "BookWorld",
		"PlayTime", "BeautyPlus", "AutoMax", "ToolCraft", "FreshTaste",
	}

	nameSuffixes = []string{"Pro", "Elite", "Classic", "Premium", "Basic"}

	salesReps = []string{
		"Alice Cooper", "Bob Wilson", "Carol Davis", "Dan Brown", "Eva Martinez",
		"Frank Thompson", "Grace Lee", "Henry Wang", "Isabel Garcia", "Jack Smith",
		"Kate Johnson", "Liam O'Connor", "Maya Patel", "Noah Kim", "Olivia Zhang",
		"Paul Anderson", "Quinn Taylor", "Rachel Green", "Sam Miller", "Tina Liu",
	}
)

// Products generates n catalog entries deterministically from seed.
func Products(n int, seed int64) []Product {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Product, 0, n)

	for i := 0; i < n; i++ {
		category := categories[rng.Intn(len(categories))]
		subs := subcategories[category]
		sub := subs[rng.Intn(len(subs))]
		brand := brands[rng.Intn(len(brands))]

		var cost float64
		switch category {
		case "Electronics":
			cost = round2(50 + rng.Float64()*750)
		case "Automotive", "Tools":
			cost = round2(20 + rng.Float64()*280)
		case "Clothing", "Health & Beauty":
			cost = round2(10 + rng.Float64()*140)
		default:
			cost = round2(5 + rng.Float64()*95)
		}
		margin := 0.2 + rng.Float64()*0.4

		out = append(out, Product{
			ProductID:   fmt.Sprintf("PROD_%04d", i+1000),
			Name:        fmt.Sprintf("%s %s %s", brand, sub, nameSuffixes[rng.Intn(len(nameSuffixes))]),
			Category:    category,
			Subcategory: sub,
			Brand:       brand,
			Cost:        cost,
			Price:       round2(cost * (1 + margin)),
			Margin:      round2(margin * 100),
		})
	}
	return out
}

// WriteProductsJSON generates n products and writes them as a JSON array.
func WriteProductsJSON(path string, n int, seed int64) ([]Product, error) {
	products := Products(n, seed)

	raw, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode products: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return products, nil
}

// SalesConfig controls the sales CSV generator.
type SalesConfig struct {
	Rows int
	Seed int64
	// End is the newest sale date; the window extends 730 days back.
	// Zero means today.
	End time.Time
	// Products, when set, anchors transactions to a known catalog so the
	// join tables line up. Empty falls back to a synthetic ID range.
	Products []Product
}

// SalesStats summarizes a generated sales file.
type SalesStats struct {
	Rows         int
	TotalRevenue float64
	MinDate      string
	MaxDate      string
}

const salesWindowDays = 730

type saleRow struct {
	txn      string
	product  string
	customer string
	date     time.Time
	quantity int
	price    float64
	total    float64
	region   string
	rep      string
}

// WriteSalesCSV generates cfg.Rows transactions and writes them to path,
// sorted by sale date.
func WriteSalesCSV(path string, cfg SalesConfig) (SalesStats, error) {
	if cfg.Rows <= 0 {
		cfg.Rows = 50000
	}
	end := cfg.End
	if end.IsZero() {
		end = time.Now()
	}
	end = end.Truncate(24 * time.Hour)

	productIDs := make([]string, 0, len(cfg.Products))
	priceByProduct := make(map[string]float64, len(cfg.Products))
	for _, p := range cfg.Products {
		productIDs = append(productIDs, p.ProductID)
		priceByProduct[p.ProductID] = p.Price
	}
	if len(productIDs) == 0 {
		for i := 1; i <= 200; i++ {
			productIDs = append(productIDs, fmt.Sprintf("PROD_%04d", i))
		}
	}

	regions := Regions()
	rng := rand.New(rand.NewSource(cfg.Seed))

	rows := make([]saleRow, cfg.Rows)
	for i := range rows {
		daysBack := int(rng.ExpFloat64()*365) % salesWindowDays
		date := end.AddDate(0, 0, -daysBack)

		product := productIDs[rng.Intn(len(productIDs))]
		price, ok := priceByProduct[product]
		if !ok {
			price = basePrice(product)
		}

		quantity := quantityFor(rng, date.Month())

		rows[i] = saleRow{
			txn:      fmt.Sprintf("TXN_%06d", i+100000),
			product:  product,
			customer: fmt.Sprintf("CUST_%05d", rng.Intn(2000)+1),
			date:     date,
			quantity: quantity,
			price:    price,
			total:    round2(float64(quantity) * price),
			region:   regions[rng.Intn(len(regions))].RegionID,
			rep:      salesReps[rng.Intn(len(salesReps))],
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	f, err := os.Create(path)
	if err != nil {
		return SalesStats{}, fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	header := []string{
		"transaction_id", "product_id", "customer_id", "sale_date",
		"quantity", "unit_price", "total_amount", "region", "sales_rep",
	}
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return SalesStats{}, fmt.Errorf("write header: %w", err)
	}

	stats := SalesStats{Rows: len(rows)}
	for _, r := range rows {
		rec := []string{
			r.txn,
			r.product,
			r.customer,
			r.date.Format("2006-01-02"),
			fmt.Sprintf("%d", r.quantity),
			fmt.Sprintf("%.2f", r.price),
			fmt.Sprintf("%.2f", r.total),
			r.region,
			r.rep,
		}
		if err := w.Write(rec); err != nil {
			_ = f.Close()
			return SalesStats{}, fmt.Errorf("write row %s: %w", r.txn, err)
		}
		stats.TotalRevenue += r.total
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return SalesStats{}, fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return SalesStats{}, fmt.Errorf("close %s: %w", path, err)
	}

	if len(rows) > 0 {
		stats.MinDate = rows[0].date.Format("2006-01-02")
		stats.MaxDate = rows[len(rows)-1].date.Format("2006-01-02")
	}
	stats.TotalRevenue = round2(stats.TotalRevenue)
	return stats, nil
}

// quantityFor draws a quantity weighted toward small orders, boosted in the
// holiday and summer seasons.
func quantityFor(rng *rand.Rand, month time.Month) int {
	weights := []int{1, 1, 1, 2, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	base := weights[rng.Intn(len(weights))]

	multiplier := 1.0
	switch month {
	case time.November, time.December:
		multiplier = 1.5
	case time.June, time.July, time.August:
		multiplier = 1.2
	}

	q := int(float64(base) * multiplier)
	if q < 1 {
		q = 1
	}
	return q
}

// basePrice derives a stable per-product price in [10, 500) from the
// product ID, so repeat sales of one product always carry the same price.
func basePrice(productID string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(productID))
	return round2(10 + float64(h.Sum32()%49000)/100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
