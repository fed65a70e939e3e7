package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salesetl/internal/gen"
)

// main generates the synthetic input files: sales.csv, products.json and
// regions.parquet. Output is deterministic for a fixed seed.
func main() {
	var (
		outDir   string
		rows     int
		seed     int64
		products int
	)

	flag.StringVar(&outDir, "out", "data", "output directory")
	flag.IntVar(&rows, "rows", 50000, "number of sales transactions")
	flag.Int64Var(&seed, "seed", 42, "random seed")
	flag.IntVar(&products, "products", 100, "number of catalog products")
	flag.Parse()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create %s: %v", outDir, err)
	}

	pr := message.NewPrinter(language.English)

	productsPath := filepath.Join(outDir, "products.json")
	catalog, err := gen.WriteProductsJSON(productsPath, products, seed)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("%s: %d products\n", productsPath, len(catalog))

	salesPath := filepath.Join(outDir, "sales.csv")
	stats, err := gen.WriteSalesCSV(salesPath, gen.SalesConfig{
		Rows:     rows,
		Seed:     seed,
		Products: catalog,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	pr.Printf("%s: %d transactions, %s to %s, total revenue $%.2f\n",
		salesPath, stats.Rows, stats.MinDate, stats.MaxDate, stats.TotalRevenue)

	regionsPath := filepath.Join(outDir, "regions.parquet")
	n, err := gen.WriteRegionsParquet(regionsPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("%s: %d regions\n", regionsPath, n)
}
