package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salesetl/internal/config"
	"salesetl/internal/manifest"
	"salesetl/internal/metrics"
	"salesetl/internal/metrics/datadog"
	"salesetl/internal/pipeline"
	"salesetl/internal/storage"

	// register the engine backend with the storage factory.
	_ "salesetl/internal/storage/duckdb"
)

// main is the entry point for the ETL binary. All work happens in run so
// deferred cleanup (engine close, manifest close, metrics flush) fires on
// every exit path, including failed runs.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath           string
		dbPath            string
		dataDir           string
		manifestPath      string
		metricsBackendFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path (optional)")
	flag.StringVar(&dbPath, "db", "", "engine database path (empty = in-memory)")
	flag.StringVar(&dataDir, "data-dir", "", "directory holding sales.csv, products.json and regions.parquet")
	flag.StringVar(&manifestPath, "manifest", "", "run-history SQLite path (empty = no manifest)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (datadog, none)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p := config.Default()
	if cfgPath != "" {
		var err error
		p, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
	}

	// Flags override the config file.
	if dbPath != "" {
		p.Storage.DSN = dbPath
	}
	if dataDir != "" {
		p.Inputs = config.Inputs{DataDir: dataDir}
		p.ApplyDefaults()
	}
	if manifestPath != "" {
		p.Manifest.Path = manifestPath
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		if iss.Severity == config.SeverityWarning && !*verbose && !validate {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		return errors.New("configuration is invalid")
	}
	if validate {
		log.Printf("Configuration is valid")
		return nil
	}

	// Decide metrics backend: flag → env → default.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		// Buffers metrics and submits periodically, with one final submit
		// on Close().
		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName:    p.Job,
			Tags:       datadog.ParseTagsCSV(os.Getenv("METRICS_TAGS")),
			FlushEvery: 60 * time.Second,
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
		} else {
			log.Printf("metrics: backend=%v job_name=%v", backendName, p.Job)
			metrics.SetBackend(b)
			defer func() {
				if err := b.Close(); err != nil {
					log.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}

	case "", "none":
		// metrics disabled; nop backend remains
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()

	st, err := storage.New(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DSN})
	if err != nil {
		return err
	}
	defer st.Close()

	runner := &pipeline.Pipeline{
		Store:          st,
		Log:            log.New(os.Stderr, "", log.LstdFlags),
		SalesCSV:       p.Inputs.SalesCSV,
		ProductsJSON:   p.Inputs.ProductsJSON,
		RegionsParquet: p.Inputs.RegionsParquet,
	}
	if p.Manifest.Path != "" {
		ms, err := manifest.Open(ctx, p.Manifest.Path)
		if err != nil {
			return err
		}
		defer ms.Close()
		runner.Manifest = ms
	}

	start := time.Now()
	out, runErr := runner.Run(ctx)

	// Push the stage counters recorded so far; failed runs are the ones
	// whose metrics matter most.
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}

	if runErr != nil {
		return fmt.Errorf("run %s aborted in state %s: %w", out.RunID, out.State, runErr)
	}

	renderSummary(out)

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	return nil
}

// renderSummary prints the run summary table and any quality findings.
func renderSummary(out pipeline.Outcome) {
	pr := message.NewPrinter(language.English)

	regions := pr.Sprintf("%d", out.Summary.Regions)
	if out.RegionsSkipped {
		regions += " (load skipped)"
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Sales records", pr.Sprintf("%d", out.Summary.Sales)})
	table.Append([]string{"Products", pr.Sprintf("%d", out.Summary.Products)})
	table.Append([]string{"Regions", regions})
	table.Append([]string{"Sales date range", out.Summary.SalesDateRange})
	table.Append([]string{"Total revenue", pr.Sprintf("$%.2f", out.Summary.TotalRevenue)})
	table.Render()

	if len(out.Issues) > 0 {
		fmt.Printf("\n%d data quality issue(s):\n", len(out.Issues))
		for _, iss := range out.Issues {
			fmt.Printf("  - %s\n", iss)
		}
	}
}
