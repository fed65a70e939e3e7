// Package config defines the pipeline configuration and its validation.
//
// Configuration is a plain JSON document; flags on the commands override
// individual fields after loading. Validation returns severity-tagged
// issues rather than a single error so a command can print everything
// wrong with a config in one pass.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

// Pipeline is the full pipeline configuration.
type Pipeline struct {
	Job      string   `json:"job"`
	Storage  Storage  `json:"storage"`
	Inputs   Inputs   `json:"inputs"`
	Manifest Manifest `json:"manifest"`
}

// Storage selects the analytical engine backend.
type Storage struct {
	// Kind is the registered backend kind. Defaults to "duckdb".
	Kind string `json:"kind"`
	// DSN is the database location. Empty means in-memory: tables vanish
	// on process exit.
	DSN string `json:"dsn"`
}

// Inputs locates the source files. Explicit paths win over DataDir-derived
// defaults.
type Inputs struct {
	DataDir        string `json:"data_dir"`
	SalesCSV       string `json:"sales_csv"`
	ProductsJSON   string `json:"products_json"`
	RegionsParquet string `json:"regions_parquet"`
}

// Manifest configures the run-history store. An empty path disables it.
type Manifest struct {
	Path string `json:"path"`
}

// Default returns the configuration used when no config file is given.
func Default() Pipeline {
	p := Pipeline{}
	p.ApplyDefaults()
	return p
}

// ApplyDefaults fills unset fields with their defaults.
func (p *Pipeline) ApplyDefaults() {
	if p.Job == "" {
		p.Job = "sales_etl"
	}
	if p.Storage.Kind == "" {
		p.Storage.Kind = "duckdb"
	}
	if p.Inputs.DataDir == "" {
		p.Inputs.DataDir = "data"
	}
	if p.Inputs.SalesCSV == "" {
		p.Inputs.SalesCSV = filepath.Join(p.Inputs.DataDir, "sales.csv")
	}
	if p.Inputs.ProductsJSON == "" {
		p.Inputs.ProductsJSON = filepath.Join(p.Inputs.DataDir, "products.json")
	}
	if p.Inputs.RegionsParquet == "" {
		p.Inputs.RegionsParquet = filepath.Join(p.Inputs.DataDir, "regions.parquet")
	}
}

// Load reads and decodes a pipeline config file, then applies defaults.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var p Pipeline
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	p.ApplyDefaults()
	return p, nil
}

// ValidatePipeline checks a configuration and returns every issue found.
// Callers decide whether warnings are acceptable; any SeverityError issue
// makes the config unusable.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if p.Storage.Kind == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "backend kind must be set",
		})
	}
	if p.Inputs.SalesCSV == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "inputs.sales_csv",
			Message:  "sales CSV path must be set",
		})
	}
	if p.Inputs.ProductsJSON == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "inputs.products_json",
			Message:  "products JSON path must be set",
		})
	}

	if p.Inputs.RegionsParquet == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "inputs.regions_parquet",
			Message:  "regions parquet path unset; regions load will be skipped",
		})
	}
	if p.Storage.DSN == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.dsn",
			Message:  "empty DSN runs in-memory; loaded tables are discarded at exit",
		})
	}

	return issues
}

// HasError reports whether any issue is of SeverityError.
func HasError(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
