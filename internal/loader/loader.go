// Package loader populates the base tables from external files.
//
// CSV and Parquet ingestion delegates parsing and type inference to the
// engine's native readers (read_csv_auto, read_parquet); the JSON loader
// parses and flattens records in-process before inserting, because product
// feeds occasionally arrive with nested objects that need to land in flat
// columns.
package loader

import "strings"

// Logger is the minimal logging interface used by the loaders.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Result reports the outcome of one load operation.
//
// A missing optional input is not an error: it comes back as a Result with
// Skipped set to the reason, so callers branch on data instead of
// re-checking the filesystem.
type Result struct {
	Table string
	// Rows is the row count of the target table after the load.
	Rows int64
	// Skipped is a human-readable reason when the input was soft-skipped.
	Skipped string
}

// IsSkipped reports whether the input was soft-skipped.
func (r Result) IsSkipped() bool { return r.Skipped != "" }

func logf(lg Logger, format string, v ...any) {
	if lg == nil {
		return
	}
	lg.Printf(format, v...)
}

// sqlPath embeds a file path into a SQL string literal for the engine's
// table functions. Paths are operator-supplied, not end-user data, but the
// quoting still has to be correct for paths containing quotes.
func sqlPath(p string) string {
	return "'" + strings.ReplaceAll(p, "'", "''") + "'"
}
