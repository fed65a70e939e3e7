package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"salesetl/internal/storage"
)

// LoadRegions loads region reference data from a Parquet file into the
// regions table using the engine's native columnar reader.
//
// The regions file is optional: if it does not exist, LoadRegions returns a
// skipped Result and logs a warning instead of failing. Any other error
// (unreadable file, malformed parquet, schema mismatch) is fatal.
func LoadRegions(ctx context.Context, st storage.Store, path string, lg Logger) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			reason := fmt.Sprintf("%s not found, skipping regions data", path)
			logf(lg, "warning: %s", reason)
			return Result{Table: "regions", Skipped: reason}, nil
		}
		return Result{}, fmt.Errorf("regions parquet %s: %w", path, err)
	}

	logf(lg, "loading regions data from %s", path)

	q := "INSERT INTO regions SELECT * FROM read_parquet(" + sqlPath(path) + ")"
	if err := st.Exec(ctx, q); err != nil {
		return Result{}, fmt.Errorf("load regions from %s: %w", path, err)
	}

	count, err := st.ScalarInt64(ctx, "SELECT COUNT(*) FROM regions")
	if err != nil {
		return Result{}, fmt.Errorf("count regions: %w", err)
	}

	logf(lg, "loaded %d region records", count)
	return Result{Table: "regions", Rows: count}, nil
}
