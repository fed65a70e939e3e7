package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"salesetl/internal/storage"
)

// productColumns is the column order used for inserts into products.
var productColumns = []string{
	"product_id", "name", "category", "subcategory", "brand", "cost", "price", "margin",
}

// insertBatchSize bounds the number of value tuples per INSERT statement.
const insertBatchSize = 500

// LoadProducts loads the product catalog from a JSON file into the products
// table.
//
// The file must contain a JSON array of objects. Records are flattened
// in-process (nested objects become dotted keys, scalar arrays are joined
// with commas) and inserted in batches.
//
// Errors:
//   - malformed JSON is fatal
//   - a record whose keys match no products column is fatal
//   - a file in which some products column never appears is fatal
//
// A record individually missing a key that other records supply inserts
// NULL for that column.
func LoadProducts(ctx context.Context, st storage.Store, path string, lg Logger) (Result, error) {
	logf(lg, "loading products data from %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("products json %s: %w", path, err)
	}

	records, err := decodeProductRecords(raw)
	if err != nil {
		return Result{}, fmt.Errorf("products json %s: %w", path, err)
	}

	flats, err := flattenProductRecords(records)
	if err != nil {
		return Result{}, fmt.Errorf("products json %s: %w", path, err)
	}

	for start := 0; start < len(flats); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(flats) {
			end = len(flats)
		}
		if err := insertProductBatch(ctx, st, flats[start:end]); err != nil {
			return Result{}, fmt.Errorf("insert products from %s: %w", path, err)
		}
	}

	count, err := st.ScalarInt64(ctx, "SELECT COUNT(*) FROM products")
	if err != nil {
		return Result{}, fmt.Errorf("count products: %w", err)
	}

	logf(lg, "loaded %d product records", count)
	return Result{Table: "products", Rows: count}, nil
}

func decodeProductRecords(raw []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return records, nil
}

// flattenProductRecords flattens every record and checks the result against
// the products schema. The table is fixed; a feed that does not carry its
// columns is a schema mismatch, not partial data.
func flattenProductRecords(records []map[string]any) ([]map[string]any, error) {
	flats := make([]map[string]any, len(records))
	seen := make(map[string]bool, len(productColumns))

	for i, rec := range records {
		flat := Flatten(rec, ",")

		matched := false
		for _, col := range productColumns {
			if _, ok := flat[col]; ok {
				matched = true
				seen[col] = true
			}
		}
		if !matched {
			keys := make([]string, 0, len(flat))
			for k := range flat {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("record %d matches no products column (keys: %s)",
				i, strings.Join(keys, ", "))
		}
		flats[i] = flat
	}

	if len(records) > 0 {
		var missing []string
		for _, col := range productColumns {
			if !seen[col] {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
		}
	}
	return flats, nil
}

func insertProductBatch(ctx context.Context, st storage.Store, flats []map[string]any) error {
	if len(flats) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO products (")
	b.WriteString(strings.Join(productColumns, ", "))
	b.WriteString(") VALUES ")

	tuple := "(" + strings.TrimRight(strings.Repeat("?,", len(productColumns)), ",") + ")"
	args := make([]any, 0, len(flats)*len(productColumns))

	for i, flat := range flats {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)

		for _, col := range productColumns {
			args = append(args, scalarValue(flat[col]))
		}
	}

	return st.Exec(ctx, b.String(), args...)
}

// scalarValue converts a decoded JSON value to a driver-friendly argument.
// json.Number becomes int64 when integral, float64 otherwise.
func scalarValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// Flatten collapses one decoded JSON object into a single-level map:
//
//   - nested objects contribute dotted keys ("dimensions.weight")
//   - arrays of scalars are joined into one string with sep
//   - arrays containing objects are dropped (no tabular representation)
//
// Key iteration is sorted so the output is deterministic.
func Flatten(obj map[string]any, sep string) map[string]any {
	out := make(map[string]any, len(obj))
	flattenInto(out, "", obj, sep)
	return out
}

func flattenInto(out map[string]any, prefix string, obj map[string]any, sep string) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch v := obj[k].(type) {
		case map[string]any:
			flattenInto(out, key, v, sep)
		case []any:
			if s, ok := joinScalars(v, sep); ok {
				out[key] = s
			}
		default:
			out[key] = v
		}
	}
}

func joinScalars(vals []any, sep string) (string, bool) {
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		switch t := v.(type) {
		case string:
			parts = append(parts, t)
		case json.Number:
			parts = append(parts, t.String())
		case bool:
			parts = append(parts, fmt.Sprintf("%t", t))
		case nil:
			// skip
		default:
			return "", false
		}
	}
	return strings.Join(parts, sep), true
}
