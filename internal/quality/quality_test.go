package quality

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeStore serves counts keyed by a substring of the query; anything not
// keyed counts as zero.
type fakeStore struct {
	counts  map[string]int64
	queries []string
	err     error
}

func (f *fakeStore) Exec(ctx context.Context, query string, args ...any) error { return nil }

func (f *fakeStore) ScalarInt64(ctx context.Context, query string, args ...any) (int64, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return 0, f.err
	}
	for sub, n := range f.counts {
		if strings.Contains(query, sub) {
			return n, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) ScalarFloat64(ctx context.Context, query string, args ...any) (float64, bool, error) {
	return 0, false, nil
}

func (f *fakeStore) QueryRowScan(ctx context.Context, query string, dest ...any) error { return nil }
func (f *fakeStore) Close() error                                                      { return nil }

type captureLogger struct{ lines []string }

func (c *captureLogger) Printf(format string, v ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, v...))
}

func TestRunCleanDataReturnsNoIssues(t *testing.T) {
	st := &fakeStore{}
	lg := &captureLogger{}

	issues, err := Run(context.Background(), st, lg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}

	// All seven probes must execute even when everything is clean.
	if len(st.queries) != 7 {
		t.Fatalf("expected 7 probes, got %d", len(st.queries))
	}

	joined := strings.Join(lg.lines, "\n")
	if !strings.Contains(joined, "all data quality checks passed") {
		t.Fatalf("missing clean log: %v", lg.lines)
	}
}

func TestRunCollectsNonzeroFindings(t *testing.T) {
	st := &fakeStore{counts: map[string]int64{
		"product_id IS NULL":       3, // matches both sales and products probes
		"total_amount < 0":         1,
		"sale_date > CURRENT_DATE": 2,
	}}

	issues, err := Run(context.Background(), st, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"sales.product_id: 3 null values",
		"products.product_id: 3 null values",
		"sales.total_amount: 1 negative values",
		"sales.sale_date: 2 future dates",
	}
	if len(issues) != len(want) {
		t.Fatalf("issues = %v, want %v", issues, want)
	}
	for _, w := range want {
		found := false
		for _, got := range issues {
			if got == w {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing issue %q in %v", w, issues)
		}
	}
}

func TestRunFindingsAreNotErrors(t *testing.T) {
	st := &fakeStore{counts: map[string]int64{"total_amount IS NULL": 5}}

	issues, err := Run(context.Background(), st, nil)
	if err != nil {
		t.Fatalf("a finding must not become an error: %v", err)
	}
	if len(issues) != 1 || issues[0] != "sales.total_amount: 5 null values" {
		t.Fatalf("issues = %v", issues)
	}
}

func TestRunEngineFailureIsFatal(t *testing.T) {
	boom := errors.New("boom")
	st := &fakeStore{err: boom}

	_, err := Run(context.Background(), st, nil)
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected engine error, got %v", err)
	}
}
