package schema

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeStore struct {
	execs   []string
	execErr error
}

func (f *fakeStore) Exec(ctx context.Context, query string, args ...any) error {
	f.execs = append(f.execs, query)
	return f.execErr
}

func (f *fakeStore) ScalarInt64(ctx context.Context, query string, args ...any) (int64, error) {
	return 0, nil
}

func (f *fakeStore) ScalarFloat64(ctx context.Context, query string, args ...any) (float64, bool, error) {
	return 0, false, nil
}

func (f *fakeStore) QueryRowScan(ctx context.Context, query string, dest ...any) error { return nil }
func (f *fakeStore) Close() error                                                      { return nil }

func TestInitCreatesAllBaseTables(t *testing.T) {
	st := &fakeStore{}
	if err := Init(context.Background(), st); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if len(st.execs) != 3 {
		t.Fatalf("expected 3 DDL statements, got %d", len(st.execs))
	}
	for i, table := range []string{"sales", "products", "regions"} {
		if !strings.Contains(st.execs[i], "CREATE OR REPLACE TABLE "+table) {
			t.Fatalf("statement %d does not create %s: %s", i, table, st.execs[i])
		}
	}
}

func TestInitIsRepeatable(t *testing.T) {
	st := &fakeStore{}
	if err := Init(context.Background(), st); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if err := Init(context.Background(), st); err != nil {
		t.Fatalf("second Init: %v", err)
	}

	// Same statements both times: CREATE OR REPLACE resets to empty tables.
	if len(st.execs) != 6 {
		t.Fatalf("expected 6 statements after two runs, got %d", len(st.execs))
	}
	for i := 0; i < 3; i++ {
		if st.execs[i] != st.execs[i+3] {
			t.Fatalf("run 2 statement %d differs from run 1", i)
		}
	}
}

func TestInitPropagatesEngineError(t *testing.T) {
	boom := errors.New("boom")
	st := &fakeStore{execErr: boom}

	err := Init(context.Background(), st)
	if err == nil || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}
	if !strings.Contains(err.Error(), "create table sales") {
		t.Fatalf("error lacks table context: %v", err)
	}
}

func TestTablesOrder(t *testing.T) {
	got := Tables()
	want := []string{"sales", "products", "regions"}
	if len(got) != len(want) {
		t.Fatalf("Tables() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tables()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
