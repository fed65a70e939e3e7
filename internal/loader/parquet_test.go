package loader

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRegionsMissingFileSoftSkips(t *testing.T) {
	st := &fakeStore{}
	lg := &captureLogger{}

	res, err := LoadRegions(context.Background(), st, filepath.Join(t.TempDir(), "regions.parquet"), lg)
	if err != nil {
		t.Fatalf("missing regions file must not be an error: %v", err)
	}

	if !res.IsSkipped() {
		t.Fatalf("expected skipped result, got %+v", res)
	}
	if len(st.execs) != 0 {
		t.Fatalf("no statements should run on skip, got %v", st.execs)
	}
	if !lg.contains("warning") || !lg.contains("skipping regions data") {
		t.Fatalf("missing skip warning: %v", lg.lines)
	}
}

func TestLoadRegionsDelegatesToEngineReader(t *testing.T) {
	dir := t.TempDir()
	// Content is irrelevant: parsing happens in the engine, which is faked here.
	path := writeFile(t, dir, "regions.parquet", "PAR1")

	st := &fakeStore{counts: map[string]int64{"FROM regions": 10}}
	res, err := LoadRegions(context.Background(), st, path, nil)
	if err != nil {
		t.Fatalf("LoadRegions: %v", err)
	}

	if len(st.execs) != 1 || !strings.Contains(st.execs[0], "read_parquet('"+path+"')") {
		t.Fatalf("unexpected statements: %v", st.execs)
	}
	if res.Rows != 10 || res.IsSkipped() {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLoadRegionsEngineErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "regions.parquet", "PAR1")

	st := &fakeStore{execErr: context.DeadlineExceeded}
	_, err := LoadRegions(context.Background(), st, path, nil)
	if err == nil || !strings.Contains(err.Error(), "load regions from") {
		t.Fatalf("expected wrapped engine error, got %v", err)
	}
}
