// Package pipeline orchestrates the full ETL run as a strict sequential
// state machine:
//
//	init -> schema_ready -> sales_loaded -> products_loaded
//	     -> regions_loaded | regions_skipped -> derived_ready
//	     -> validated -> summarized -> done
//
// There is no retry and no rollback: the first fatal stage error aborts the
// run, leaving whatever was already written in place. Quality findings are
// informational and never abort.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"salesetl/internal/derive"
	"salesetl/internal/loader"
	"salesetl/internal/manifest"
	"salesetl/internal/metrics"
	"salesetl/internal/quality"
	"salesetl/internal/report"
	"salesetl/internal/schema"
	"salesetl/internal/storage"
)

// Metric names emitted per run. The installed metrics backend decides what
// to do with them; the nop backend drops them.
const (
	metricStageTotal           = "etl_stage_total"
	metricRowsTotal            = "etl_rows_total"
	metricQualityIssues        = "etl_quality_issues_total"
	metricStageDurationSeconds = "etl_stage_duration_seconds"
)

// State is the orchestrator's position in the run sequence.
type State string

const (
	StateInit           State = "init"
	StateSchemaReady    State = "schema_ready"
	StateSalesLoaded    State = "sales_loaded"
	StateProductsLoaded State = "products_loaded"
	StateRegionsLoaded  State = "regions_loaded"
	StateRegionsSkipped State = "regions_skipped"
	StateDerivedReady   State = "derived_ready"
	StateValidated      State = "validated"
	StateSummarized     State = "summarized"
	StateDone           State = "done"
)

// transitions lists every legal state edge. The regions stage is the only
// branch point; both branches converge on derived_ready.
var transitions = map[State][]State{
	StateInit:           {StateSchemaReady},
	StateSchemaReady:    {StateSalesLoaded},
	StateSalesLoaded:    {StateProductsLoaded},
	StateProductsLoaded: {StateRegionsLoaded, StateRegionsSkipped},
	StateRegionsLoaded:  {StateDerivedReady},
	StateRegionsSkipped: {StateDerivedReady},
	StateDerivedReady:   {StateValidated},
	StateValidated:      {StateSummarized},
	StateSummarized:     {StateDone},
}

// ValidTransition reports whether from -> to is a legal state edge.
func ValidTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Logger is the minimal logging interface the orchestrator needs.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Pipeline runs the ETL sequence against one engine connection.
type Pipeline struct {
	Store storage.Store
	Log   Logger

	SalesCSV       string
	ProductsJSON   string
	RegionsParquet string

	// Manifest, when non-nil, receives one run record per execution.
	// Manifest failures are logged, never fatal.
	Manifest *manifest.Store

	state State
	now   func() time.Time // test seam
}

// Outcome is everything one run produced.
type Outcome struct {
	RunID   string
	State   State
	Summary report.Summary
	// Issues are quality findings; they do not affect State or the error.
	Issues []string

	SalesRows      int64
	ProductRows    int64
	RegionRows     int64
	RegionsSkipped bool
}

// State returns the orchestrator's current state.
func (p *Pipeline) State() State {
	if p.state == "" {
		return StateInit
	}
	return p.state
}

func (p *Pipeline) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

func (p *Pipeline) logf(format string, v ...any) {
	if p.Log == nil {
		return
	}
	p.Log.Printf(format, v...)
}

// advance moves the state machine to next, enforcing the legal edges.
// A bad edge is a programming error in the run sequence, not a data error.
func (p *Pipeline) advance(next State) error {
	if !ValidTransition(p.State(), next) {
		return fmt.Errorf("pipeline: invalid transition %s -> %s", p.State(), next)
	}
	p.state = next
	return nil
}

// runStage times fn, emits stage metrics and the stage log line, then
// advances to the state fn chose. Stages with a single outcome return a
// fixed state; the regions stage picks its branch.
func (p *Pipeline) runStage(name string, fn func() (State, error)) error {
	start := p.clock()
	next, err := fn()
	elapsed := p.clock().Sub(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := metrics.Labels{"stage": name, "status": status}
	metrics.IncCounter(metricStageTotal, 1, labels)
	metrics.ObserveHistogram(metricStageDurationSeconds, elapsed.Seconds(), labels)

	if err != nil {
		p.logf("stage=%s failed duration=%s err=%v", name, elapsed.Round(time.Millisecond), err)
		return err
	}
	p.logf("stage=%s ok duration=%s", name, elapsed.Round(time.Millisecond))
	return p.advance(next)
}

// Run executes the full sequence. On error the returned Outcome carries the
// state reached so far; no rollback is attempted.
func (p *Pipeline) Run(ctx context.Context) (Outcome, error) {
	out := Outcome{RunID: manifest.NewRunID()}
	started := p.clock()
	p.state = StateInit
	p.logf("run=%s starting", out.RunID)

	err := p.runSequence(ctx, &out)

	out.State = p.State()
	p.record(ctx, out, started, err)
	if err != nil {
		return out, err
	}
	p.logf("run=%s done", out.RunID)
	return out, nil
}

func (p *Pipeline) runSequence(ctx context.Context, out *Outcome) error {
	if err := p.runStage("schema", func() (State, error) {
		return StateSchemaReady, schema.Init(ctx, p.Store)
	}); err != nil {
		return err
	}

	if err := p.runStage("load_sales", func() (State, error) {
		res, err := loader.LoadSales(ctx, p.Store, p.SalesCSV, p.Log)
		if err != nil {
			return "", err
		}
		out.SalesRows = res.Rows
		metrics.IncCounter(metricRowsTotal, float64(res.Rows), metrics.Labels{"table": "sales"})
		return StateSalesLoaded, nil
	}); err != nil {
		return err
	}

	if err := p.runStage("load_products", func() (State, error) {
		res, err := loader.LoadProducts(ctx, p.Store, p.ProductsJSON, p.Log)
		if err != nil {
			return "", err
		}
		out.ProductRows = res.Rows
		metrics.IncCounter(metricRowsTotal, float64(res.Rows), metrics.Labels{"table": "products"})
		return StateProductsLoaded, nil
	}); err != nil {
		return err
	}

	// The only branch point: a missing regions file soft-skips instead of
	// failing the run.
	if err := p.runStage("load_regions", func() (State, error) {
		res, err := loader.LoadRegions(ctx, p.Store, p.RegionsParquet, p.Log)
		if err != nil {
			return "", err
		}
		if res.IsSkipped() {
			out.RegionsSkipped = true
			return StateRegionsSkipped, nil
		}
		out.RegionRows = res.Rows
		metrics.IncCounter(metricRowsTotal, float64(res.Rows), metrics.Labels{"table": "regions"})
		return StateRegionsLoaded, nil
	}); err != nil {
		return err
	}

	if err := p.runStage("derive", func() (State, error) {
		return StateDerivedReady, derive.Build(ctx, p.Store, p.Log)
	}); err != nil {
		return err
	}

	if err := p.runStage("quality", func() (State, error) {
		issues, err := quality.Run(ctx, p.Store, p.Log)
		if err != nil {
			return "", err
		}
		out.Issues = issues
		metrics.IncCounter(metricQualityIssues, float64(len(issues)), nil)
		return StateValidated, nil
	}); err != nil {
		return err
	}

	if err := p.runStage("report", func() (State, error) {
		s, err := report.Build(ctx, p.Store)
		if err != nil {
			return "", err
		}
		out.Summary = s
		return StateSummarized, nil
	}); err != nil {
		return err
	}

	return p.advance(StateDone)
}

// record writes the run manifest entry. Best effort only.
func (p *Pipeline) record(ctx context.Context, out Outcome, started time.Time, runErr error) {
	if p.Manifest == nil {
		return
	}

	r := manifest.Run{
		ID:             out.RunID,
		StartedAt:      started,
		Duration:       p.clock().Sub(started),
		SalesRows:      out.SalesRows,
		ProductRows:    out.ProductRows,
		RegionRows:     out.RegionRows,
		RegionsSkipped: out.RegionsSkipped,
		IssueCount:     len(out.Issues),
		TotalRevenue:   out.Summary.TotalRevenue,
	}
	if runErr != nil {
		r.Err = runErr.Error()
	}
	if err := p.Manifest.Record(ctx, r); err != nil {
		p.logf("warning: record run manifest: %v", err)
	}
}
