// Package datadog implements a Datadog backend for the internal/metrics
// package.
//
// The backend buffers observations in memory, submits them on a ticker
// (default once per minute), and submits one final time on Close(). Short
// pipeline runs therefore still get their metrics out, and long generator
// runs show up as a real time series instead of a single spike at exit.
//
// Concurrency model:
//   - pipeline goroutines call IncCounter/ObserveHistogram at any time
//   - Flush snapshots and resets buffers under a mutex, then submits
//     out-of-lock
//   - the flush loop calls Flush() periodically; Close() stops the loop
package datadog

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"salesetl/internal/metrics"
)

// Metric names understood by this backend. Anything else is dropped.
const (
	MetricStageTotal           = "etl_stage_total"
	MetricRowsTotal            = "etl_rows_total"
	MetricQualityIssues        = "etl_quality_issues_total"
	MetricStageDurationSeconds = "etl_stage_duration_seconds"
)

// Options controls Datadog backend configuration.
type Options struct {
	// JobName becomes tag "job:<name>" on every metric. Defaults to "salesetl".
	JobName string

	// Tags are extra Datadog tags (e.g. []string{"env:prod"}).
	Tags []string

	// FlushEvery controls how often buffered metrics are submitted.
	// If <= 0, defaults to 60 seconds.
	FlushEvery time.Duration

	// Unexported test seams. Production code never sets these; unit tests use
	// them to avoid real network submission and nondeterministic clocks.
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker
	submitter metricsSubmitter
}

// metricsSubmitter is the minimal slice of the Datadog SDK the backend needs.
// The SDK exposes a concrete *datadogV2.MetricsApi; depending on this
// interface instead keeps unit tests free of real HTTP.
type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	api metricsSubmitter
	ctx context.Context

	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}

	baseTags []string

	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker

	mu sync.Mutex

	stageCounts     map[string]float64 // stage\x00status -> count
	rowCounts       map[string]float64 // table kind -> rows
	issueCount      float64
	durationSamples map[string][]float64 // stage\x00status -> seconds
}

func resolveEnvTag() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return "env:" + v
	}
	if v := strings.TrimSpace(os.Getenv("DD_ENV")); v != "" {
		return "env:" + v
	}
	return "env:unknown"
}

// NewBackend constructs a Datadog backend using the official client.
//
// Edge cases:
//   - If opts.FlushEvery <= 0, defaults to 60s.
//   - If opts.JobName is empty, defaults to "salesetl".
//   - Environment tag selection uses ENV then DD_ENV, otherwise env:unknown.
//
// Errors:
//   - Client construction is not expected to fail; network errors surface
//     from Flush().
func NewBackend(parent context.Context, opts Options) (*Backend, error) {
	job := opts.JobName
	if job == "" {
		job = "salesetl"
	}

	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	baseTags := make([]string, 0, 2+len(opts.Tags))
	baseTags = append(baseTags, resolveEnvTag(), "job:"+job)
	baseTags = append(baseTags, opts.Tags...)

	nowFn := opts.now
	if nowFn == nil {
		nowFn = time.Now
	}
	newTicker := opts.newTicker
	if newTicker == nil {
		newTicker = time.NewTicker
	}

	submitter := opts.submitter
	if submitter == nil {
		cfg := dd.NewConfiguration()
		client := dd.NewAPIClient(cfg)
		submitter = datadogV2.NewMetricsApi(client)
	}

	b := &Backend{
		api:        submitter,
		ctx:        dd.NewDefaultContext(parent),
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),

		baseTags: baseTags,

		now:       nowFn,
		newTicker: newTicker,

		stageCounts:     make(map[string]float64),
		rowCounts:       make(map[string]float64),
		durationSamples: make(map[string][]float64),
	}

	go b.loop()
	return b, nil
}

func (b *Backend) loop() {
	defer close(b.doneCh)

	t := b.newTicker(b.flushEvery)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the background flush loop and performs one final Flush().
// Close must be called exactly once.
func (b *Backend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.Flush()
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if delta <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case MetricStageTotal:
		b.stageCounts[stageStatusKey(labels["stage"], labels["status"])] += delta

	case MetricRowsTotal:
		kind := labels["table"]
		if kind == "" {
			return
		}
		b.rowCounts[kind] += delta

	case MetricQualityIssues:
		b.issueCount += delta

	default:
		// Unknown metrics are dropped.
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if value < 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case MetricStageDurationSeconds:
		k := stageStatusKey(labels["stage"], labels["status"])
		b.durationSamples[k] = append(b.durationSamples[k], value)

	default:
		// Unknown histograms are dropped.
	}
}

// snapshot is the detached buffer state used to build one flush payload.
// Flush() must reset buffers under the lock but submit out-of-lock; the
// snapshot separates those two steps.
type snapshot struct {
	stageCounts     map[string]float64
	rowCounts       map[string]float64
	issueCount      float64
	durationSamples map[string][]float64
}

func (b *Backend) snapshotAndReset() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := snapshot{
		stageCounts:     b.stageCounts,
		rowCounts:       b.rowCounts,
		issueCount:      b.issueCount,
		durationSamples: b.durationSamples,
	}

	b.stageCounts = make(map[string]float64)
	b.rowCounts = make(map[string]float64)
	b.issueCount = 0
	b.durationSamples = make(map[string][]float64)

	return s
}

func (s snapshot) isEmpty() bool {
	return len(s.stageCounts) == 0 &&
		len(s.rowCounts) == 0 &&
		s.issueCount == 0 &&
		len(s.durationSamples) == 0
}

// Flush submits buffered metrics to Datadog and resets local buffers.
//
// Edge cases:
//   - Safe to call concurrently with IncCounter/ObserveHistogram.
//   - Buffers are reset even if submission fails, so a flaky sink cannot
//     grow memory without bound.
func (b *Backend) Flush() error {
	snap := b.snapshotAndReset()
	if snap.isEmpty() {
		return nil
	}

	nowUnix := b.now().Unix()
	payload := datadogV2.MetricPayload{Series: b.buildSeries(snap, nowUnix)}

	_, _, err := b.api.SubmitMetrics(b.ctx, payload, *datadogV2.NewSubmitMetricsOptionalParameters())
	return err
}

// buildSeries constructs Datadog series for a snapshot at a fixed timestamp.
// It is pure (no locks, no network, no clocks), which keeps it unit-testable
// and centralizes the naming/tagging contract.
func (b *Backend) buildSeries(s snapshot, nowUnix int64) []datadogV2.MetricSeries {
	series := make([]datadogV2.MetricSeries, 0, len(s.stageCounts)+len(s.rowCounts)+8)

	for k, v := range s.stageCounts {
		if v == 0 {
			continue
		}
		stage, status := splitStageStatusKey(k)
		tags := withTags(b.baseTags, "stage:"+stage, "status:"+status)
		series = append(series, countSeries("salesetl.stage.total", v, tags, nowUnix))
	}

	for table, v := range s.rowCounts {
		if v == 0 {
			continue
		}
		tags := withTags(b.baseTags, "table:"+table)
		series = append(series, countSeries("salesetl.rows.total", v, tags, nowUnix))
	}

	if s.issueCount != 0 {
		series = append(series, countSeries("salesetl.quality.issues.total", s.issueCount, b.baseTags, nowUnix))
	}

	for k, samples := range s.durationSamples {
		if len(samples) == 0 {
			continue
		}
		cp := append([]float64(nil), samples...)
		sort.Float64s(cp)

		stage, status := splitStageStatusKey(k)
		tags := withTags(b.baseTags, "stage:"+stage, "status:"+status)

		series = append(series,
			gaugeSeries("salesetl.stage.duration_seconds.p50", percentileNearestRank(cp, 0.50), tags, nowUnix),
			gaugeSeries("salesetl.stage.duration_seconds.p95", percentileNearestRank(cp, 0.95), tags, nowUnix),
			gaugeSeries("salesetl.stage.duration_seconds.max", cp[len(cp)-1], tags, nowUnix),
			gaugeSeries("salesetl.stage.duration_seconds.samples", float64(len(cp)), tags, nowUnix),
		)
	}

	return series
}

func countSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_COUNT.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func gaugeSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_GAUGE.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func stageStatusKey(stage, status string) string {
	return stage + "\x00" + status
}

func splitStageStatusKey(k string) (stage, status string) {
	parts := strings.SplitN(k, "\x00", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return k, "unknown"
}

func withTags(base []string, extras ...string) []string {
	out := make([]string, 0, len(base)+len(extras))
	out = append(out, base...)
	out = append(out, extras...)
	return out
}

func percentileNearestRank(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	idx := int(p*float64(n-1) + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

var _ metrics.Backend = (*Backend)(nil)

// ParseTagsCSV parses comma-separated tags like "env:prod,service:etl".
func ParseTagsCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
