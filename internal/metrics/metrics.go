// Package metrics defines a minimal pluggable metrics surface for the
// pipeline. The core stages depend only on the package-level helpers here;
// concrete backends (Datadog, or nothing at all) are selected at startup.
//
// Design goals:
//   - Keep stage code free of vendor-specific metric types.
//   - Default to a nop backend so metrics are always safe to call.
//   - Flush() is explicit so short-lived runs can push a final snapshot
//     before exit.
package metrics

import "sync"

// Labels are free-form key/value tags attached to a metric observation.
type Labels map[string]string

// Backend is the minimal interface a metrics sink must implement.
//
// Edge cases:
//   - Implementations must tolerate unknown metric names (ignore them).
//   - All methods may be called from multiple goroutines.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	Flush() error
}

// nopBackend drops everything. It is the default so stages never need
// nil checks.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs the process-wide metrics backend.
// Call once at startup before the pipeline runs.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// IncCounter increments a counter on the installed backend.
func IncCounter(name string, delta float64, labels Labels) {
	current().IncCounter(name, delta, labels)
}

// ObserveHistogram records a sample on the installed backend.
func ObserveHistogram(name string, value float64, labels Labels) {
	current().ObserveHistogram(name, value, labels)
}

// Flush pushes any buffered metrics to the sink.
func Flush() error {
	return current().Flush()
}
