// Package metrics records import and storage activity through a pluggable
// backend. The default backend discards everything, so callers never need
// to check whether metrics are configured.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

const (
	StepTotal       = "snakebite_step_total"
	StepDuration    = "snakebite_step_duration_seconds"
	RecordsTotal    = "snakebite_records_total"
	BatchesTotal    = "snakebite_batches_total"
	ReconnectsTotal = "snakebite_store_reconnects_total"
)

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a duration style value.
	ObserveHistogram(name string, value float64, labels Labels)
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil restores the no-op one.
func SetBackend(b Backend) {
	if b == nil {
		backend = nopBackend{}
		return
	}
	backend = b
}

// RecordStep counts one execution of an import or query step and its latency.
func RecordStep(step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"step": step, "status": status}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows increments the record counter for kind
// ("accepted", "rejected", "skipped", "inserted", "exported").
func RecordRows(kind string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{"kind": kind})
}

// RecordBatches increments the insert batch counter.
func RecordBatches(delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), nil)
}

// RecordReconnect counts a storage pool rebuild.
func RecordReconnect(driver string) {
	backend.IncCounter(ReconnectsTotal, 1, Labels{"driver": driver})
}
