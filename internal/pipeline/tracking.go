package pipeline

import (
	"fmt"
	"sync"
	"time"

	"snakebite-dashboard/internal/metrics"
	"snakebite-dashboard/internal/model"
)

// ImportTracker records per-stage timings of one import and forwards them
// to the metrics backend.
type ImportTracker struct {
	ImportID string

	mu      sync.Mutex
	started time.Time
	stages  []model.StageTiming
}

// NewImportTracker starts the clock for importID.
func NewImportTracker(importID string) *ImportTracker {
	return &ImportTracker{ImportID: importID, started: time.Now()}
}

// Track runs fn as the named stage and records its duration and outcome.
func (t *ImportTracker) Track(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)

	t.mu.Lock()
	t.stages = append(t.stages, model.StageTiming{Stage: stage, Duration: d, Err: err})
	t.mu.Unlock()

	metrics.RecordStep(stage, err, d)
	if err != nil {
		fmt.Printf("❌ Import %s: stage %s failed after %v: %v\n", t.ImportID, stage, d, err)
	}
	return err
}

// Stages returns a copy of the recorded timings in execution order.
func (t *ImportTracker) Stages() []model.StageTiming {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]model.StageTiming(nil), t.stages...)
}

// Elapsed is the time since the tracker was created.
func (t *ImportTracker) Elapsed() time.Duration {
	return time.Since(t.started)
}

// RecordCounts forwards the row outcome of a parsed upload.
func (t *ImportTracker) RecordCounts(batch model.ImportBatch) {
	metrics.RecordRows("accepted", len(batch.Accepted))
	metrics.RecordRows("rejected", batch.Rejected)
	metrics.RecordRows("skipped", batch.Skipped)
}
