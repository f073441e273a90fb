package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus is a scrape-based backend served from /metrics.
type Prometheus struct {
	reg *prometheus.Registry

	stepCounter      *prometheus.CounterVec
	stepDuration     *prometheus.HistogramVec
	recordCounter    *prometheus.CounterVec
	batchCounter     prometheus.Counter
	reconnectCounter *prometheus.CounterVec
}

// NewPrometheus registers the collectors on a fresh registry together with
// the Go runtime and process collectors.
func NewPrometheus() (*Prometheus, error) {
	reg := prometheus.NewRegistry()

	p := &Prometheus{
		reg: reg,
		stepCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: StepTotal,
				Help: "Import and query steps, partitioned by step and status.",
			},
			[]string{"step", "status"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    StepDuration,
				Help:    "Duration of import and query steps in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step", "status"},
		),
		recordCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: RecordsTotal,
				Help: "Case records per kind (accepted, rejected, skipped, inserted, exported).",
			},
			[]string{"kind"},
		),
		batchCounter: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: BatchesTotal,
				Help: "Insert batches written to storage.",
			},
		),
		reconnectCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: ReconnectsTotal,
				Help: "Storage pool rebuilds after a failed connection check.",
			},
			[]string{"driver"},
		),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":      p.stepCounter,
		"step histogram":    p.stepDuration,
		"record counter":    p.recordCounter,
		"batch counter":     p.batchCounter,
		"reconnect counter": p.reconnectCounter,
		"go collector":      collectors.NewGoCollector(),
		"process collector": collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register %s: %w", name, err)
		}
	}
	return p, nil
}

func (p *Prometheus) IncCounter(name string, delta float64, labels Labels) {
	switch name {
	case StepTotal:
		p.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case RecordsTotal:
		p.recordCounter.WithLabelValues(labels["kind"]).Add(delta)
	case BatchesTotal:
		p.batchCounter.Add(delta)
	case ReconnectsTotal:
		p.reconnectCounter.WithLabelValues(labels["driver"]).Add(delta)
	}
}

func (p *Prometheus) ObserveHistogram(name string, value float64, labels Labels) {
	if name != StepDuration {
		return
	}
	p.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}
