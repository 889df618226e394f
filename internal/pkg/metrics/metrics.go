// Package metrics provides Prometheus counters for the cryptographic provider.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the provider counters and the registry they are registered with
type Metrics struct {
	randomBytes       *prometheus.CounterVec
	randomFailures    *prometheus.CounterVec
	seedOperations    *prometheus.CounterVec
	objectsRegistered prometheus.Counter
	errorsQueued      *prometheus.CounterVec
	bootstrapRuns     prometheus.Counter

	registry *prometheus.Registry
}

// New creates the provider counters in their own registry
func New(namespace string) (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		randomBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "random_bytes_total",
				Help:      "Total number of random bytes generated",
			},
			[]string{"mode"},
		),
		randomFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "random_failures_total",
				Help:      "Total number of failed random generation requests",
			},
			[]string{"mode"},
		),
		seedOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seed_operations_total",
				Help:      "Total number of seed file operations",
			},
			[]string{"operation", "status"},
		),
		objectsRegistered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "objects_registered_total",
				Help:      "Total number of object identifiers registered at runtime",
			},
		),
		errorsQueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_queued_total",
				Help:      "Total number of records pushed onto error queues",
			},
			[]string{"library"},
		),
		bootstrapRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bootstrap_runs_total",
				Help:      "Total number of provider initializations performed",
			},
		),
	}

	collectors := []prometheus.Collector{
		m.randomBytes,
		m.randomFailures,
		m.seedOperations,
		m.objectsRegistered,
		m.errorsQueued,
		m.bootstrapRuns,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// Registry returns the registry the counters live in
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RandomBytes counts generated bytes for a mode
func (m *Metrics) RandomBytes(mode string, n int) {
	if m == nil {
		return
	}
	m.randomBytes.WithLabelValues(mode).Add(float64(n))
}

// RandomFailure counts a failed generation request
func (m *Metrics) RandomFailure(mode string) {
	if m == nil {
		return
	}
	m.randomFailures.WithLabelValues(mode).Inc()
}

// SeedOperation counts a seed load or write
func (m *Metrics) SeedOperation(operation string, ok bool) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	m.seedOperations.WithLabelValues(operation, status).Inc()
}

// ObjectRegistered counts a runtime object registration
func (m *Metrics) ObjectRegistered() {
	if m == nil {
		return
	}
	m.objectsRegistered.Inc()
}

// ErrorQueued counts a record pushed for a library
func (m *Metrics) ErrorQueued(library string) {
	if m == nil {
		return
	}
	m.errorsQueued.WithLabelValues(library).Inc()
}

// BootstrapRun counts a provider initialization
func (m *Metrics) BootstrapRun() {
	if m == nil {
		return
	}
	m.bootstrapRuns.Inc()
}

// Handler serves the counters in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
