package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for a stitching run
type Registry struct {
	// Instance Metrics
	InstancesTotal      *prometheus.CounterVec
	DisconnectedTotal   prometheus.Counter
	InstanceDuration    prometheus.Histogram
	LayersStitchedTotal *prometheus.CounterVec
	StitchDuration      *prometheus.HistogramVec
	NodesActivatedTotal *prometheus.CounterVec
	RepairResistance    *prometheus.HistogramVec
	SolverDuration      prometheus.Histogram
	SolverFailuresTotal prometheus.Counter

	// Run Metrics
	WorkersActive prometheus.Gauge
	RunStartTime  prometheus.Gauge
	RunDuration   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initStitchMetrics()
	r.initRunMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
