package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initStitchMetrics() {
	r.InstancesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stitch_instances_total",
			Help: "Instances processed by outcome (connected, stitched, dropped, missing)",
		},
		[]string{"status"},
	)

	r.DisconnectedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "stitch_disconnected_total",
			Help: "Instances whose predicted diagram was disconnected at some layer",
		},
	)

	r.InstanceDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stitch_instance_duration_seconds",
			Help:    "Time spent stitching one instance",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)

	r.LayersStitchedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stitch_layers_stitched_total",
			Help: "Disconnected layers handed to a heuristic, by heuristic and status",
		},
		[]string{"heuristic", "status"},
	)

	r.StitchDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stitch_duration_seconds",
			Help:    "Duration of one heuristic invocation",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
		[]string{"heuristic"},
	)

	r.NodesActivatedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stitch_nodes_activated_total",
			Help: "Nodes force-activated, by heuristic",
		},
		[]string{"heuristic"},
	)

	r.RepairResistance = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stitch_repair_resistance",
			Help:    "Total resistance of the repair chosen by a heuristic",
			Buckets: []float64{0, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"heuristic"},
	)

	r.SolverDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stitch_solver_duration_seconds",
			Help:    "Duration of selection model solves",
			Buckets: []float64{0.001, 0.01, 0.1, 1.0, 10.0, 60.0},
		},
	)

	r.SolverFailuresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "stitch_solver_failures_total",
			Help: "Selection models that could not be solved",
		},
	)
}
