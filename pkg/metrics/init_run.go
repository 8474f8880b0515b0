package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.WorkersActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "stitch_workers_active",
			Help: "Number of workers currently processing instances",
		},
	)

	r.RunStartTime = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "stitch_run_start_timestamp_seconds",
			Help: "Unix time the current batch run started",
		},
	)

	r.RunDuration = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "stitch_run_duration_seconds",
			Help: "Wall-clock duration of the last completed batch run",
		},
	)
}
