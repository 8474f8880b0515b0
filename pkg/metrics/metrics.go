package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Instance outcome labels
const (
	StatusConnected = "connected"
	StatusStitched  = "stitched"
	StatusDropped   = "dropped"
	StatusMissing   = "missing"
)

// Stitch outcome labels
const (
	StitchSuccess = "success"
	StitchFailure = "failure"
)

// RecordInstance records one processed instance
func (r *Registry) RecordInstance(status string, wasDisconnected bool, duration time.Duration) {
	r.InstancesTotal.WithLabelValues(status).Inc()
	if wasDisconnected {
		r.DisconnectedTotal.Inc()
	}
	if status != StatusMissing {
		r.InstanceDuration.Observe(duration.Seconds())
	}
}

// RecordStitch records one heuristic invocation
func (r *Registry) RecordStitch(heuristic, status string, duration time.Duration, activated int, resistance float64) {
	r.LayersStitchedTotal.WithLabelValues(heuristic, status).Inc()
	r.StitchDuration.WithLabelValues(heuristic).Observe(duration.Seconds())
	if status == StitchSuccess {
		r.NodesActivatedTotal.WithLabelValues(heuristic).Add(float64(activated))
		r.RepairResistance.WithLabelValues(heuristic).Observe(resistance)
	}
}

// RecordSolve records a selection model solve
func (r *Registry) RecordSolve(duration time.Duration, err error) {
	r.SolverDuration.Observe(duration.Seconds())
	if err != nil {
		r.SolverFailuresTotal.Inc()
	}
}

// WorkerStarted and WorkerDone track active workers
func (r *Registry) WorkerStarted() { r.WorkersActive.Inc() }
func (r *Registry) WorkerDone()    { r.WorkersActive.Dec() }

// StartRun stamps the start of a batch run and returns a func that records
// its duration
func (r *Registry) StartRun() func() {
	start := time.Now()
	r.RunStartTime.Set(float64(start.Unix()))
	return func() {
		r.RunDuration.Set(time.Since(start).Seconds())
	}
}

// WriteTextfile writes every metric in the Prometheus text format, for
// pickup by a node_exporter textfile collector after a batch run
func (r *Registry) WriteTextfile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return prometheus.WriteToTextfile(path, r.registry)
}
