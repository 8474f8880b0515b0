package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.InstancesTotal == nil {
		t.Error("InstancesTotal not initialized")
	}
	if r.StitchDuration == nil {
		t.Error("StitchDuration not initialized")
	}
	if r.WorkersActive == nil {
		t.Error("WorkersActive not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordInstance(t *testing.T) {
	r := NewRegistry()

	r.RecordInstance(StatusStitched, true, 10*time.Millisecond)
	r.RecordInstance(StatusConnected, false, time.Millisecond)
	r.RecordInstance(StatusStitched, true, 20*time.Millisecond)

	stitched, err := r.InstancesTotal.GetMetricWithLabelValues(StatusStitched)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := counterValue(t, stitched); got != 2 {
		t.Errorf("stitched counter = %v, want 2", got)
	}
	if got := counterValue(t, r.DisconnectedTotal); got != 2 {
		t.Errorf("disconnected counter = %v, want 2", got)
	}
}

func TestRecordStitch(t *testing.T) {
	r := NewRegistry()

	r.RecordStitch("mip", StitchSuccess, 5*time.Millisecond, 3, 0.4)
	r.RecordStitch("mip", StitchSuccess, 5*time.Millisecond, 2, 0.1)
	r.RecordStitch("mip", StitchFailure, time.Millisecond, 9, 0)

	success, err := r.LayersStitchedTotal.GetMetricWithLabelValues("mip", StitchSuccess)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := counterValue(t, success); got != 2 {
		t.Errorf("success counter = %v, want 2", got)
	}

	activated, err := r.NodesActivatedTotal.GetMetricWithLabelValues("mip")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := counterValue(t, activated); got != 5 {
		t.Errorf("activated counter = %v, want 5 (failures do not count)", got)
	}
}

func TestRecordSolve(t *testing.T) {
	r := NewRegistry()

	r.RecordSolve(time.Millisecond, nil)
	r.RecordSolve(time.Millisecond, errors.New("infeasible"))

	if got := counterValue(t, r.SolverFailuresTotal); got != 1 {
		t.Errorf("solver failures = %v, want 1", got)
	}
}

func TestWorkerGauge(t *testing.T) {
	r := NewRegistry()

	r.WorkerStarted()
	r.WorkerStarted()
	r.WorkerDone()

	if got := gaugeValue(t, r.WorkersActive); got != 1 {
		t.Errorf("WorkersActive = %v, want 1", got)
	}
}

func TestStartRunAndTextfile(t *testing.T) {
	r := NewRegistry()

	done := r.StartRun()
	r.RecordInstance(StatusDropped, true, time.Millisecond)
	done()

	if gaugeValue(t, r.RunStartTime) <= 0 {
		t.Error("RunStartTime not set")
	}

	path := filepath.Join(t.TempDir(), "stitch.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `stitch_instances_total{status="dropped"} 1`) {
		t.Errorf("textfile missing dropped counter:\n%s", data)
	}
}
