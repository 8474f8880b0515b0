// Package pipeline runs stitching over a range of instances with a fixed
// number of workers and hands the repaired diagrams to a frontier engine.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
	"github.com/dd0wney/cluso-stitch/pkg/handback"
	"github.com/dd0wney/cluso-stitch/pkg/logging"
	"github.com/dd0wney/cluso-stitch/pkg/metrics"
	"github.com/dd0wney/cluso-stitch/pkg/parallel"
	"github.com/dd0wney/cluso-stitch/pkg/stitch"
)

// Options selects the instances of a run.
type Options struct {
	// From and To bound the instance ids, [From, To)
	From int
	To   int
	// Workers is the number of ranks; id k goes to rank (k-From) mod Workers
	Workers int
	// ProcessConnected also hands diagrams that never needed stitching to
	// the engine
	ProcessConnected bool
}

// Runner drives one batch run.
type Runner struct {
	stitcher *stitch.Stitcher
	source   Source
	engine   FrontierEngine
	opts     Options
	logger   logging.Logger
	metrics  *metrics.Registry
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the run logger.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logging.OrNop(logger)
	}
}

// WithMetrics records instance outcomes on reg.
func WithMetrics(reg *metrics.Registry) RunnerOption {
	return func(r *Runner) {
		r.metrics = reg
	}
}

// NewRunner checks opts and wires the run. A nil engine discards stitched
// diagrams after recording them.
func NewRunner(s *stitch.Stitcher, src Source, engine FrontierEngine, opts Options, ropts ...RunnerOption) (*Runner, error) {
	if s == nil || src == nil {
		return nil, errors.New("pipeline: stitcher and source are required")
	}
	if _, err := parallel.Partition(opts.From, opts.To, opts.Workers); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	r := &Runner{
		stitcher: s,
		source:   src,
		engine:   engine,
		opts:     opts,
		logger:   logging.NopLogger{},
	}
	for _, opt := range ropts {
		opt(r)
	}
	return r, nil
}

// workerResult is what one rank hands back after its share is done.
type workerResult struct {
	records []Record
	stats   []diagram.LayerStats
	counts  Counts
}

// Run processes every instance of the range. Results are gathered in rank
// order once all workers are done. Stitch failures drop the instance; load
// and engine failures abort the run.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New().String()
	logger := r.logger.With(logging.RunID(runID))
	started := time.Now()
	if r.metrics != nil {
		defer r.metrics.StartRun()()
	}

	cfg := r.stitcher.Config()
	logger.Info("run started",
		logging.Int("from", r.opts.From),
		logging.Int("to", r.opts.To),
		logging.Int("workers", r.opts.Workers),
		logging.Heuristic(cfg.Heuristic.String()))

	results := make([]workerResult, r.opts.Workers)
	err := parallel.RunRanks(ctx, r.opts.Workers, func(ctx context.Context, rank int) error {
		if r.metrics != nil {
			r.metrics.WorkerStarted()
			defer r.metrics.WorkerDone()
		}
		ids := parallel.Share(r.opts.From, r.opts.To, rank, r.opts.Workers)
		res, err := r.work(ctx, rank, ids, logger.With(logging.Worker(rank)))
		results[rank] = res
		return err
	})
	if err != nil {
		logger.Error("run failed", logging.Error(err))
		return nil, err
	}

	summary := &Summary{
		RunID:     runID,
		Config:    cfg,
		From:      r.opts.From,
		To:        r.opts.To,
		Workers:   r.opts.Workers,
		StartedAt: started,
	}
	for _, res := range results {
		summary.Records = append(summary.Records, res.records...)
		summary.Stats = diagram.MergeStats(summary.Stats, res.stats)
		summary.Counts.add(res.counts)
	}
	summary.Elapsed = time.Since(started).Seconds()

	logger.Info("run finished",
		logging.Count(summary.Counts.Processed),
		logging.Int("dropped", summary.Counts.Dropped),
		logging.Int("missing", summary.Counts.Missing),
		logging.Latency(time.Since(started)))
	return summary, nil
}

// work processes the ids of one rank in order.
func (r *Runner) work(ctx context.Context, rank int, ids []int, logger logging.Logger) (workerResult, error) {
	var res workerResult
	for _, pid := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := r.instance(ctx, rank, pid, logger.With(logging.Instance(pid)), &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// instance loads, scores, stitches and hands back one diagram.
func (r *Runner) instance(ctx context.Context, rank, pid int, logger logging.Logger, res *workerResult) error {
	start := time.Now()

	d, err := r.source.Load(ctx, pid)
	if errors.Is(err, ErrMissingDiagram) {
		logger.Debug("diagram missing, skipped")
		res.counts.Missing++
		r.record(metrics.StatusMissing, false, start)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load instance %d: %w", pid, err)
	}

	cfg := r.stitcher.Config()
	res.stats = diagram.MergeStats(res.stats, d.PredictionStats(cfg.Policy))
	initialActive := d.ActiveCount(cfg.Policy)

	result, err := r.stitcher.Run(d)
	if err != nil {
		logger.Warn("instance dropped",
			logging.Count(result.Count),
			logging.Error(err))
		res.counts.Dropped++
		r.record(metrics.StatusDropped, true, start)
		return nil
	}

	status := metrics.StatusConnected
	if result.WasDisconnected {
		status = metrics.StatusStitched
		logger.Debug("instance stitched",
			logging.Count(result.Count),
			logging.Duration("time_stitching", result.Elapsed))
	}

	if !result.WasDisconnected && !r.opts.ProcessConnected {
		res.counts.Skipped++
		r.record(status, false, start)
		return nil
	}

	h := handback.Build(d, cfg.Policy)
	if r.engine != nil {
		if err := r.engine.Process(ctx, pid, d, h); err != nil {
			return fmt.Errorf("process instance %d: %w", pid, err)
		}
	}

	res.counts.Processed++
	res.records = append(res.records, Record{
		PID:             pid,
		Rank:            rank,
		WasDisconnected: result.WasDisconnected,
		CountStitching:  result.Count,
		TimeStitching:   result.Elapsed.Seconds(),
		StitchedLayers:  result.StitchedLayers(),
		InitialActive:   initialActive,
		ActiveNodes:     d.ActiveCount(cfg.Policy),
		HandbackStates:  h.NumStates(),
	})
	r.record(status, result.WasDisconnected, start)
	logger.Info("instance processed", logging.Bool("was_disconnected", result.WasDisconnected))
	return nil
}

func (r *Runner) record(status string, wasDisconnected bool, start time.Time) {
	if r.metrics != nil {
		r.metrics.RecordInstance(status, wasDisconnected, time.Since(start))
	}
}
