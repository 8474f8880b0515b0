package stitch

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
	"github.com/dd0wney/cluso-stitch/pkg/logging"
	"github.com/dd0wney/cluso-stitch/pkg/metrics"
	"github.com/dd0wney/cluso-stitch/pkg/milp"
)

// Outcome describes one stitch applied to a disconnected layer.
type Outcome struct {
	Layer     int
	Heuristic Heuristic
	// Activated counts nodes bumped from inactive to active
	Activated int
	// Resistance sums max(0, threshold - pred) over the bumped nodes, using
	// the predictions they had before the bump
	Resistance float64
	// Paths counts tied candidate paths applied (graph heuristics only)
	Paths   int
	Elapsed time.Duration
}

// Result summarises a Run over one diagram.
type Result struct {
	// Stitched is false when a stitch failed and the instance is dropped
	Stitched        bool
	WasDisconnected bool
	// Count is the number of stitches attempted
	Count    int
	Elapsed  time.Duration
	Outcomes []Outcome
}

// StitchedLayers returns the layers repaired, in order.
func (r Result) StitchedLayers() []int {
	layers := make([]int, len(r.Outcomes))
	for i, o := range r.Outcomes {
		layers[i] = o.Layer
	}
	return layers
}

// Stitcher walks a diagram layer by layer and repairs every disconnection
// with the configured heuristic. A Stitcher holds no per-diagram state and
// may be shared by goroutines working on different diagrams.
type Stitcher struct {
	cfg       Config
	logger    logging.Logger
	metrics   *metrics.Registry
	newSolver milp.Factory
}

// Option configures a Stitcher.
type Option func(*Stitcher)

// WithLogger sets the logger. Per-layer decisions are logged at debug.
func WithLogger(logger logging.Logger) Option {
	return func(s *Stitcher) {
		s.logger = logging.OrNop(logger)
	}
}

// WithMetrics records stitch outcomes on r.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Stitcher) {
		s.metrics = r
	}
}

// WithSolver sets the backend used by the MIP heuristic.
func WithSolver(f milp.Factory) Option {
	return func(s *Stitcher) {
		if f != nil {
			s.newSolver = f
		}
	}
}

// New validates cfg and returns a Stitcher.
func New(cfg Config, opts ...Option) (*Stitcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Stitcher{
		cfg:       cfg,
		logger:    logging.NopLogger{},
		newSolver: milp.PBFactory(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the stitching parameters.
func (s *Stitcher) Config() Config {
	return s.cfg
}

// Run checks every layer of d in order and stitches each disconnected one.
// d is mutated in place. On the first failed stitch Run stops and returns
// the partial result with Stitched false and an *Error. A malformed diagram
// is rejected before any layer is checked.
func (s *Stitcher) Run(d *diagram.Diagram) (Result, error) {
	if err := d.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Stitched: true}
	p := s.cfg.Policy

	for l := 0; l < d.NumLayers(); l++ {
		if CheckLayer(d.Previous(l), d.Layers[l], p) {
			continue
		}

		res.WasDisconnected = true
		res.Count++
		s.logger.Debug("layer disconnected", logging.Layer(l))

		out, err := s.StitchLayer(d, l)
		res.Elapsed += out.Elapsed
		if err != nil {
			res.Stitched = false
			return res, err
		}
		res.Outcomes = append(res.Outcomes, out)

		// pick up force-enabled nodes whose parents were already connected
		CheckLayer(d.Previous(l), d.Layers[l], p)
	}
	return res, nil
}

// effective returns the heuristic applied at layer l.
func (s *Stitcher) effective(l int) Heuristic {
	if s.cfg.Heuristic == ForceEnable || l <= s.cfg.SelectAllUpto {
		return ForceEnable
	}
	return s.cfg.Heuristic
}

// StitchLayer applies one stitch at layer l regardless of its current
// connectivity. Failures are returned as *Error.
func (s *Stitcher) StitchLayer(d *diagram.Diagram, l int) (Outcome, error) {
	h := s.effective(l)
	p := s.cfg.Policy
	start := time.Now()

	var (
		out Outcome
		err error
	)
	switch h {
	case ForceEnable:
		out, err = forceEnable(d, l, p)
	case ShortestPath:
		out, err = shortestPath(d, l, p)
	case MinResistanceLookahead:
		out, err = lookahead(d, l, s.cfg.Lookahead, p)
	case MIP:
		solveStart := time.Now()
		out, err = mip(d, l, p, s.newSolver)
		if s.metrics != nil {
			s.metrics.RecordSolve(time.Since(solveStart), err)
		}
	default:
		out, err = Outcome{Layer: l, Heuristic: h}, fmt.Errorf("%w: %d", ErrUnknownHeuristic, int(h))
	}
	out.Elapsed = time.Since(start)

	status := metrics.StitchSuccess
	if err != nil {
		status = metrics.StitchFailure
	}
	if s.metrics != nil {
		s.metrics.RecordStitch(h.String(), status, out.Elapsed, out.Activated, out.Resistance)
	}

	if err != nil {
		s.logger.Debug("stitch failed",
			logging.Layer(l),
			logging.Heuristic(h.String()),
			logging.Latency(out.Elapsed),
			logging.Error(err))
		return out, &Error{Layer: l, Heuristic: h, Cause: err}
	}

	s.logger.Debug("layer stitched",
		logging.Layer(l),
		logging.Heuristic(h.String()),
		logging.Count(out.Activated),
		logging.Float64("resistance", out.Resistance),
		logging.Latency(out.Elapsed))
	return out, nil
}
