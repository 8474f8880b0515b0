package stitch

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
	"github.com/dd0wney/cluso-stitch/pkg/logging"
	"github.com/dd0wney/cluso-stitch/pkg/metrics"
)

func newStitcher(t *testing.T, cfg Config, opts ...Option) *Stitcher {
	t.Helper()
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	return s
}

func TestRun_AlreadyConnected(t *testing.T) {
	d := &diagram.Diagram{Layers: []diagram.Layer{
		{n(0.9, nil, nil)},
		{n(0.7, ones(0), nil)},
	}}

	res, err := newStitcher(t, DefaultConfig()).Run(d)
	require.NoError(t, err)
	assert.True(t, res.Stitched)
	assert.False(t, res.WasDisconnected)
	assert.Zero(t, res.Count)
	assert.Empty(t, res.StitchedLayers())
}

func TestRun_SelectAllEarlyLayers(t *testing.T) {
	d := &diagram.Diagram{Layers: []diagram.Layer{
		{n(0.6, nil, nil), n(0.2, nil, nil)},
		{n(0.1, ones(0, 1), nil), n(0.1, ones(0, 1), nil)},
		{n(0.9, ones(0, 1), nil)},
	}}

	res, err := newStitcher(t, config(MIP, 2)).Run(d)
	require.NoError(t, err)
	assert.True(t, res.Stitched)
	assert.True(t, res.WasDisconnected)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, []int{1}, res.StitchedLayers())
	assert.Equal(t, ForceEnable, res.Outcomes[0].Heuristic)

	for _, node := range d.Layers[1] {
		assert.InDelta(t, 0.501, node.Pred, 1e-12)
		require.NotNil(t, node.PrevPred)
		assert.Equal(t, 0.1, *node.PrevPred)
		assert.True(t, node.Connected)
	}
	assert.True(t, d.Layers[2][0].Connected)
}

func TestRun_GraphHeuristics(t *testing.T) {
	for _, h := range []Heuristic{ShortestPath, MIP} {
		t.Run(h.String(), func(t *testing.T) {
			d := twoRoutes()
			res, err := newStitcher(t, config(h, -1)).Run(d)
			require.NoError(t, err)
			assert.Equal(t, 1, res.Count)
			assert.Equal(t, []int{0}, res.StitchedLayers())
			assert.Equal(t, 3, res.Outcomes[0].Activated)
			assert.InDelta(t, 0.6, res.Outcomes[0].Resistance, 1e-6)
			for l := range d.Layers {
				assert.True(t, d.Layers[l][0].Connected, "layer %d", l)
			}
		})
	}
}

func TestRun_Lookahead(t *testing.T) {
	d := &diagram.Diagram{Layers: []diagram.Layer{
		{n(0.9, nil, nil)},
		{n(0.2, ones(0), nil), n(0.2, nil, ones(0))},
		{n(0.9, ones(0, 1), nil)},
	}}
	cfg := config(MinResistanceLookahead, 0)

	res, err := newStitcher(t, cfg).Run(d)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 2, res.Outcomes[0].Paths)
}

func TestRun_FailureDropsInstance(t *testing.T) {
	t.Run("lookahead at layer zero", func(t *testing.T) {
		d := twoRoutes()
		res, err := newStitcher(t, config(MinResistanceLookahead, -1)).Run(d)
		require.Error(t, err)
		assert.False(t, res.Stitched)
		assert.Equal(t, 1, res.Count)
		assert.ErrorIs(t, err, ErrUnreachableLayerZero)

		var se *Error
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 0, se.Layer)
		assert.Equal(t, MinResistanceLookahead, se.Heuristic)
	})

	t.Run("nothing left to enable", func(t *testing.T) {
		d := &diagram.Diagram{Layers: []diagram.Layer{
			{n(0.9, nil, nil), n(0.1, nil, nil)},
			{n(0.9, ones(1), nil)},
		}}
		res, err := newStitcher(t, config(ForceEnable, -1)).Run(d)
		assert.ErrorIs(t, err, ErrNothingActivated)
		assert.False(t, res.Stitched)
		assert.Contains(t, err.Error(), "stitch layer 1 (force-enable)")
	})
}

func TestRun_RejectsMalformedDiagram(t *testing.T) {
	s := newStitcher(t, DefaultConfig())

	d := &diagram.Diagram{Layers: []diagram.Layer{
		{n(0.9, nil, nil)},
		{n(0.9, nil, ones(3))},
	}}
	res, err := s.Run(d)
	assert.ErrorIs(t, err, diagram.ErrParentOutOfRange)
	assert.False(t, res.Stitched)
	assert.False(t, d.Layers[0][0].Connected)

	var ve *diagram.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, diagram.NodeRef{Layer: 1, Index: 0}, ve.Ref)

	_, err = s.Run(&diagram.Diagram{})
	assert.ErrorIs(t, err, diagram.ErrEmptyDiagram)
}

func TestRun_RecordsMetricsAndLogs(t *testing.T) {
	reg := metrics.NewRegistry()
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.DebugLevel)

	s := newStitcher(t, config(ShortestPath, -1), WithMetrics(reg), WithLogger(logger))
	_, err := s.Run(twoRoutes())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.LayersStitchedTotal.WithLabelValues("shortest-path", metrics.StitchSuccess)))
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.NodesActivatedTotal.WithLabelValues("shortest-path")))
	assert.True(t, strings.Contains(buf.String(), `"msg":"layer stitched"`))
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lookahead = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	p := diagram.DefaultPolicy()

	s, err := New(config(ShortestPath, -1))
	require.NoError(t, err)

	properties.Property("shortest-path stitching always succeeds", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			d := randomDiagram(r, 1+r.Intn(6), 4)
			before := d.Clone()

			res, err := s.Run(d)
			if err != nil || !res.Stitched {
				return false
			}
			if res.WasDisconnected != (res.Count > 0) {
				return false
			}
			for l, layer := range d.Layers {
				active := false
				for i, node := range layer {
					if node.Pred < before.Layers[l][i].Pred {
						return false
					}
					active = active || p.IsActive(node.Pred)
				}
				if !active {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
