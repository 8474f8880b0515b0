package stitch

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
)

func TestCheckLayer_FirstLayer(t *testing.T) {
	p := diagram.DefaultPolicy()

	t.Run("active node connects", func(t *testing.T) {
		layer := diagram.Layer{n(0.6, nil, nil), n(0.2, nil, nil)}
		assert.True(t, CheckLayer(nil, layer, p))
		assert.True(t, layer[0].Connected)
		assert.False(t, layer[1].Connected)
	})

	t.Run("no active node", func(t *testing.T) {
		layer := diagram.Layer{n(0.44, nil, nil), n(0.1, nil, nil)}
		assert.False(t, CheckLayer(nil, layer, p))
	})

	t.Run("rounds before comparing", func(t *testing.T) {
		// 0.46 rounds to 0.5
		layer := diagram.Layer{n(0.46, nil, nil)}
		assert.True(t, CheckLayer(nil, layer, p))
	})
}

func TestCheckLayer_OneArcParents(t *testing.T) {
	p := diagram.DefaultPolicy()
	prev := diagram.Layer{n(0.2, nil, nil), n(0.9, nil, nil)}
	prev[1].Connected = true

	cur := diagram.Layer{
		n(0.8, ones(0), nil),    // inactive parent
		n(0.8, ones(0, 1), nil), // second parent is live
		n(0.1, ones(1), nil),    // node itself inactive
	}
	assert.True(t, CheckLayer(prev, cur, p))
	assert.False(t, cur[0].Connected)
	assert.True(t, cur[1].Connected)
	assert.False(t, cur[2].Connected)
}

func TestCheckLayer_ActiveButUnmarkedParent(t *testing.T) {
	p := diagram.DefaultPolicy()
	prev := diagram.Layer{n(0.9, nil, nil)}
	cur := diagram.Layer{n(0.9, ones(0), nil)}

	assert.False(t, CheckLayer(prev, cur, p))
}

func TestCheckLayer_FirstZeroArcOnly(t *testing.T) {
	p := diagram.DefaultPolicy()
	prev := diagram.Layer{n(0.1, nil, nil), n(0.9, nil, nil)}
	prev[1].Connected = true

	// the live parent is the second zero-arc reference and is never seen
	cur := diagram.Layer{n(0.9, nil, ones(0, 1))}
	assert.False(t, CheckLayer(prev, cur, p))
	assert.False(t, cur[0].Connected)

	cur = diagram.Layer{n(0.9, nil, ones(1, 0))}
	assert.True(t, CheckLayer(prev, cur, p))
	assert.True(t, cur[0].Connected)
}

func TestCheckLayerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	p := diagram.DefaultPolicy()

	properties.Property("marked nodes are active and the result matches the marks", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			d := randomDiagram(r, 4, 5)
			for l := range d.Layers {
				got := CheckLayer(d.Previous(l), d.Layers[l], p)
				marked := false
				for _, node := range d.Layers[l] {
					if node.Connected {
						if !p.IsActive(node.Pred) {
							return false
						}
						marked = true
					}
				}
				if got != marked {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("marks follow one-arc parents and the first zero-arc parent", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			d := randomDiagram(r, 5, 5)
			for l := range d.Layers {
				var prev diagram.Layer
				if l > 0 {
					prev = d.Layers[l-1]
				}
				live := func(idx int) bool {
					return p.IsActive(prev[idx].Pred) && prev[idx].Connected
				}

				want := make([]bool, len(d.Layers[l]))
				reached := false
				for i, node := range d.Layers[l] {
					if !p.IsActive(node.Pred) {
						continue
					}
					if l == 0 {
						want[i] = true
					}
					for _, idx := range node.OneParents {
						want[i] = want[i] || live(idx)
					}
					if len(node.ZeroParents) > 0 {
						want[i] = want[i] || live(node.ZeroParents[0])
					}
					reached = reached || want[i]
				}

				if CheckLayer(prev, d.Layers[l], p) != reached {
					return false
				}
				for i, node := range d.Layers[l] {
					if node.Connected != want[i] {
						return false
					}
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("a node with a live one-arc parent is marked", prop.ForAll(
		func(seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			d := randomDiagram(r, 3, 4)
			CheckLayer(nil, d.Layers[0], p)
			CheckLayer(d.Layers[0], d.Layers[1], p)
			for _, node := range d.Layers[1] {
				if !p.IsActive(node.Pred) {
					continue
				}
				for _, idx := range node.OneParents {
					parent := d.Layers[0][idx]
					if p.IsActive(parent.Pred) && parent.Connected && !node.Connected {
						return false
					}
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
