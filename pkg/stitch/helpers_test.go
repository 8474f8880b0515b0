package stitch

import (
	"math/rand"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
)

// n builds a node with one-arc parents one and zero-arc parents zero.
func n(pred float64, one, zero []int) diagram.Node {
	return diagram.Node{Pred: pred, OneParents: one, ZeroParents: zero}
}

func ones(idx ...int) []int { return idx }

// randomDiagram builds a diagram where every node outside layer 0 has at
// least one parent.
func randomDiagram(r *rand.Rand, layers, width int) *diagram.Diagram {
	d := &diagram.Diagram{Layers: make([]diagram.Layer, layers)}
	prevWidth := 0
	for l := range d.Layers {
		w := 1 + r.Intn(width)
		layer := make(diagram.Layer, w)
		for i := range layer {
			node := diagram.Node{Pred: float64(r.Intn(1000)) / 1000}
			if l > 0 {
				node.OneParents = append(node.OneParents, r.Intn(prevWidth))
				for k := r.Intn(3); k > 0; k-- {
					if r.Intn(2) == 0 {
						node.OneParents = append(node.OneParents, r.Intn(prevWidth))
					} else {
						node.ZeroParents = append(node.ZeroParents, r.Intn(prevWidth))
					}
				}
				if r.Intn(3) == 0 {
					node.ZeroParents, node.OneParents = node.OneParents, node.ZeroParents
				}
			}
			layer[i] = node
		}
		d.Layers[l] = layer
		prevWidth = w
	}
	return d
}

func config(h Heuristic, selectAllUpto int) Config {
	cfg := DefaultConfig()
	cfg.Heuristic = h
	cfg.SelectAllUpto = selectAllUpto
	return cfg
}
