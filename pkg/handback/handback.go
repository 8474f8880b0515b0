// Package handback turns a stitched diagram into the per-layer state lists
// consumed by the exact Pareto-frontier engine.
package handback

import (
	"github.com/dd0wney/cluso-stitch/pkg/diagram"
)

// Handback lists, per layer, the state vectors of the active nodes in slot
// order.
type Handback struct {
	Layers [][][]int64 `json:"layers"`
}

// Build collects the active nodes of d under p. Every layer gets an entry,
// empty when nothing in it is active.
func Build(d *diagram.Diagram, p diagram.Policy) Handback {
	h := Handback{Layers: make([][][]int64, d.NumLayers())}
	for l, layer := range d.Layers {
		states := make([][]int64, 0, len(layer))
		for _, node := range layer {
			if p.IsActive(node.Pred) {
				states = append(states, node.State)
			}
		}
		h.Layers[l] = states
	}
	return h
}

// NumStates returns the number of states across all layers.
func (h Handback) NumStates() int {
	n := 0
	for _, states := range h.Layers {
		n += len(states)
	}
	return n
}
