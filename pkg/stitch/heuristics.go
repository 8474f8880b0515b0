package stitch

import (
	"github.com/dd0wney/cluso-stitch/pkg/diagram"
)

// bump activates node and, when it was switched on, adds its resistance to
// the outcome.
func (o *Outcome) bump(node *diagram.Node, p diagram.Policy) {
	pred := node.Pred
	if p.Activate(node) {
		o.Activated++
		o.Resistance += p.Resistance(pred)
	}
}

// forceEnable switches on every inactive node of layer l. It fails when the
// layer had nothing left to switch on.
func forceEnable(d *diagram.Diagram, l int, p diagram.Policy) (Outcome, error) {
	out := Outcome{Layer: l, Heuristic: ForceEnable}
	layer := d.Layers[l]
	for i := range layer {
		out.bump(&layer[i], p)
	}
	if out.Activated == 0 {
		return out, ErrNothingActivated
	}
	return out, nil
}

// shortestPath activates the nodes of one minimum-resistance root-to-terminal
// path. Path nodes are marked connected since the path starts at the root.
func shortestPath(d *diagram.Diagram, l int, p diagram.Policy) (Outcome, error) {
	out := Outcome{Layer: l, Heuristic: ShortestPath}

	g := NewResistanceGraph(d, p)
	path, _, err := g.ShortestPath()
	if err != nil {
		return out, err
	}

	for _, ref := range path {
		node := d.Node(ref)
		out.bump(node, p)
		node.Connected = true
	}
	out.Paths = 1
	return out, nil
}

// extendPaths grows every partial path by one layer. Children are visited in
// slot order, one-arc parents before zero-arc parents; a path ending at a
// parent is copied once per matching reference. Paths with no child are
// dropped.
func extendPaths(layer diagram.Layer, paths [][]int) [][]int {
	next := make([][]int, 0, len(paths))
	appendMatching := func(child, parent int) {
		for _, path := range paths {
			if path[len(path)-1] != parent {
				continue
			}
			extended := make([]int, len(path), len(path)+1)
			copy(extended, path)
			next = append(next, append(extended, child))
		}
	}

	for child, node := range layer {
		for _, parent := range node.OneParents {
			appendMatching(child, parent)
		}
		for _, parent := range node.ZeroParents {
			appendMatching(child, parent)
		}
	}
	return next
}

// lookahead seeds partial paths at the active, connected nodes of layer l-1,
// extends them through the next window layers (clamped at the last layer)
// and activates every path whose resistance equals the minimum. Tied paths
// are all applied.
func lookahead(d *diagram.Diagram, l, window int, p diagram.Policy) (Outcome, error) {
	out := Outcome{Layer: l, Heuristic: MinResistanceLookahead}
	if l == 0 {
		return out, ErrUnreachableLayerZero
	}

	prev := d.Layers[l-1]
	paths := make([][]int, 0)
	for i, node := range prev {
		if p.IsActive(node.Pred) && node.Connected {
			paths = append(paths, []int{i})
		}
	}

	last := min(l+window-1, d.NumLayers()-1)
	for k := l; k <= last && len(paths) > 0; k++ {
		paths = extendPaths(d.Layers[k], paths)
	}
	if len(paths) == 0 {
		return out, ErrNoPath
	}

	costs := make([]float64, len(paths))
	best := 0
	for i, path := range paths {
		for step, idx := range path[1:] {
			costs[i] += p.Resistance(d.Layers[l+step][idx].Pred)
		}
		if costs[i] < costs[best] {
			best = i
		}
	}
	minCost := costs[best]

	for i, path := range paths {
		if costs[i] != minCost {
			continue
		}
		out.Paths++
		for step, idx := range path[1:] {
			node := &d.Layers[l+step][idx]
			node.Connected = true
			out.bump(node, p)
		}
	}
	return out, nil
}
