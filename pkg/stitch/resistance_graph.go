package stitch

import (
	"github.com/dd0wney/cluso-stitch/pkg/algorithms"
	"github.com/dd0wney/cluso-stitch/pkg/diagram"
)

// ResistanceGraph is the diagram seen as a weighted DAG: a synthetic root
// (vertex 0), one vertex per node in layer-major order, and a synthetic
// terminal (last vertex). An edge into a node weighs that node's resistance.
type ResistanceGraph struct {
	offsets  []int // vertex id of slot 0 in each layer
	refs     []diagram.NodeRef
	edges    [][]algorithms.Edge
	terminal int
}

// NewResistanceGraph builds the graph for d under p.
func NewResistanceGraph(d *diagram.Diagram, p diagram.Policy) *ResistanceGraph {
	total := d.NumNodes()
	g := &ResistanceGraph{
		offsets:  make([]int, d.NumLayers()),
		refs:     make([]diagram.NodeRef, total+2),
		edges:    make([][]algorithms.Edge, total+2),
		terminal: total + 1,
	}

	next := 1
	for l, layer := range d.Layers {
		g.offsets[l] = next
		for i := range layer {
			g.refs[next] = diagram.NodeRef{Layer: l, Index: i}
			next++
		}
	}

	for l, layer := range d.Layers {
		for i, node := range layer {
			child := g.offsets[l] + i
			w := p.Resistance(node.Pred)
			if l == 0 {
				g.edges[0] = append(g.edges[0], algorithms.Edge{To: child, Weight: w})
				continue
			}
			for _, parent := range node.OneParents {
				from := g.offsets[l-1] + parent
				g.edges[from] = append(g.edges[from], algorithms.Edge{To: child, Weight: w})
			}
			for _, parent := range node.ZeroParents {
				from := g.offsets[l-1] + parent
				g.edges[from] = append(g.edges[from], algorithms.Edge{To: child, Weight: w})
			}
		}
	}

	if last := d.NumLayers() - 1; last >= 0 {
		for i := range d.Layers[last] {
			from := g.offsets[last] + i
			g.edges[from] = append(g.edges[from], algorithms.Edge{To: g.terminal, Weight: 0})
		}
	}
	return g
}

// NumVertices implements algorithms.WeightedGraph.
func (g *ResistanceGraph) NumVertices() int { return len(g.edges) }

// OutgoingEdges implements algorithms.WeightedGraph.
func (g *ResistanceGraph) OutgoingEdges(v int) []algorithms.Edge { return g.edges[v] }

// Root is the synthetic source vertex.
func (g *ResistanceGraph) Root() int { return 0 }

// Terminal is the synthetic sink vertex.
func (g *ResistanceGraph) Terminal() int { return g.terminal }

// Ref maps a non-synthetic vertex back to its node.
func (g *ResistanceGraph) Ref(v int) (diagram.NodeRef, bool) {
	if v <= 0 || v >= g.terminal {
		return diagram.NodeRef{}, false
	}
	return g.refs[v], true
}

// Vertex returns the vertex id of ref.
func (g *ResistanceGraph) Vertex(ref diagram.NodeRef) int {
	return g.offsets[ref.Layer] + ref.Index
}

// ShortestPath returns the nodes of a minimum-resistance root-to-terminal
// path in layer order, and the path weight.
func (g *ResistanceGraph) ShortestPath() ([]diagram.NodeRef, float64, error) {
	path, weight, err := algorithms.WeightedShortestPath(g, g.Root(), g.Terminal())
	if err != nil {
		return nil, 0, err
	}
	if path == nil {
		return nil, 0, ErrNoPath
	}
	refs := make([]diagram.NodeRef, 0, len(path))
	for _, v := range path {
		if ref, ok := g.Ref(v); ok {
			refs = append(refs, ref)
		}
	}
	return refs, weight, nil
}
