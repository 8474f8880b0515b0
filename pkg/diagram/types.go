package diagram

import "fmt"

// ArcKind tells which decision value leads from a parent to a child.
type ArcKind int

const (
	// ZeroArc is taken when the layer's decision variable is set to 0
	ZeroArc ArcKind = iota
	// OneArc is taken when the layer's decision variable is set to 1
	OneArc
)

// String returns the arc label used in logs and model names
func (k ArcKind) String() string {
	if k == OneArc {
		return "1"
	}
	return "0"
}

// Node is a single diagram node together with its predicted score.
//
// Parent references are slot indices into the previous layer. The stitching
// core only ever touches Pred, PrevPred and Connected.
type Node struct {
	Pred        float64
	Label       int
	OneParents  []int
	ZeroParents []int
	State       []int64

	// Connected is set once the node is known to lie on an activated path
	// from the root.
	Connected bool

	// PrevPred holds the prediction before the node was force-activated.
	PrevPred *float64
}

// Layer is the ordered set of nodes for one decision variable.
type Layer []Node

// Diagram is a layered DAG. The root precedes layer 0 and the terminal
// follows the last layer; neither is stored.
type Diagram struct {
	Layers []Layer
}

// NodeRef addresses a node by layer and slot.
type NodeRef struct {
	Layer int
	Index int
}

func (r NodeRef) String() string {
	return fmt.Sprintf("%d:%d", r.Layer, r.Index)
}

// Arc is a parent reference seen from the child.
type Arc struct {
	Parent NodeRef
	Child  NodeRef
	Kind   ArcKind
}

// NumLayers returns the number of layers (decision variables).
func (d *Diagram) NumLayers() int {
	return len(d.Layers)
}

// NumNodes returns the total node count across all layers.
func (d *Diagram) NumNodes() int {
	n := 0
	for _, layer := range d.Layers {
		n += len(layer)
	}
	return n
}

// Node returns a pointer into the arena for ref.
func (d *Diagram) Node(ref NodeRef) *Node {
	return &d.Layers[ref.Layer][ref.Index]
}

// Previous returns the layer before l, or nil for layer 0.
func (d *Diagram) Previous(l int) Layer {
	if l <= 0 {
		return nil
	}
	return d.Layers[l-1]
}

// IncomingArcs lists the parent references of ref, one-arc parents first,
// each group in stored order.
func (d *Diagram) IncomingArcs(ref NodeRef) []Arc {
	if ref.Layer == 0 {
		return nil
	}
	node := d.Node(ref)
	arcs := make([]Arc, 0, len(node.OneParents)+len(node.ZeroParents))
	for _, p := range node.OneParents {
		arcs = append(arcs, Arc{Parent: NodeRef{ref.Layer - 1, p}, Child: ref, Kind: OneArc})
	}
	for _, p := range node.ZeroParents {
		arcs = append(arcs, Arc{Parent: NodeRef{ref.Layer - 1, p}, Child: ref, Kind: ZeroArc})
	}
	return arcs
}

// Clone returns a deep copy, used by callers that need to compare heuristics
// on the same input.
func (d *Diagram) Clone() *Diagram {
	out := &Diagram{Layers: make([]Layer, len(d.Layers))}
	for l, layer := range d.Layers {
		nl := make(Layer, len(layer))
		for i, n := range layer {
			c := n
			c.OneParents = append([]int(nil), n.OneParents...)
			c.ZeroParents = append([]int(nil), n.ZeroParents...)
			c.State = append([]int64(nil), n.State...)
			if n.PrevPred != nil {
				p := *n.PrevPred
				c.PrevPred = &p
			}
			nl[i] = c
		}
		out.Layers[l] = nl
	}
	return out
}
