package stitch

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
	"github.com/dd0wney/cluso-stitch/pkg/milp"
)

// arcVar ties a parent reference to its selection variable.
type arcVar struct {
	arc diagram.Arc
	v   milp.Var
}

// SelectionModel is the binary program choosing which nodes to activate:
// one variable per node weighted by its resistance, one zero-cost variable
// per parent reference.
type SelectionModel struct {
	solver   milp.Solver
	nodeVars [][]milp.Var
	arcVars  []arcVar
}

// BuildSelectionModel formulates the min-resistance selection of d on s.
//
// Per non-root layer a node is selected iff at least one incoming arc is,
// an arc may only leave a selected parent, and every selected parent keeps
// at least one selected outgoing arc. The first and last layers each select
// at least one node.
func BuildSelectionModel(d *diagram.Diagram, p diagram.Policy, s milp.Solver) (*SelectionModel, error) {
	m := &SelectionModel{
		solver:   s,
		nodeVars: make([][]milp.Var, d.NumLayers()),
	}
	last := d.NumLayers() - 1

	for l, layer := range d.Layers {
		vars := make([]milp.Var, len(layer))
		var outgoing [][]milp.Var
		if l > 0 {
			outgoing = make([][]milp.Var, len(d.Layers[l-1]))
		}

		for i, node := range layer {
			ref := diagram.NodeRef{Layer: l, Index: i}
			x := s.AddBinary(ref.String(), p.Resistance(node.Pred))
			vars[i] = x
			if l == 0 {
				continue
			}

			arcs := d.IncomingArcs(ref)
			incoming := make([]milp.Var, 0, len(arcs))
			for _, arc := range arcs {
				y := s.AddBinary(fmt.Sprintf("%s-%s-%s", arc.Parent, arc.Child, arc.Kind), 0)
				m.arcVars = append(m.arcVars, arcVar{arc: arc, v: y})
				incoming = append(incoming, y)
				outgoing[arc.Parent.Index] = append(outgoing[arc.Parent.Index], y)

				// arc only out of a selected parent
				parent := m.nodeVars[l-1][arc.Parent.Index]
				if err := s.AddConstraint([]milp.Term{{Var: y, Coeff: 1}, {Var: parent, Coeff: -1}}, milp.LessEqual, 0); err != nil {
					return nil, err
				}
			}

			// any selected incoming arc selects the node
			terms := milp.Sum(incoming...)
			terms = append(terms, milp.Term{Var: x, Coeff: -float64(len(incoming))})
			if err := s.AddConstraint(terms, milp.LessEqual, 0); err != nil {
				return nil, err
			}
			// no selected incoming arc, no node
			terms = []milp.Term{{Var: x, Coeff: 1}}
			for _, y := range incoming {
				terms = append(terms, milp.Term{Var: y, Coeff: -1})
			}
			if err := s.AddConstraint(terms, milp.LessEqual, 0); err != nil {
				return nil, err
			}
		}
		m.nodeVars[l] = vars

		if l == 0 || l == last {
			if err := s.AddConstraint(milp.Sum(vars...), milp.GreaterEqual, 1); err != nil {
				return nil, err
			}
		}

		if l > 0 {
			for j, parent := range m.nodeVars[l-1] {
				terms := milp.Sum(outgoing[j]...)
				terms = append(terms, milp.Term{Var: parent, Coeff: -1})
				if err := s.AddConstraint(terms, milp.GreaterEqual, 0); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

// Selection is a solved SelectionModel.
type Selection struct {
	Nodes     []diagram.NodeRef
	Arcs      []diagram.Arc
	Objective float64
}

// Solve minimises total resistance and rounds each variable to 0/1.
func (m *SelectionModel) Solve(ctx context.Context) (Selection, error) {
	sol, err := m.solver.Minimize(ctx)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %w", ErrSolverInfeasible, err)
	}

	sel := Selection{Objective: sol.Objective}
	for l, vars := range m.nodeVars {
		for i, v := range vars {
			if sol.Selected(v) {
				sel.Nodes = append(sel.Nodes, diagram.NodeRef{Layer: l, Index: i})
			}
		}
	}
	for _, av := range m.arcVars {
		if sol.Selected(av.v) {
			sel.Arcs = append(sel.Arcs, av.arc)
		}
	}
	return sel, nil
}

// mip solves the selection model for the whole diagram and activates every
// selected node. Selected nodes are root-reachable through selected arcs and
// are marked connected.
func mip(d *diagram.Diagram, l int, p diagram.Policy, newSolver milp.Factory) (Outcome, error) {
	out := Outcome{Layer: l, Heuristic: MIP}

	model, err := BuildSelectionModel(d, p, newSolver())
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrSolverInfeasible, err)
	}
	sel, err := model.Solve(context.Background())
	if err != nil {
		return out, err
	}

	for _, ref := range sel.Nodes {
		node := d.Node(ref)
		out.bump(node, p)
		node.Connected = true
	}
	return out, nil
}
