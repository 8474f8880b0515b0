package milp

import (
	"context"
	"fmt"
	"math"

	"github.com/crillab/gophersat/solver"
)

// DefaultObjectiveScale quantises real objective coefficients for the
// pseudo-boolean optimiser, which only accepts integer weights.
const DefaultObjectiveScale = 1e6

const integralTolerance = 1e-9

// PBSolver optimises binary programs with gophersat's pseudo-boolean CDCL
// solver. Constraint coefficients must be integral; objective coefficients
// are scaled and rounded. Every variable must occur in at least one
// non-trivial constraint.
type PBSolver struct {
	scale      float64
	names      []string
	objective  []float64
	constrs    []solver.PBConstr
	used       []bool
	infeasible bool
}

// NewPBSolver creates an empty model. A non-positive scale selects
// DefaultObjectiveScale.
func NewPBSolver(scale float64) *PBSolver {
	if scale <= 0 {
		scale = DefaultObjectiveScale
	}
	return &PBSolver{scale: scale}
}

// PBFactory returns a Factory producing PBSolver models.
func PBFactory(scale float64) Factory {
	return func() Solver { return NewPBSolver(scale) }
}

// AddBinary implements Solver.
func (s *PBSolver) AddBinary(name string, obj float64) Var {
	s.names = append(s.names, name)
	s.objective = append(s.objective, obj)
	s.used = append(s.used, false)
	return Var(len(s.names) - 1)
}

// AddConstraint implements Solver.
func (s *PBSolver) AddConstraint(terms []Term, sense Sense, rhs float64) error {
	coeffs := make(map[Var]int, len(terms))
	order := make([]Var, 0, len(terms))
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(s.names) {
			return fmt.Errorf("%w: %d", ErrUnknownVariable, t.Var)
		}
		c, err := integral(t.Coeff)
		if err != nil {
			return fmt.Errorf("variable %s: %w", s.names[t.Var], err)
		}
		if _, seen := coeffs[t.Var]; !seen {
			order = append(order, t.Var)
		}
		coeffs[t.Var] += c
	}
	n, err := integral(rhs)
	if err != nil {
		return fmt.Errorf("right-hand side: %w", err)
	}

	switch sense {
	case GreaterEqual:
		s.addAtLeast(order, coeffs, n, 1)
	case LessEqual:
		s.addAtLeast(order, coeffs, -n, -1)
	case Equal:
		s.addAtLeast(order, coeffs, n, 1)
		s.addAtLeast(order, coeffs, -n, -1)
	default:
		return fmt.Errorf("unsupported constraint sense %v", sense)
	}
	return nil
}

// addAtLeast records sign*sum(coeffs) >= n, moving negative weights onto
// negated literals: w*x = w + |w|*(not x) for w < 0.
func (s *PBSolver) addAtLeast(order []Var, coeffs map[Var]int, n int, sign int) {
	lits := make([]int, 0, len(order))
	weights := make([]int, 0, len(order))
	total := 0
	for _, v := range order {
		w := sign * coeffs[v]
		if w == 0 {
			continue
		}
		lit := int(v) + 1
		if w < 0 {
			lit = -lit
			w = -w
			n += w
		}
		lits = append(lits, lit)
		weights = append(weights, w)
		total += w
	}

	if n <= 0 {
		return // trivially satisfied
	}
	if n > total {
		s.infeasible = true
		return
	}
	for _, lit := range lits {
		if lit < 0 {
			lit = -lit
		}
		s.used[lit-1] = true
	}
	s.constrs = append(s.constrs, solver.GtEq(lits, weights, n))
}

// Minimize implements Solver.
func (s *PBSolver) Minimize(ctx context.Context) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}
	if s.infeasible {
		return Solution{}, ErrInfeasible
	}
	for v, ok := range s.used {
		if !ok {
			return Solution{}, fmt.Errorf("%w: %s", ErrUnusedVariable, s.names[v])
		}
	}
	if len(s.names) == 0 {
		return NewSolution(0, nil), nil
	}

	pb := solver.ParsePBConstrs(s.constrs)

	costLits := make([]solver.Lit, 0, len(s.objective))
	costWeights := make([]int, 0, len(s.objective))
	for v, obj := range s.objective {
		w := int(math.Round(obj * s.scale))
		if w == 0 {
			continue
		}
		lit := int32(v + 1)
		if w < 0 {
			// obj*x = obj + |obj|*(not x); the constant does not move the optimum
			lit = -lit
			w = -w
		}
		costLits = append(costLits, solver.IntToLit(lit))
		costWeights = append(costWeights, w)
	}

	var sv *solver.Solver
	if len(costLits) > 0 {
		pb.SetCostFunc(costLits, costWeights)
		sv = solver.New(pb)
		if cost := sv.Minimize(); cost < 0 {
			return Solution{}, ErrInfeasible
		}
	} else {
		sv = solver.New(pb)
		if status := sv.Solve(); status != solver.Sat {
			return Solution{}, ErrInfeasible
		}
	}

	model := sv.Model()
	values := make([]float64, len(s.names))
	objective := 0.0
	for v := range values {
		if v < len(model) && model[v] {
			values[v] = 1
			objective += s.objective[v]
		}
	}
	return NewSolution(objective, values), nil
}

func integral(x float64) (int, error) {
	r := math.Round(x)
	if math.Abs(x-r) > integralTolerance {
		return 0, fmt.Errorf("%w: %g", ErrNonIntegral, x)
	}
	return int(r), nil
}
