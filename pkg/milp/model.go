// Package milp describes binary integer programs independently of the solver
// that optimises them.
package milp

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors returned by solvers
var (
	ErrInfeasible      = errors.New("model is infeasible")
	ErrUnknownVariable = errors.New("unknown variable")
	ErrNonIntegral     = errors.New("coefficient is not integral")
	ErrUnusedVariable  = errors.New("variable appears in no constraint")
)

// Var is a handle to a binary decision variable.
type Var int

// Sense is the relation of a linear constraint.
type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Term is coefficient * variable.
type Term struct {
	Var   Var
	Coeff float64
}

// Solution holds variable values after a successful solve.
type Solution struct {
	Objective float64
	values    []float64
}

// NewSolution wraps per-variable values indexed by Var.
func NewSolution(objective float64, values []float64) Solution {
	return Solution{Objective: objective, values: values}
}

// Value returns the solved value of v, 0 for unknown handles.
func (s Solution) Value(v Var) float64 {
	if int(v) < 0 || int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

// Selected rounds the value of v to a 0/1 decision.
func (s Solution) Selected(v Var) bool {
	return s.Value(v) >= 0.5
}

// Solver is the capability a mixed-integer backend provides: binary
// variables, linear constraints, and minimisation of a linear objective.
type Solver interface {
	// AddBinary declares a 0/1 variable with objective coefficient obj.
	AddBinary(name string, obj float64) Var
	// AddConstraint adds sum(terms) <sense> rhs.
	AddConstraint(terms []Term, sense Sense, rhs float64) error
	// Minimize solves the model. Returns ErrInfeasible when no assignment
	// satisfies the constraints.
	Minimize(ctx context.Context) (Solution, error)
}

// Factory creates a fresh, empty solver model.
type Factory func() Solver

// Sum builds terms with coefficient 1 for every variable.
func Sum(vars ...Var) []Term {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coeff: 1}
	}
	return terms
}
