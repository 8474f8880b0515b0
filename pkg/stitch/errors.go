package stitch

import (
	"errors"
	"fmt"
)

// Failure kinds. A stitch failure at any layer drops the instance.
var (
	// ErrUnknownHeuristic is a configuration error raised before any mutation
	ErrUnknownHeuristic = errors.New("unknown stitching heuristic")
	// ErrUnreachableLayerZero means the lookahead heuristic has no preceding
	// layer to seed from
	ErrUnreachableLayerZero = errors.New("no preceding layer to stitch from")
	// ErrSolverInfeasible means the selection model could not be solved
	ErrSolverInfeasible = errors.New("selection model infeasible")
	// ErrNoPath means the graph search found no candidate path
	ErrNoPath = errors.New("no stitching path")
	// ErrNothingActivated means a force-enable found every node already on
	ErrNothingActivated = errors.New("no node activated")
	// ErrInvalidConfig wraps validation failures of Config
	ErrInvalidConfig = errors.New("invalid stitching config")
)

// Error describes a failed stitch at one layer.
type Error struct {
	Layer     int
	Heuristic Heuristic
	Cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("stitch layer %d (%s): %v", e.Layer, e.Heuristic, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}
