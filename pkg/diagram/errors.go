package diagram

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed diagrams
var (
	ErrEmptyDiagram     = errors.New("diagram has no layers")
	ErrEmptyLayer       = errors.New("layer has no nodes")
	ErrOrphanNode       = errors.New("node has no parent reference")
	ErrParentOutOfRange = errors.New("parent reference out of range")
)

// ValidationError locates a structural problem in a diagram.
type ValidationError struct {
	Ref   NodeRef
	Cause error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("diagram node %s: %v", e.Ref, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Validate checks the structural invariants the stitching heuristics rely on:
// at least one layer, no empty layer, and every node outside layer 0 has at
// least one in-range parent reference.
func (d *Diagram) Validate() error {
	if d == nil || len(d.Layers) == 0 {
		return ErrEmptyDiagram
	}

	for l, layer := range d.Layers {
		if len(layer) == 0 {
			return &ValidationError{Ref: NodeRef{Layer: l}, Cause: ErrEmptyLayer}
		}
		if l == 0 {
			continue
		}
		width := len(d.Layers[l-1])
		for i, n := range layer {
			ref := NodeRef{Layer: l, Index: i}
			if len(n.OneParents)+len(n.ZeroParents) == 0 {
				return &ValidationError{Ref: ref, Cause: ErrOrphanNode}
			}
			for _, p := range n.OneParents {
				if p < 0 || p >= width {
					return &ValidationError{Ref: ref, Cause: fmt.Errorf("%w: one-arc parent %d, width %d", ErrParentOutOfRange, p, width)}
				}
			}
			for _, p := range n.ZeroParents {
				if p < 0 || p >= width {
					return &ValidationError{Ref: ref, Cause: fmt.Errorf("%w: zero-arc parent %d, width %d", ErrParentOutOfRange, p, width)}
				}
			}
		}
	}
	return nil
}
