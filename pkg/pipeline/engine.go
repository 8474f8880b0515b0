package pipeline

import (
	"context"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
	"github.com/dd0wney/cluso-stitch/pkg/handback"
)

// FrontierEngine consumes a stitched diagram. The exact Pareto-frontier
// computation lives behind this interface.
type FrontierEngine interface {
	Process(ctx context.Context, pid int, d *diagram.Diagram, h handback.Handback) error
}

// HandbackEngine writes each handback to disk for an external frontier
// engine to pick up.
type HandbackEngine struct {
	Writer *handback.Writer
}

// Process implements FrontierEngine.
func (e HandbackEngine) Process(_ context.Context, pid int, _ *diagram.Diagram, h handback.Handback) error {
	return e.Writer.Write(pid, h)
}

// EngineFunc adapts a function to FrontierEngine.
type EngineFunc func(ctx context.Context, pid int, d *diagram.Diagram, h handback.Handback) error

// Process implements FrontierEngine.
func (f EngineFunc) Process(ctx context.Context, pid int, d *diagram.Diagram, h handback.Handback) error {
	return f(ctx, pid, d, h)
}
