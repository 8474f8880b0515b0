package parallel

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PanicError reports a panic recovered from a worker.
type PanicError struct {
	Rank  int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker %d panicked: %v", e.Rank, e.Value)
}

// RunRanks calls fn once per rank in its own goroutine and waits for all of
// them. The first error, or a recovered panic, cancels the context handed to
// the remaining ranks and is returned.
func RunRanks(ctx context.Context, workers int, fn func(ctx context.Context, rank int) error) error {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	g, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < workers; rank++ {
		rank := rank
		g.Go(func() (err error) {
			// Recover from panics so one bad instance cannot take down the run
			defer func() {
				if r := recover(); r != nil {
					err = &PanicError{Rank: rank, Value: r}
				}
			}()
			return fn(gctx, rank)
		})
	}
	return g.Wait()
}
