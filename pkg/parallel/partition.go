package parallel

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")
	// ErrEmptyRange is returned when an id range has from > to.
	ErrEmptyRange = errors.New("invalid id range")
)

// MaxWorkers is the maximum number of workers allowed in a run.
const MaxWorkers = math.MaxInt32

// Partition splits the ids [from, to) round-robin over workers: worker rank
// r receives from+r, from+r+workers, ... Ranks with nothing to do get an
// empty slice. A non-positive worker count means one worker.
func Partition(from, to, workers int) ([][]int, error) {
	if from > to {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrEmptyRange, from, to)
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	shares := make([][]int, workers)
	for rank := range shares {
		shares[rank] = Share(from, to, rank, workers)
	}
	return shares, nil
}

// Share returns the ids of [from, to) owned by rank out of workers.
func Share(from, to, rank, workers int) []int {
	if workers <= 0 || rank < 0 || rank >= workers {
		return nil
	}
	ids := make([]int, 0, (to-from+workers-1)/workers)
	for id := from + rank; id < to; id += workers {
		ids = append(ids, id)
	}
	return ids
}
