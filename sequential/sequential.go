// Package sequential provides a sequential implementation of the
// relaxation strategies provided by the parallel and forkjoin
// packages. This is useful for testing and debugging, and as a
// baseline for timing.
//
// It is not recommended to use the implementation of this package for
// any other purpose, because a plain loop over the interior indices is
// simpler for regular sequential programs.
package sequential

import "github.com/exascience/relax/grid"

// Strategy executes all phases on the calling goroutine. The zero
// Strategy is valid.
type Strategy struct{}

// Name returns "sequential".
func (Strategy) Name() string {
	return "sequential"
}

// NewGrid allocates a grid on the Go heap.
func (Strategy) NewGrid(n int) (*grid.Grid, error) {
	return grid.Allocate(n)
}

// Run executes pairs sweep pairs on g. Within each phase, the
// partitions of the given number of workers are updated one after the
// other in worker order, so that the partitioning is exercised exactly
// as in the parallel strategies.
func (Strategy) Run(g *grid.Grid, workers, pairs int) error {
	for pair := 0; pair < pairs; pair++ {
		for _, phase := range grid.Phases {
			for index := 0; index < workers; index++ {
				low, high := grid.Interior(g.N, workers, index)
				g.Update(phase, low, high)
			}
		}
	}
	return nil
}
