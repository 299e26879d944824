package relax

import (
	"errors"
	"fmt"

	"github.com/exascience/relax/grid"
)

// MaxWorkers is the largest supported number of workers.
const MaxWorkers = 32

// ErrInvalidConfig is wrapped by all errors returned by
// Config.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// A Config describes a single run.
type Config struct {
	// N is the grid resolution. The grid has N+1 points, of which
	// the N-1 interior points are updated.
	N int

	// Sweeps is the requested number of sweeps. Sweeps are executed
	// in pairs; see Pairs.
	Sweeps int

	// Workers is the number of workers, at most MaxWorkers.
	Workers int
}

// Validate checks that all fields are positive, that N does not exceed
// grid.MaxN, and that Workers does not exceed MaxWorkers.
func (c Config) Validate() error {
	switch {
	case c.N < 1:
		return fmt.Errorf("%w: grid resolution must be positive, got %d", ErrInvalidConfig, c.N)
	case c.N > grid.MaxN:
		return fmt.Errorf("%w: grid resolution must not exceed %d, got %d", ErrInvalidConfig, grid.MaxN, c.N)
	case c.Sweeps < 1:
		return fmt.Errorf("%w: sweep count must be positive, got %d", ErrInvalidConfig, c.Sweeps)
	case c.Workers < 1:
		return fmt.Errorf("%w: worker count must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.Workers > MaxWorkers:
		return fmt.Errorf("%w: worker count must not exceed %d, got %d", ErrInvalidConfig, MaxWorkers, c.Workers)
	}
	return nil
}

/*
Pairs returns the number of sweep pairs executed for the given number
of sweeps, which is sweeps / 2.

Each pair consists of phase A, which computes the scratch estimate
from the current one, and phase B, which computes the current
estimate from the scratch one. An odd sweep count is truncated: 5
sweeps execute the same 2 pairs as 4 sweeps, and 1 sweep executes no
work at all.
*/
func Pairs(sweeps int) int {
	return sweeps / 2
}

/*
A Strategy distributes the phases of a run over workers and
synchronizes them.

NewGrid allocates an initialized grid of resolution n in memory that
the strategy's workers can access. Run executes the given number of
sweep pairs on a grid obtained from NewGrid of the same strategy, and
returns only when all workers have finished all phases. Each worker
must complete a phase before any worker starts the next one.
*/
type Strategy interface {
	Name() string
	NewGrid(n int) (*grid.Grid, error)
	Run(g *grid.Grid, workers, pairs int) error
}
