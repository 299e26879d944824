// Package relax solves the one-dimensional boundary value problem
//
//	-u''(x) = x on (0, 1), u(0) = u(1) = 0
//
// by a fixed number of Jacobi relaxation sweeps on a grid of resolution
// n, distributing the interior grid indices over a number of workers
// that resynchronize between sweeps.
//
// The interesting parts are how the index space is partitioned without
// gaps or overlaps, how the two-phase update of a current and a
// scratch estimate avoids data races without locks, and how different
// worker models trade creation cost against synchronization cost.
//
// Relax provides the following subpackages:
//
// relax/grid provides the grid state and the stencil kernel.
//
// relax/parallel provides a strategy with a persistent pool of
// goroutines that meet at a reusable barrier between phases.
//
// relax/forkjoin provides a strategy that spawns ephemeral operating
// system processes for every phase, operating on a shared memory
// segment, and joins all of them before the next phase.
//
// relax/sequential provides a sequential strategy, for testing and
// debugging purposes.
//
// relax/sync provides the reusable barrier.
//
// The Solver in this package ties a strategy to a run: it allocates
// and initializes the grid, times the sweeps, and releases the grid.
package relax
