// Package parallel solves a relaxation problem with a persistent pool
// of goroutines that share one grid and meet at a reusable barrier
// between phases.
//
// The pool is created once per run. Each worker is bound to a fixed
// partition of the interior indices and executes every phase of every
// sweep pair on that partition, waiting at the barrier after each
// phase. This yields one creation and termination per worker and two
// rendezvous per sweep pair.
package parallel

import (
	"fmt"
	gosync "sync"

	"go.uber.org/zap"

	"github.com/exascience/relax/grid"
	"github.com/exascience/relax/internal"
	"github.com/exascience/relax/sync"
)

// Spawn invokes f for each worker index in [0, workers), each in its
// own goroutine, and returns only when all invocations have
// terminated.
//
// Goroutines are started by recursively halving the index range, so
// the start-up latency grows logarithmically with the number of
// workers.
//
// If one or more invocations panic, the corresponding goroutines
// recover the panics, and Spawn eventually panics with the left-most
// recovered panic value. Spawn joins all goroutines before it panics,
// also when the invocation on the calling goroutine panics.
//
// Spawn panics if workers < 1.
func Spawn(workers int, f func(index int)) {
	if workers < 1 {
		panic(fmt.Sprintf("invalid number of workers: %v", workers))
	}
	var recur func(int, int)
	recur = func(low, high int) {
		if high-low == 1 {
			f(low)
			return
		}
		mid := low + (high-low)/2
		var p interface{}
		var wg gosync.WaitGroup
		wg.Add(1)
		go func() {
			defer func() {
				p = internal.WrapPanic(recover())
				wg.Done()
			}()
			recur(mid, high)
		}()
		func() {
			defer wg.Wait()
			recur(low, mid)
		}()
		if p != nil {
			panic(p)
		}
	}
	recur(0, workers)
}

// A Pool is the persistent-worker strategy. The zero Pool is valid and
// does not log.
type Pool struct {
	// Logger receives debug events about worker lifecycles. If nil,
	// nothing is logged.
	Logger *zap.Logger
}

func (pool *Pool) logger() *zap.Logger {
	if pool.Logger == nil {
		return zap.NewNop()
	}
	return pool.Logger
}

// Name returns "threads".
func (pool *Pool) Name() string {
	return "threads"
}

// NewGrid allocates a grid on the Go heap, which all goroutines of the
// pool share.
func (pool *Pool) NewGrid(n int) (*grid.Grid, error) {
	return grid.Allocate(n)
}

/*
Run executes pairs sweep pairs on g with the given number of workers.

Each worker computes its partition once, then repeatedly executes
phase A, waits at the barrier, executes phase B, and waits at the
barrier again. Workers with an empty partition perform no updates but
still wait at the barrier in every phase.

Run never returns an error, since starting a goroutine cannot fail. If
a worker panics, it breaks the barrier so that its peers stop at their
next rendezvous, and Run eventually panics with the recovered value.

Run panics if workers < 1.
*/
func (pool *Pool) Run(g *grid.Grid, workers, pairs int) error {
	logger := pool.logger()
	barrier := sync.NewBarrier(workers)
	Spawn(workers, func(index int) {
		low, high := grid.Interior(g.N, workers, index)
		log := logger.With(zap.Int("worker_id", index), zap.Int("low", low), zap.Int("high", high))
		log.Debug("worker started")
		defer func() {
			if p := recover(); p != nil {
				barrier.Break()
				panic(p)
			}
		}()
		for pair := 0; pair < pairs; pair++ {
			for _, phase := range grid.Phases {
				g.Update(phase, low, high)
				if !barrier.Wait() {
					log.Debug("worker stopped on broken barrier", zap.Int("pair", pair))
					return
				}
			}
		}
		log.Debug("worker stopped")
	})
	return nil
}
