/*
Package grid provides the state of a one-dimensional boundary value
problem that is solved by relaxation, and the stencil kernel that
updates it.

A Grid of resolution n consists of three arrays of length n+1: the
current estimate, a scratch estimate, and a fixed forcing term. The
entries at index 0 and n of both estimates are boundary values that
are fixed at zero. Only the interior indices 1 to n-1 are ever written
by the kernel.

A Grid does not synchronize accesses to its arrays. Concurrent
updates are correct as long as each phase reads one estimate and
writes the other, writers of a phase use disjoint index ranges, and
all writers of a phase finish before any reader of the next phase
starts.
*/
package grid

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/exascience/relax/internal"
)

// A Grid holds the arrays and constants of a relaxation problem of
// resolution N.
//
// The zero Grid is not valid.
type Grid struct {
	// N is the resolution of the grid. All arrays have length N+1.
	N int

	// Current is the current estimate.
	Current []float64

	// Scratch receives the intermediate estimate of each sweep pair.
	Scratch []float64

	// Forcing is the forcing term, Forcing[i] = i/N.
	Forcing []float64

	// StepSquared is (1/N)^2.
	StepSquared float64

	once    sync.Once
	release func() error
	err     error
}

// Len returns the length of a single array of a grid of resolution
// n, which is n+1.
func Len(n int) int {
	return n + 1
}

// Size returns the number of float64 values a buffer must hold to back
// a grid of resolution n.
func Size(n int) int {
	return 3 * Len(n)
}

// MaxN is the largest grid resolution whose arrays can be addressed in
// bytes without overflowing int.
const MaxN = math.MaxInt/(3*8) - 1

// ErrTooLarge is returned when the arrays of a grid do not fit in
// memory.
var ErrTooLarge = errors.New("grid does not fit in memory")

// Bytes returns the number of bytes needed to back a grid of
// resolution n. It fails with ErrTooLarge if n exceeds MaxN, or if the
// size exceeds the physical memory of the machine, where that is known.
func Bytes(n int) (int, error) {
	if n > MaxN {
		return 0, fmt.Errorf("%w: resolution %d exceeds %d", ErrTooLarge, n, MaxN)
	}
	bytes := Size(n) * 8
	if total := physicalMemory(); total > 0 && uint64(bytes) > total {
		return 0, fmt.Errorf("%w: %d bytes requested, %d bytes of physical memory", ErrTooLarge, bytes, total)
	}
	return bytes, nil
}

// StepSquared returns the squared step size (1/n)^2 of a grid of
// resolution n.
func StepSquared(n int) float64 {
	h := 1.0 / float64(n)
	return h * h
}

// New allocates and initializes a grid of resolution n on the Go heap.
//
// New panics if n < 1.
func New(n int) *Grid {
	if n < 1 {
		panic(fmt.Sprintf("invalid grid resolution: %v", n))
	}
	g := Wrap(n, make([]float64, Size(n)), nil)
	g.Init()
	return g
}

// Allocate is like New, but reports grids that do not fit in memory
// with an error wrapping ErrTooLarge instead of failing in the runtime.
func Allocate(n int) (*Grid, error) {
	if _, err := Bytes(n); err != nil {
		return nil, err
	}
	return New(n), nil
}

/*
Wrap returns a grid of resolution n whose arrays are backed by buf,
which must hold exactly Size(n) values. The arrays are laid out in
the order current, scratch, forcing.

Wrap does not initialize the arrays; call Init for that. The release
function, if not nil, is invoked by the first call to Release, for
example to return buf to the memory it was obtained from.

Wrap panics if n < 1 or len(buf) != Size(n).
*/
func Wrap(n int, buf []float64, release func() error) *Grid {
	if n < 1 {
		panic(fmt.Sprintf("invalid grid resolution: %v", n))
	}
	if len(buf) != Size(n) {
		panic(fmt.Sprintf("invalid grid buffer size: %v, expected %v", len(buf), Size(n)))
	}
	l := Len(n)
	return &Grid{
		N:           n,
		Current:     buf[0:l:l],
		Scratch:     buf[l : 2*l : 2*l],
		Forcing:     buf[2*l : 3*l : 3*l],
		StepSquared: StepSquared(n),
		release:     release,
	}
}

// Init zeroes both estimates, including their boundaries, and sets
// the forcing term to Forcing[i] = i * (1/N).
func (g *Grid) Init() {
	h := 1.0 / float64(g.N)
	for i := range g.Current {
		g.Current[i] = 0
		g.Scratch[i] = 0
		g.Forcing[i] = float64(i) * h
	}
}

// Release invokes the release function passed to Wrap. Only the first
// call has an effect; subsequent calls return the same error value.
func (g *Grid) Release() error {
	g.once.Do(func() {
		if g.release != nil {
			g.err = g.release()
		}
	})
	return g.err
}

// Snapshot returns a copy of the current estimate that remains valid
// after the grid is released.
func (g *Grid) Snapshot() []float64 {
	result := make([]float64, len(g.Current))
	copy(result, g.Current)
	return result
}

// Interior returns the half-open range [low, high) of interior indices
// of a grid of resolution n that is assigned to the worker with the
// given index among workers.
//
// The ranges of all workers together cover [1, n) exactly once; the
// last worker absorbs the remainder of (n-1) / workers. See
// internal.Partition for the details.
func Interior(n, workers, index int) (low, high int) {
	low, high = internal.Partition(n-1, workers, index)
	return low + 1, high + 1
}
