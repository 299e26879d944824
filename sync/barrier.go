/*
Package sync provides synchronization primitives similar to the sync
package of Go's standard library, however here with a focus on
parallel performance rather than concurrency. So far, this package
only provides a reusable barrier for groups of goroutines that
execute a sequence of phases in lock step. For other synchronization
primitives, such as condition variables, mutual exclusion locks,
object pools, or atomic memory primitives, please use the standard
library.
*/
package sync

import (
	"fmt"
	"sync"
)

/*
A Barrier is a reusable rendezvous point for a fixed number of
parties.

Each call to Wait blocks until exactly Parties goroutines have called
Wait since the barrier was last released, and then releases all of
them simultaneously. The barrier is then immediately ready for the
next round, without reinitialization.

All memory writes performed by a party before it calls Wait are
visible to all parties after they return from the same round of Wait.

The zero Barrier is not valid. A Barrier must not be copied after
first use.
*/
type Barrier struct {
	mutex      sync.Mutex
	cond       sync.Cond
	parties    int
	waiting    int
	generation uint64
	broken     bool
}

/*
NewBarrier returns a barrier for the given number of parties.

NewBarrier panics if parties < 1.
*/
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic(fmt.Sprintf("invalid number of parties: %v", parties))
	}
	b := &Barrier{parties: parties}
	b.cond.L = &b.mutex
	return b
}

// Parties returns the number of parties required to release the
// barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

/*
Wait blocks until all parties have called Wait in the current round.

Wait returns true when the round completed normally, and false if the
barrier is or becomes broken before the round completes. Once a
barrier is broken, all subsequent calls to Wait return false
immediately.
*/
func (b *Barrier) Wait() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.broken {
		return false
	}
	generation := b.generation
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		return true
	}
	for generation == b.generation && !b.broken {
		b.cond.Wait()
	}
	return generation != b.generation
}

/*
Break marks the barrier as broken and releases all goroutines that are
currently blocked in Wait.

Break is used when a party cannot continue, for example because it
panicked, so that its peers do not block forever.
*/
func (b *Barrier) Break() {
	b.mutex.Lock()
	b.broken = true
	b.mutex.Unlock()
	b.cond.Broadcast()
}

// Broken reports whether Break has been called.
func (b *Barrier) Broken() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.broken
}
