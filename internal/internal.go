package internal

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
)

// Partition divides a range of size elements into workers contiguous
// batches and returns the half-open batch [low, high) of the worker
// with the given index, relative to 0.
//
// Every worker receives size / workers elements. The last worker
// additionally receives the size % workers remaining elements, so that
// the batches of all workers together cover [0, size) exactly once.
// If workers > size, all workers except the last one receive empty
// batches.
//
// Partition panics if size < 0, workers < 1, or index is not in [0,
// workers).
func Partition(size, workers, index int) (low, high int) {
	switch {
	case size < 0:
		panic(fmt.Sprintf("invalid range size: %v", size))
	case workers < 1:
		panic(fmt.Sprintf("invalid number of workers: %v", workers))
	case index < 0 || index >= workers:
		panic(fmt.Sprintf("invalid worker index: %v of %v", index, workers))
	}
	chunk := size / workers
	low = index * chunk
	high = low + chunk
	if index == workers-1 {
		high += size % workers
	}
	return
}

type runtimeError struct{ error }

func (runtimeError) RuntimeError() {}

// WrapPanic adds stack trace information to a recovered panic.
func WrapPanic(p interface{}) interface{} {
	if p != nil {
		s := fmt.Sprintf("%v\n%s\nrethrown at", p, debug.Stack())
		if _, isError := p.(error); isError {
			r := errors.New(s)
			if _, isRuntimeError := p.(runtime.Error); isRuntimeError {
				return runtimeError{r}
			}
			return r
		}
		return s
	}
	return nil
}
