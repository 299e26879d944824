//go:build !linux

package forkjoin

import "errors"

var errNoSharedMemory = errors.New("shared memory segments are only supported on linux")

// A Segment is a System V shared memory segment. It is only available
// on linux.
type Segment struct {
	ID int
}

// NewSegment always fails on this platform.
func NewSegment(values int) (*Segment, error) {
	return nil, errNoSharedMemory
}

// AttachSegment always fails on this platform.
func AttachSegment(id, values int) (*Segment, error) {
	return nil, errNoSharedMemory
}

func (s *Segment) Floats() []float64 { return nil }

func (s *Segment) Detach() error { return errNoSharedMemory }

func (s *Segment) Remove() error { return errNoSharedMemory }

func (s *Segment) Release() error { return errNoSharedMemory }
