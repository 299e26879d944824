//go:build linux

package forkjoin

import (
	"fmt"
	"unsafe"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

// A Segment is a System V shared memory segment holding float64
// values, attached to the address space of the current process.
//
// Any process that knows the ID of a segment can attach it with
// AttachSegment, and then observes the same memory.
type Segment struct {
	// ID identifies the segment across processes.
	ID int

	data   []byte
	values int
}

const float64Size = int(unsafe.Sizeof(float64(0)))

// NewSegment creates a private segment large enough for the given
// number of values and attaches it.
func NewSegment(values int) (*Segment, error) {
	if values < 1 {
		panic(fmt.Sprintf("invalid segment size: %v", values))
	}
	size := values * float64Size
	id, err := unix.SysvShmGet(unix.IPC_PRIVATE, size, unix.IPC_CREAT|0o600)
	if err != nil {
		return nil, fmt.Errorf("shmget of %d bytes: %w", size, err)
	}
	s, err := AttachSegment(id, values)
	if err != nil {
		_, rmErr := unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return nil, multierr.Append(err, rmErr)
	}
	return s, nil
}

// AttachSegment attaches an existing segment and checks that it holds
// at least the given number of values.
func AttachSegment(id, values int) (*Segment, error) {
	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("shmat of segment %d: %w", id, err)
	}
	if len(data) < values*float64Size {
		err = fmt.Errorf("segment %d holds %d bytes, need %d", id, len(data), values*float64Size)
		return nil, multierr.Append(err, unix.SysvShmDetach(data))
	}
	return &Segment{ID: id, data: data, values: values}, nil
}

// Floats returns the attached memory as a slice of float64 values. The
// slice must not be used after Detach.
func (s *Segment) Floats() []float64 {
	return unsafe.Slice((*float64)(unsafe.Pointer(&s.data[0])), s.values)
}

// Detach unmaps the segment from the current process. The segment
// itself remains available to other processes.
func (s *Segment) Detach() error {
	if err := unix.SysvShmDetach(s.data); err != nil {
		return fmt.Errorf("shmdt of segment %d: %w", s.ID, err)
	}
	return nil
}

// Remove marks the segment for destruction once it is no longer
// attached to any process.
func (s *Segment) Remove() error {
	if _, err := unix.SysvShmCtl(s.ID, unix.IPC_RMID, nil); err != nil {
		return fmt.Errorf("removal of segment %d: %w", s.ID, err)
	}
	return nil
}

// Release detaches and removes the segment.
func (s *Segment) Release() error {
	return multierr.Append(s.Detach(), s.Remove())
}
