/*
Package forkjoin solves a relaxation problem with ephemeral operating
system processes that operate on a shared memory segment.

No worker outlives a phase. For every phase of every sweep pair, the
parent process starts one child process per worker, each of which
attaches the segment, updates its partition for that phase, detaches,
and exits. The parent waits for all children of a phase before it
starts the children of the next phase. A run therefore costs 2 *
pairs * workers process creations, in contrast to the single pool
creation of the parallel package.

Child processes are started by re-executing the current binary with
github.com/docker/docker/pkg/reexec. Programs that use this package
must call reexec.Init at the very beginning of main, and return
immediately if it reports true:

	func main() {
		if reexec.Init() {
			return
		}
		...
	}

Test binaries do the same in TestMain.
*/
package forkjoin

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	gosync "sync"
	"sync/atomic"

	"github.com/docker/docker/pkg/reexec"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/exascience/relax/grid"
)

// WorkerName is the name under which the child process entry point is
// registered with reexec.
const WorkerName = "relax-forkjoin-phase"

func init() {
	reexec.Register(WorkerName, phaseWorker)
}

// ErrForeignGrid is returned by Run for grids that were not allocated
// by the same Strategy.
var ErrForeignGrid = errors.New("grid is not backed by a segment of this strategy")

// phaseWorker is the entry point of a child process.
func phaseWorker() {
	if err := runPhase(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", WorkerName, err)
		os.Exit(1)
	}
	os.Exit(0)
}

// PhaseArgs returns the command line arguments of a child process that
// executes the given phase on [low, high) of the grid of resolution n
// stored in the segment with the given ID.
func PhaseArgs(id, n int, phase grid.Phase, low, high int) []string {
	return []string{
		WorkerName,
		strconv.Itoa(id),
		strconv.Itoa(n),
		strconv.Itoa(int(phase)),
		strconv.Itoa(low),
		strconv.Itoa(high),
	}
}

func runPhase(args []string) (err error) {
	if len(args) != 5 {
		return fmt.Errorf("expected 5 arguments, got %d", len(args))
	}
	var values [5]int
	for i, arg := range args {
		if values[i], err = strconv.Atoi(arg); err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
	}
	id, n, phase, low, high := values[0], values[1], grid.Phase(values[2]), values[3], values[4]
	if n < 1 {
		return fmt.Errorf("invalid grid resolution: %d", n)
	}
	if phase != grid.PhaseA && phase != grid.PhaseB {
		return fmt.Errorf("invalid phase: %d", values[2])
	}
	if low < 1 || high > n || high < low {
		return fmt.Errorf("invalid interior range: %d:%d", low, high)
	}
	segment, err := AttachSegment(id, grid.Size(n))
	if err != nil {
		return err
	}
	g := grid.Wrap(n, segment.Floats(), segment.Detach)
	g.Update(phase, low, high)
	return g.Release()
}

/*
A Strategy is the ephemeral-process strategy.

A Strategy allocates grids in shared memory segments and runs phases
on them in child processes. It can allocate and run several grids,
also concurrently.

The zero Strategy is valid and does not log. A Strategy must not be
copied after first use.
*/
type Strategy struct {
	// Logger receives debug events about spawned and joined phases.
	// If nil, nothing is logged.
	Logger *zap.Logger

	mutex    gosync.Mutex
	segments map[*grid.Grid]*Segment
	spawned  atomic.Int64
}

func (s *Strategy) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Name returns "procs".
func (s *Strategy) Name() string {
	return "procs"
}

// Spawned returns the total number of child processes that this
// strategy has started.
func (s *Strategy) Spawned() int64 {
	return s.spawned.Load()
}

// NewGrid allocates and initializes a grid of resolution n in a new
// shared memory segment. Releasing the grid detaches and removes the
// segment.
func (s *Strategy) NewGrid(n int) (*grid.Grid, error) {
	if _, err := grid.Bytes(n); err != nil {
		return nil, err
	}
	segment, err := NewSegment(grid.Size(n))
	if err != nil {
		return nil, err
	}
	var g *grid.Grid
	g = grid.Wrap(n, segment.Floats(), func() error {
		s.mutex.Lock()
		delete(s.segments, g)
		s.mutex.Unlock()
		return segment.Release()
	})
	g.Init()
	s.mutex.Lock()
	if s.segments == nil {
		s.segments = make(map[*grid.Grid]*Segment)
	}
	s.segments[g] = segment
	s.mutex.Unlock()
	s.logger().Debug("shared segment created", zap.Int("segment_id", segment.ID), zap.Int("n", n))
	return g, nil
}

func (s *Strategy) segment(g *grid.Grid) (*Segment, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	segment, ok := s.segments[g]
	return segment, ok
}

/*
Run executes pairs sweep pairs on g, which must have been allocated by
NewGrid of the same strategy.

The partitions of the workers are computed once. Each phase spawns
exactly one child per worker, including workers with an empty
partition, and then waits for all of them to exit.

If a child cannot be started, Run stops spawning, waits for the
children of the phase that have already started, and returns an
error; no retries are made and the run is not continued with fewer
workers. A child that exits unsuccessfully also makes Run return an
error after the phase is joined.
*/
func (s *Strategy) Run(g *grid.Grid, workers, pairs int) error {
	if workers < 1 {
		panic(fmt.Sprintf("invalid number of workers: %v", workers))
	}
	segment, ok := s.segment(g)
	if !ok {
		return ErrForeignGrid
	}
	partitions := make([][2]int, workers)
	for index := range partitions {
		low, high := grid.Interior(g.N, workers, index)
		partitions[index] = [2]int{low, high}
	}
	logger := s.logger().With(zap.Int("segment_id", segment.ID), zap.Int("workers", workers))
	for pair := 0; pair < pairs; pair++ {
		for _, phase := range grid.Phases {
			logger.Debug("phase started", zap.Int("pair", pair), zap.Stringer("phase", phase))
			if err := s.runPhase(segment.ID, g.N, phase, partitions); err != nil {
				return fmt.Errorf("sweep pair %d, phase %v: %w", pair, phase, err)
			}
			logger.Debug("phase joined", zap.Int("pair", pair), zap.Stringer("phase", phase))
		}
	}
	return nil
}

type child struct {
	index  int
	cmd    *exec.Cmd
	stderr bytes.Buffer
}

func (s *Strategy) runPhase(id, n int, phase grid.Phase, partitions [][2]int) (err error) {
	children := make([]*child, 0, len(partitions))
	for index, partition := range partitions {
		c := &child{index: index}
		args := PhaseArgs(id, n, phase, partition[0], partition[1])
		c.cmd = reexec.Command(args...)
		c.cmd.Stderr = &c.stderr
		if err = c.cmd.Start(); err != nil {
			err = fmt.Errorf("spawning worker %d: %w", index, err)
			break
		}
		s.spawned.Add(1)
		children = append(children, c)
	}
	for _, c := range children {
		if werr := c.cmd.Wait(); werr != nil {
			msg := strings.TrimSpace(c.stderr.String())
			err = multierr.Append(err, fmt.Errorf("worker %d: %w: %s", c.index, werr, msg))
		}
	}
	return err
}
