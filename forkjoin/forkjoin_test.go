//go:build linux

package forkjoin

import (
	"os"
	"testing"

	"github.com/docker/docker/pkg/reexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/floats"

	"github.com/exascience/relax/grid"
	"github.com/exascience/relax/sequential"
)

func TestMain(m *testing.M) {
	if reexec.Init() {
		return
	}
	os.Exit(m.Run())
}

func TestSegmentSharedAcrossAttachments(t *testing.T) {
	s, err := NewSegment(4)
	require.NoError(t, err)

	other, err := AttachSegment(s.ID, 4)
	require.NoError(t, err)
	s.Floats()[2] = 1.5
	assert.Equal(t, 1.5, other.Floats()[2])
	require.NoError(t, other.Detach())

	require.NoError(t, s.Release())
	_, err = AttachSegment(s.ID, 4)
	assert.Error(t, err)
}

func TestAttachSegmentTooSmall(t *testing.T) {
	s, err := NewSegment(2)
	require.NoError(t, err)
	defer s.Release()

	_, err = AttachSegment(s.ID, 1024)
	assert.ErrorContains(t, err, "need 8192")
}

func TestRunGolden(t *testing.T) {
	var s Strategy
	g, err := s.NewGrid(4)
	require.NoError(t, err)
	defer g.Release()

	require.NoError(t, s.Run(g, 2, 1))
	assert.Equal(t, []float64{0, 0.0078125, 0.015625, 0.0234375, 0}, g.Scratch)
	assert.Equal(t, []float64{0, 0.015625, 0.03125, 0.03125, 0}, g.Current)
	assert.EqualValues(t, 4, s.Spawned())
}

func TestRunMatchesSequential(t *testing.T) {
	const n, pairs = 23, 3
	want := grid.New(n)
	require.NoError(t, sequential.Strategy{}.Run(want, 1, pairs))

	for _, workers := range []int{1, 2, 5, 22, 30} {
		var s Strategy
		g, err := s.NewGrid(n)
		require.NoError(t, err)

		require.NoError(t, s.Run(g, workers, pairs))
		assert.True(t, floats.Equal(want.Current, g.Current), "workers=%d", workers)
		assert.Zero(t, g.Current[0])
		assert.Zero(t, g.Current[n])
		assert.EqualValues(t, 2*pairs*workers, s.Spawned(), "workers=%d", workers)
		require.NoError(t, g.Release())
	}
}

func TestRunForeignGrid(t *testing.T) {
	var s Strategy
	assert.ErrorIs(t, s.Run(grid.New(4), 2, 1), ErrForeignGrid)

	g, err := s.NewGrid(4)
	require.NoError(t, err)
	require.NoError(t, g.Release())
	assert.ErrorIs(t, s.Run(g, 2, 1), ErrForeignGrid)
}

func TestRunLogsPhases(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := Strategy{Logger: zap.New(core)}
	g, err := s.NewGrid(6)
	require.NoError(t, err)
	defer g.Release()

	require.NoError(t, s.Run(g, 2, 2))
	assert.Equal(t, 4, logs.FilterMessage("phase started").Len())
	assert.Equal(t, 4, logs.FilterMessage("phase joined").Len())
}

func TestChildFailure(t *testing.T) {
	var s Strategy
	err := s.runPhase(-1, 4, grid.PhaseA, [][2]int{{1, 2}, {2, 4}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker 0")
	assert.Contains(t, err.Error(), "worker 1")
	assert.Contains(t, err.Error(), "shmat")
}

func TestRunPhaseArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"count", []string{"1", "2"}, "expected 5 arguments"},
		{"number", []string{"x", "4", "0", "1", "2"}, "argument 1"},
		{"resolution", []string{"1", "0", "0", "1", "1"}, "invalid grid resolution"},
		{"phase", []string{"1", "4", "2", "1", "2"}, "invalid phase"},
		{"range", []string{"1", "4", "0", "0", "2"}, "invalid interior range"},
		{"upper", []string{"1", "4", "0", "1", "5"}, "invalid interior range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runPhase(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPhaseArgs(t *testing.T) {
	assert.Equal(t,
		[]string{WorkerName, "7", "4", "1", "2", "4"},
		PhaseArgs(7, 4, grid.PhaseB, 2, 4))
}
