package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New(4)
	assert.Equal(t, 4, g.N)
	assert.Equal(t, 0.0625, g.StepSquared)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, g.Forcing)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, g.Current)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, g.Scratch)
	assert.NoError(t, g.Release())
}

func TestNewPanics(t *testing.T) {
	assert.PanicsWithValue(t, "invalid grid resolution: 0", func() { New(0) })
}

func TestWrap(t *testing.T) {
	buf := make([]float64, Size(2))
	for i := range buf {
		buf[i] = 42
	}
	g := Wrap(2, buf, nil)
	g.Init()
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0.5, 1}, buf)

	// Arrays must not grow into each other.
	assert.Equal(t, 3, cap(g.Current))
	assert.Equal(t, 3, cap(g.Scratch))

	assert.Panics(t, func() { Wrap(2, make([]float64, 8), nil) })
}

func TestReleaseOnce(t *testing.T) {
	calls := 0
	errRelease := errors.New("release failed")
	g := Wrap(3, make([]float64, Size(3)), func() error {
		calls++
		return errRelease
	})
	require.ErrorIs(t, g.Release(), errRelease)
	require.ErrorIs(t, g.Release(), errRelease)
	assert.Equal(t, 1, calls)
}

func TestSnapshot(t *testing.T) {
	g := New(2)
	g.Current[1] = 3
	s := g.Snapshot()
	g.Current[1] = 4
	assert.Equal(t, []float64{0, 3, 0}, s)
}

func TestInterior(t *testing.T) {
	for n := 1; n <= 40; n++ {
		for workers := 1; workers <= 32; workers++ {
			next := 1
			for index := 0; index < workers; index++ {
				low, high := Interior(n, workers, index)
				require.Equal(t, next, low)
				require.LessOrEqual(t, low, high)
				next = high
			}
			require.Equal(t, n, next, "n=%d workers=%d", n, workers)
		}
	}
}

func TestUpdateGolden(t *testing.T) {
	g := New(4)

	g.Update(PhaseA, 1, 4)
	assert.Equal(t, []float64{0, 0.0078125, 0.015625, 0.0234375, 0}, g.Scratch)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, g.Current)

	g.Update(PhaseB, 1, 4)
	assert.Equal(t, []float64{0, 0.015625, 0.03125, 0.03125, 0}, g.Current)
}

func TestUpdateSplitMatchesWhole(t *testing.T) {
	whole, split := New(9), New(9)
	for pair := 0; pair < 5; pair++ {
		for _, p := range Phases {
			whole.Update(p, 1, 9)
			split.Update(p, 1, 3)
			split.Update(p, 3, 3)
			split.Update(p, 3, 9)
		}
	}
	assert.Equal(t, whole.Current, split.Current)
	assert.Equal(t, whole.Scratch, split.Scratch)
}

func TestUpdateBoundaries(t *testing.T) {
	g := New(6)
	for pair := 0; pair < 10; pair++ {
		g.Update(PhaseA, 1, 6)
		g.Update(PhaseB, 1, 6)
	}
	assert.Zero(t, g.Current[0])
	assert.Zero(t, g.Current[6])
	assert.Zero(t, g.Scratch[0])
	assert.Zero(t, g.Scratch[6])
}

func TestUpdatePanics(t *testing.T) {
	g := New(4)
	assert.Panics(t, func() { g.Update(PhaseA, 0, 2) })
	assert.Panics(t, func() { g.Update(PhaseA, 1, 5) })
	assert.Panics(t, func() { g.Update(PhaseA, 3, 2) })
	assert.PanicsWithValue(t, "invalid phase: Phase(7)", func() { g.Update(Phase(7), 1, 2) })
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "A", PhaseA.String())
	assert.Equal(t, "B", PhaseB.String())
}

func TestBytes(t *testing.T) {
	bytes, err := Bytes(4)
	require.NoError(t, err)
	assert.Equal(t, 3*5*8, bytes)

	_, err = Bytes(MaxN + 1)
	assert.ErrorIs(t, err, ErrTooLarge)

	// Beyond any machine's memory, but addressable.
	_, err = Bytes(MaxN)
	if physicalMemory() > 0 {
		assert.ErrorIs(t, err, ErrTooLarge)
	}
}

func TestAllocate(t *testing.T) {
	g, err := Allocate(4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, g.Forcing)
	assert.NoError(t, g.Release())

	g, err = Allocate(MaxN + 1)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, g)
}
