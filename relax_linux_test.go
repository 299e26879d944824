//go:build linux

package relax_test

import (
	"os"
	"testing"

	"github.com/docker/docker/pkg/reexec"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/exascience/relax"
	"github.com/exascience/relax/forkjoin"
	"github.com/exascience/relax/parallel"
)

func TestMain(m *testing.M) {
	if reexec.Init() {
		return
	}
	os.Exit(m.Run())
}

func TestStrategiesAgree(t *testing.T) {
	const n, sweeps = 31, 7
	for _, workers := range []int{1, 3, 4, 30, 32} {
		cfg := relax.Config{N: n, Sweeps: sweeps, Workers: workers}
		threads, err := (&relax.Solver{Strategy: &parallel.Pool{}}).Solve(cfg)
		require.NoError(t, err)
		procs, err := (&relax.Solver{Strategy: &forkjoin.Strategy{}}).Solve(cfg)
		require.NoError(t, err)
		require.True(t, floats.Equal(threads.Current, procs.Current), "workers=%d", workers)
	}
}

func TestForkJoinGolden(t *testing.T) {
	strategy := &forkjoin.Strategy{}
	result, err := (&relax.Solver{Strategy: strategy}).Solve(relax.Config{N: 4, Sweeps: 2, Workers: 2})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0.015625, 0.03125, 0.03125, 0}, result.Current)
	require.EqualValues(t, 4, strategy.Spawned())
}

func TestForkJoinOddSweepsTruncate(t *testing.T) {
	const n, workers = 17, 3
	even := &forkjoin.Strategy{}
	want, err := (&relax.Solver{Strategy: even}).Solve(relax.Config{N: n, Sweeps: 4, Workers: workers})
	require.NoError(t, err)
	odd := &forkjoin.Strategy{}
	got, err := (&relax.Solver{Strategy: odd}).Solve(relax.Config{N: n, Sweeps: 5, Workers: workers})
	require.NoError(t, err)
	require.Equal(t, want.Current, got.Current)
	require.EqualValues(t, 2*2*workers, even.Spawned())
	require.EqualValues(t, 2*2*workers, odd.Spawned())
}
