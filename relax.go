package relax

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// A Result is the outcome of a completed run.
type Result struct {
	// ID identifies the run in log output.
	ID string

	// Current is a copy of the final current estimate, of length N+1.
	Current []float64

	// Elapsed is the time spent executing sweeps. It excludes
	// allocation, initialization, and release of the grid.
	Elapsed time.Duration
}

// A Solver executes runs with a given strategy.
type Solver struct {
	Strategy Strategy

	// Logger receives debug events about runs. If nil, nothing is
	// logged.
	Logger *zap.Logger
}

func (s *Solver) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

/*
Solve validates cfg, allocates and initializes a grid, executes
Pairs(cfg.Sweeps) sweep pairs with cfg.Workers workers, and releases
the grid.

The grid is released exactly once, also when the strategy fails. The
returned result holds a copy of the final estimate, since the grid
itself is no longer valid after Solve returns.

Configuration errors are reported before any resource is allocated and
wrap ErrInvalidConfig.
*/
func (s *Solver) Solve(cfg Config) (result *Result, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New().String()
	logger := s.logger().With(
		zap.String("run_id", id),
		zap.String("strategy", s.Strategy.Name()),
	)
	logger.Debug("run started",
		zap.Int("n", cfg.N),
		zap.Int("sweeps", cfg.Sweeps),
		zap.Int("pairs", Pairs(cfg.Sweeps)),
		zap.Int("workers", cfg.Workers),
	)

	g, err := s.Strategy.NewGrid(cfg.N)
	if err != nil {
		return nil, fmt.Errorf("allocating grid: %w", err)
	}
	defer func() {
		if rerr := g.Release(); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("releasing grid: %w", rerr))
			result = nil
		}
	}()

	start := time.Now()
	if err = s.Strategy.Run(g, cfg.Workers, Pairs(cfg.Sweeps)); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	logger.Debug("run finished", zap.Duration("elapsed", elapsed))
	return &Result{ID: id, Current: g.Snapshot(), Elapsed: elapsed}, nil
}

// Exact returns the analytic solution u(x) = (x - x^3) / 6 of the
// problem at the n+1 grid points x = i/n.
func Exact(n int) []float64 {
	result := make([]float64, n+1)
	h := 1.0 / float64(n)
	for i := range result {
		x := float64(i) * h
		result[i] = (x - x*x*x) / 6
	}
	return result
}

// MaxError returns the largest absolute difference between an estimate
// of length n+1 and the analytic solution at the same grid points.
func MaxError(current []float64) float64 {
	return floats.Distance(current, Exact(len(current)-1), math.Inf(1))
}
