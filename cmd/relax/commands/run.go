package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exascience/relax"
	"github.com/exascience/relax/forkjoin"
	"github.com/exascience/relax/parallel"
	"github.com/exascience/relax/sequential"
)

type runOptions struct {
	verbose bool
	report  bool
}

type strategyKind struct {
	use   string
	short string
	build func(logger *zap.Logger) relax.Strategy
}

var strategyKinds = []strategyKind{
	{
		use:   "threads",
		short: "Persistent goroutine pool synchronized by a reusable barrier",
		build: func(logger *zap.Logger) relax.Strategy { return &parallel.Pool{Logger: logger} },
	},
	{
		use:   "procs",
		short: "Ephemeral processes per phase on shared memory, joined by the parent",
		build: func(logger *zap.Logger) relax.Strategy { return &forkjoin.Strategy{Logger: logger} },
	},
	{
		use:   "sequential",
		short: "Single goroutine reference implementation",
		build: func(*zap.Logger) relax.Strategy { return sequential.Strategy{} },
	},
}

func newStrategyCmd(kind strategyKind, opts *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   kind.use + " <n> <sweeps> <workers>",
		Short: kind.short,
		Long: kind.short + `.

  n        grid resolution, the grid has n+1 points (positive)
  sweeps   number of sweeps, executed in pairs; an odd count is truncated
  workers  number of workers (1 to ` + strconv.Itoa(relax.MaxWorkers) + `)`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(3)(cmd, args); err != nil {
				return printError(cmd.ErrOrStderr(), "Invalid arguments", "Usage: relax "+cmd.Use)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parseConfig(args)
			if err != nil {
				return printError(cmd.ErrOrStderr(), "Invalid arguments", err.Error())
			}

			logger, err := newLogger(opts.verbose)
			if err != nil {
				return printError(cmd.ErrOrStderr(), "Logger setup failed", err.Error())
			}
			defer func() { _ = logger.Sync() }()

			solver := relax.Solver{Strategy: kind.build(logger), Logger: logger}
			result, err := solver.Solve(cfg)
			if err != nil {
				return printError(cmd.ErrOrStderr(), "Run failed", err.Error())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", result.Elapsed.Seconds())
			if opts.report {
				fmt.Fprintf(cmd.ErrOrStderr(), "max error: %.6e\n", relax.MaxError(result.Current))
			}
			return nil
		},
	}
}

// parseConfig parses the three positional arguments as base-10
// integers and validates the resulting configuration.
func parseConfig(args []string) (relax.Config, error) {
	names := [...]string{"n", "sweeps", "workers"}
	var values [3]int
	for i, arg := range args {
		value, err := strconv.Atoi(arg)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) {
				err = numErr.Err
			}
			return relax.Config{}, fmt.Errorf("%s: %q is not an integer: %w", names[i], arg, err)
		}
		values[i] = value
	}
	cfg := relax.Config{N: values[0], Sweeps: values[1], Workers: values[2]}
	return cfg, cfg.Validate()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
