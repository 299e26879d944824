package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// NewRootCmd builds the command tree. Each call returns an independent
// tree, so tests can execute commands with their own arguments and
// output streams.
func NewRootCmd() *cobra.Command {
	opts := &runOptions{}
	rootCmd := &cobra.Command{
		Use:   "relax",
		Short: "Relax - parallel Jacobi relaxation kernel",
		Long: `Relax solves the boundary value problem -u'' = x, u(0) = u(1) = 0 on a
grid of resolution n by a fixed number of Jacobi sweeps, distributed over
a number of workers.

Each subcommand selects how the workers are created and synchronized, and
prints the time spent in the sweeps in seconds.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	if commit != "" {
		rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return printError(cmd.ErrOrStderr(), "Invalid arguments", err.Error())
	})

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log worker lifecycle events to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.report, "report", false, "print the max error against the analytic solution to stderr")

	for _, kind := range strategyKinds {
		rootCmd.AddCommand(newStrategyCmd(kind, opts))
	}
	return rootCmd
}

// Execute builds the command tree and runs it with the process
// arguments. This is called by main.main().
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	var printed *printedError
	if err != nil && !errors.As(err, &printed) {
		// Errors detected by Cobra itself, such as unknown commands
		return printError(rootCmd.ErrOrStderr(), "Invalid arguments", err.Error())
	}
	return err
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
