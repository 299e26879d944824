package main

import (
	"os"

	"github.com/docker/docker/pkg/reexec"

	"github.com/exascience/relax/cmd/relax/commands"
)

// Overridden with -ldflags "-X main.version=..." by release builds.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Child processes of the procs strategy re-execute this binary and
	// must not reach the command line parser.
	if reexec.Init() {
		return
	}

	commands.SetVersionInfo(version, commit, date)

	// The commands have already reported the error on stderr.
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
