// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"todotrack/internal/config"
	"todotrack/internal/tracker"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsTracker returns true if the command works on the task list.
	// Commands like help, version, login, logout return false.
	NeedsTracker() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// tr is nil if NeedsTracker() returns false. It has not been loaded yet.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int
}

// Interactive is implemented by commands that take over the terminal.
// Their logs go to the debug log file instead of stderr.
type Interactive interface {
	Interactive() bool
}
