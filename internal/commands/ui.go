package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todotrack/internal/config"
	"todotrack/internal/exitcode"
	"todotrack/internal/tracker"
	"todotrack/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd opens the interactive terminal view.
type UICmd struct{}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return []string{"tui"} }
func (c *UICmd) Synopsis() string   { return "Open the interactive task view" }
func (c *UICmd) Usage() string      { return "todotrack ui" }
func (c *UICmd) NeedsTracker() bool { return true }
func (c *UICmd) Interactive() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintln(errOut, "error: ui takes no arguments")
		return exitcode.UserError
	}
	if err := ui.Run(ctx, tr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
