package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todotrack/internal/config"
	"todotrack/internal/exitcode"
	"todotrack/internal/service"
	"todotrack/internal/tracker"
)

func init() {
	Register(&RemindCmd{})
}

// RemindCmd asks the backend to send a reminder email.
type RemindCmd struct{}

func (c *RemindCmd) Name() string       { return "remind" }
func (c *RemindCmd) Aliases() []string  { return nil }
func (c *RemindCmd) Synopsis() string   { return "Send a morning or evening reminder email" }
func (c *RemindCmd) Usage() string      { return "todotrack remind morning|evening" }
func (c *RemindCmd) NeedsTracker() bool { return true }

func (c *RemindCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RemindCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: reminder type required (morning or evening)")
		return exitcode.UserError
	}
	kind, err := service.ParseReminderType(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	msg, err := tr.SendReminder(ctx, kind)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.SyncError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, msg)
	}
	return exitcode.Success
}
