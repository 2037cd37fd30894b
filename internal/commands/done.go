package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todotrack/internal/config"
	"todotrack/internal/exitcode"
	"todotrack/internal/tracker"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command. Completed tasks go back to
// Pending; anything else is marked Completed.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Toggle a task between pending and completed" }
func (c *ToggleCmd) Usage() string      { return "todotrack toggle <ref>" }
func (c *ToggleCmd) NeedsTracker() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if _, err := ParseTaskRef(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !loadTasks(ctx, cfg, tr, errOut) {
		return exitcode.SyncError
	}

	task, code, ok := parseAndResolve(tr, args, errOut)
	if !ok {
		return code
	}

	res, err := tr.Toggle(ctx, task.ID)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return reportResult(cfg, res, out, errOut)
}
