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
	Register(&RmCmd{})
}

// RmCmd implements the rm command. It does not ask for confirmation.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "todotrack rm <ref>" }
func (c *RmCmd) NeedsTracker() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int {
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

	res, err := tr.Delete(ctx, task.ID)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return reportResult(cfg, res, out, errOut)
}
