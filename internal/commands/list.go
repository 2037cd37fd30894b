package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todotrack/internal/config"
	"todotrack/internal/exitcode"
	"todotrack/internal/output"
	"todotrack/internal/tracker"
	"todotrack/internal/views"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todotrack` (no args) and `todotrack list --filter <f>`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "todotrack list [--filter all|pending|completed]" }
func (c *ListCmd) NeedsTracker() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", string(views.FilterAll), "")
	fs.StringVar(&c.filter, "f", string(views.FilterAll), "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter := views.FilterAll
	if c.filter != "" {
		f, err := views.ParseFilter(c.filter)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		filter = f
	}

	if !loadTasks(ctx, cfg, tr, errOut) {
		return exitcode.SyncError
	}

	if filter != views.FilterAll {
		output.FormatFilterHeader(out, filter)
	}

	// Numbers are positions in the full list so they stay valid for
	// toggle and rm whatever the filter.
	shown := 0
	for i, task := range tr.Tasks() {
		if !filter.Matches(task) {
			continue
		}
		output.FormatTask(out, i+1, task)
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}

	return exitcode.Success
}
