package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todotrack/internal/config"
	"todotrack/internal/exitcode"
	"todotrack/internal/tracker"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	due    string
	skills string
}

// SetDraftFields sets the due date and skills (for testing).
func (c *AddCmd) SetDraftFields(due, skills string) {
	c.due = due
	c.skills = skills
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "todotrack add [--due YYYY-MM-DD] [--skills \"a, b\"] <description...>" }
func (c *AddCmd) NeedsTracker() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.skills, "skills", "", "")
	fs.StringVar(&c.skills, "s", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int {
	draft := tracker.Draft{
		Description: strings.Join(args, " "),
		DueDate:     c.due,
		Skills:      c.skills,
	}
	if strings.TrimSpace(draft.Description) == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}

	if !loadTasks(ctx, cfg, tr, errOut) {
		return exitcode.SyncError
	}

	res, err := tr.Add(ctx, draft)
	if err != nil {
		// Validation failure; nothing was changed.
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return reportResult(cfg, res, out, errOut)
}
