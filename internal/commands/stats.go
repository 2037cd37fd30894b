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
	Register(&StatsCmd{})
	Register(&SkillsCmd{})
}

// StatsCmd prints completion counts and percentage.
type StatsCmd struct{}

func (c *StatsCmd) Name() string       { return "stats" }
func (c *StatsCmd) Aliases() []string  { return []string{"progress"} }
func (c *StatsCmd) Synopsis() string   { return "Show completion progress" }
func (c *StatsCmd) Usage() string      { return "todotrack stats" }
func (c *StatsCmd) NeedsTracker() bool { return true }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if !loadTasks(ctx, cfg, tr, errOut) {
		return exitcode.SyncError
	}
	output.FormatProgress(out, views.Summarize(tr.Tasks()))
	return exitcode.Success
}

// SkillsCmd prints the skills learned from completed tasks.
type SkillsCmd struct{}

func (c *SkillsCmd) Name() string       { return "skills" }
func (c *SkillsCmd) Aliases() []string  { return nil }
func (c *SkillsCmd) Synopsis() string   { return "List skills from completed tasks" }
func (c *SkillsCmd) Usage() string      { return "todotrack skills" }
func (c *SkillsCmd) NeedsTracker() bool { return true }

func (c *SkillsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SkillsCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if !loadTasks(ctx, cfg, tr, errOut) {
		return exitcode.SyncError
	}

	skills := views.Skills(tr.Tasks())
	if len(skills) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no skills yet")
		}
		return exitcode.Success
	}
	output.FormatSkills(out, skills)
	return exitcode.Success
}
