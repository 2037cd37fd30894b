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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todotrack help" }
func (c *HelpCmd) NeedsTracker() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText(DefaultRegistry))
	return exitcode.Success
}

func helpText(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  todotrack                      List all tasks\n")
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "  %s\n", cmd.Usage())
		line := "      " + cmd.Synopsis()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			line += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(`
A <ref> is the number shown by "todotrack list" or a task id.
Use id:<id> for ids made only of digits.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs (to debug.log in the config dir for ui)
`)
	return b.String()
}
