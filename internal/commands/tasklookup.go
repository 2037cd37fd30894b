package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todotrack/internal/config"
	"todotrack/internal/exitcode"
	"todotrack/internal/service"
	"todotrack/internal/tracker"
)

// errRefNotFound is returned by resolveTask for unknown references.
var errRefNotFound = errors.New("task not found")

// loadTasks loads the task list into tr. A failed remote load is not fatal:
// the tracker has already fallen back to local data, so only a warning is
// printed. Returns false if the load was abandoned.
func loadTasks(ctx context.Context, cfg *config.Config, tr *tracker.Tracker, errOut io.Writer) bool {
	res := tr.Load(ctx)
	if res.Source == tracker.SourceNone {
		fmt.Fprintf(errOut, "error: %v\n", res.Err)
		return false
	}
	if res.Err != nil && !cfg.Quiet {
		fmt.Fprintf(errOut, "warning: %s (showing %s data; retry later)\n", res.Message(), res.Source)
	}
	return true
}

// resolveTask finds the task a reference points at.
func resolveTask(tr *tracker.Tracker, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		task, ok := tr.Task(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("%w: %s", errRefNotFound, ref.ID)
		}
		return task, nil
	}
	task, ok := tr.TaskAt(ref.Pos - 1)
	if !ok {
		return service.Task{}, fmt.Errorf("task number out of range: %d", ref.Pos)
	}
	return task, nil
}

// parseAndResolve parses args as a task reference and resolves it, printing
// errors the way every task command does. Returns the exit code to use when
// ok is false.
func parseAndResolve(tr *tracker.Tracker, args []string, errOut io.Writer) (task service.Task, code int, ok bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError, false
	}
	task, err = resolveTask(tr, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError, false
	}
	return task, exitcode.Success, true
}

// reportResult prints the outcome of a mutation and returns the exit code.
func reportResult(cfg *config.Config, res tracker.Result, out, errOut io.Writer) int {
	if res.Outcome == tracker.Reverted {
		fmt.Fprintf(errOut, "error: %s\n", res.Message())
		return exitcode.SyncError
	}
	if !cfg.Quiet {
		if res.Outcome == tracker.Local {
			fmt.Fprintln(out, "ok (local only)")
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
