package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"todotrack/internal/backend/googleauth"
	"todotrack/internal/commands"
	"todotrack/internal/config"
	"todotrack/internal/exitcode"
	"todotrack/internal/tracker"
)

// TrackerFactory creates a Tracker from config.
// Used to inject the backend and cache during dispatch.
type TrackerFactory func(ctx context.Context, cfg *config.Config, logger log.Logger) (*tracker.Tracker, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  TrackerFactory
}

// NewDispatcher creates a new dispatcher with the given registry and tracker factory.
func NewDispatcher(registry *commands.Registry, factory TrackerFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorMessage(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	if !cmd.NeedsTracker() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend available")
		return exitcode.UserError
	}

	logger, closeLog, err := NewLogger(cfg, isInteractive(cmd), errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer closeLog()

	tr, err := d.factory(ctx, cfg, logger)
	if err != nil {
		if errors.Is(err, googleauth.ErrNotLoggedIn) || errors.Is(err, googleauth.ErrNoOAuthClient) {
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer func() {
		if err := tr.Close(); err != nil {
			log.NewHelper(logger).Warnf("closing cache: %v", err)
		}
	}()

	return cmd.Run(ctx, cfg, tr, positionalArgs, out, errOut)
}

// flagErrorMessage rewrites flag package errors into the CLI's wording.
func flagErrorMessage(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + flagName
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}
	return errStr
}

func isInteractive(cmd commands.Command) bool {
	i, ok := cmd.(commands.Interactive)
	return ok && i.Interactive()
}

// NewLogger builds the logger handed to the tracker.
//
// Line-oriented commands log errors to errOut, or everything with --debug.
// Interactive commands own the terminal, so they log to the debug log file
// with --debug and nowhere otherwise.
func NewLogger(cfg *config.Config, interactive bool, errOut io.Writer) (log.Logger, func(), error) {
	noop := func() {}

	if interactive {
		if !cfg.Debug {
			return log.NewStdLogger(io.Discard), noop, nil
		}
		if err := cfg.EnsureDir(); err != nil {
			return nil, noop, fmt.Errorf("failed to create config directory: %w", err)
		}
		f, err := os.OpenFile(cfg.DebugLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open debug log: %w", err)
		}
		logger := log.With(log.NewStdLogger(f), "ts", log.Timestamp(time.DateTime))
		return logger, func() { _ = f.Close() }, nil
	}

	level := log.LevelError
	if cfg.Debug {
		level = log.LevelDebug
	}
	logger := log.With(log.NewStdLogger(errOut), "ts", log.Timestamp(time.DateTime))
	return log.NewFilter(logger, log.FilterLevel(level)), noop, nil
}
