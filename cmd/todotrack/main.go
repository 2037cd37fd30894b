// Package main is the entry point for the todotrack CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kratos/kratos/v2/log"

	"todotrack/internal/backend/googleauth"
	"todotrack/internal/backend/sheets"
	"todotrack/internal/backend/webapp"
	"todotrack/internal/cache"
	"todotrack/internal/cli"
	"todotrack/internal/commands"
	"todotrack/internal/config"
	"todotrack/internal/service"
	"todotrack/internal/tracker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newTracker)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newTracker wires the configured backend and cache into a tracker.
func newTracker(ctx context.Context, cfg *config.Config, logger log.Logger) (*tracker.Tracker, error) {
	remote, err := newRemote(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dir := cfg.CacheDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	c, err := cache.Open(cfg.Settings.Cache.Driver, dir)
	if err != nil {
		return nil, err
	}

	return tracker.New(tracker.Options{
		Remote:    remote,
		Cache:     c,
		Logger:    logger,
		MockDelay: cfg.Settings.MockDelay,
	}), nil
}

// newRemote returns nil when no backend is configured.
func newRemote(ctx context.Context, cfg *config.Config) (service.Service, error) {
	s := cfg.Settings
	if !s.RemoteConfigured() {
		return nil, nil
	}

	switch s.Backend {
	case config.BackendSheets:
		httpClient, err := googleauth.HTTPClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client, err := sheets.New(ctx, httpClient, s.SpreadsheetID, s.SheetName)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		var httpClient *http.Client
		if cfg.HasOAuthClient() && cfg.HasToken() {
			if c, err := googleauth.HTTPClient(ctx, cfg); err == nil {
				httpClient = c
			}
		}
		return webapp.New(s.Endpoint, httpClient), nil
	}
}
