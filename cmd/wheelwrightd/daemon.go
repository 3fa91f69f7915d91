package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"wheelwright/internal/config"
	"wheelwright/internal/history"
	"wheelwright/internal/logging"
	"wheelwright/internal/pipeline"
	"wheelwright/internal/preflight"
	"wheelwright/internal/watch"
)

// daemon owns the watcher and the pipeline runner. One instance per state
// directory; a second wheelwrightd refuses to start rather than double-build.
type daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	runner  *pipeline.Runner
	watcher *watch.Watcher
	lock    *flock.Flock
}

func newDaemon(cfg *config.Config, store *history.Store, logger *slog.Logger) (*daemon, error) {
	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "wheelwrightd.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another wheelwrightd is already running for this project")
	}

	handlers, err := pipeline.DefaultHandlers(cfg, logger)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	watcher, err := watch.New(cfg, logger)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	return &daemon{
		cfg:     cfg,
		logger:  logging.WithComponent(logger, "daemon"),
		runner:  pipeline.NewRunner(cfg, store, logger, handlers),
		watcher: watcher,
		lock:    lock,
	}, nil
}

// Run performs an initial build and then rebuilds on every debounced source
// change until ctx is cancelled. Build failures are logged and the daemon
// keeps watching.
func (d *daemon) Run(ctx context.Context) error {
	results := preflight.RunAll(ctx, d.cfg)
	if failed := preflight.Failed(results); len(failed) > 0 {
		for _, result := range results {
			if !result.Passed {
				d.logger.Error("preflight check failed",
					logging.String("check", result.Name),
					logging.String("detail", result.Detail))
			}
		}
		return fmt.Errorf("preflight checks failed: %s", strings.Join(failed, ", "))
	}

	if err := d.watcher.Start(ctx); err != nil {
		return err
	}

	d.build(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.watcher.Triggers():
			d.logger.Info("source change detected, rebuilding")
			d.build(ctx)
		}
	}
}

func (d *daemon) build(ctx context.Context) {
	run, err := d.runner.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrBuildInProgress):
		d.logger.Warn("build skipped", logging.Error(err))
	case err != nil:
		d.logger.Error("build failed", logging.Error(err))
	default:
		d.logger.Info("build succeeded",
			logging.String("run_id", run.ID),
			logging.Int("artifacts", len(run.Artifacts)))
	}
}

func (d *daemon) Close() error {
	if err := d.watcher.Close(); err != nil {
		d.logger.Warn("close watcher", logging.Error(err))
	}
	return d.lock.Unlock()
}
