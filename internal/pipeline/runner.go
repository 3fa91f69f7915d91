package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"wheelwright/internal/config"
	"wheelwright/internal/history"
	"wheelwright/internal/logging"
	"wheelwright/internal/services"
)

// ErrBuildInProgress reports that another wheelwright process holds the
// project build lock.
var ErrBuildInProgress = errors.New("another build is already running for this project")

// Runner executes the configured handlers strictly in order. The first
// failure halts the run; later handlers never execute.
type Runner struct {
	cfg      *config.Config
	store    *history.Store
	logger   *slog.Logger
	handlers []Handler
}

// NewRunner constructs a runner over the given handler sequence. The store
// may be nil, in which case the run is not journaled.
func NewRunner(cfg *config.Config, store *history.Store, logger *slog.Logger, handlers []Handler) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, store: store, logger: logger, handlers: handlers}
}

// Run acquires the project build lock, executes every handler in order, and
// records the outcome in the history journal. The lock is held for the full
// duration so concurrent invocations against the same project fail fast.
func (r *Runner) Run(ctx context.Context) (*Run, error) {
	lock := flock.New(r.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire build lock %s: %w", r.cfg.LockPath(), err)
	}
	if !locked {
		return nil, ErrBuildInProgress
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release build lock", logging.Error(unlockErr))
		}
	}()

	run := &Run{ID: uuid.NewString(), Project: r.cfg.Project.Name}
	ctx = services.WithRunID(ctx, run.ID)
	runLogger := logging.WithRun(r.logger, run.ID)

	// Journal writes must outlive ctx: an interrupted run still has to be
	// recorded as failed, or history reports it as running forever.
	journalCtx := context.WithoutCancel(ctx)

	if err := r.beginRun(journalCtx, run); err != nil {
		return nil, err
	}

	runLogger.Info("build started",
		logging.String("project", run.Project),
		logging.Int("steps", len(r.handlers)))
	started := time.Now()

	for index, handler := range r.handlers {
		if err := ctx.Err(); err != nil {
			r.abort(journalCtx, run, runLogger, r.handlers[index:], err)
			return run, err
		}

		name := handler.Name()
		stepCtx := services.WithStep(ctx, name)
		stepLogger := logging.WithStep(runLogger, name)

		r.recordStepStart(journalCtx, run.ID, name, stepLogger)
		stepLogger.Info("step started")
		stepStarted := time.Now()

		detail, err := handler.Execute(stepCtx, run)
		if err != nil {
			stepLogger.Error("step failed",
				logging.Error(err),
				logging.Duration("elapsed", time.Since(stepStarted)))
			r.recordStepFinish(journalCtx, run.ID, name, history.StatusFailed, err.Error(), stepLogger)
			r.abort(journalCtx, run, runLogger, r.handlers[index+1:], err)
			return run, err
		}

		stepLogger.Info("step completed",
			logging.String("detail", detail),
			logging.Duration("elapsed", time.Since(stepStarted)))
		r.recordStepFinish(journalCtx, run.ID, name, history.StatusSucceeded, detail, stepLogger)
	}

	r.recordRunFinish(journalCtx, run.ID, history.StatusSucceeded, "", runLogger)
	runLogger.Info("build completed", logging.Duration("elapsed", time.Since(started)))
	return run, nil
}

// abort journals a failed run: the remaining handlers are marked skipped so
// the history makes clear they never executed.
func (r *Runner) abort(ctx context.Context, run *Run, logger *slog.Logger, remaining []Handler, cause error) {
	for _, handler := range remaining {
		name := handler.Name()
		r.recordStepStart(ctx, run.ID, name, logger)
		r.recordStepFinish(ctx, run.ID, name, history.StatusSkipped, "previous step failed", logger)
	}
	r.recordRunFinish(ctx, run.ID, history.StatusFailed, cause.Error(), logger)
}

func (r *Runner) beginRun(ctx context.Context, run *Run) error {
	if r.store == nil {
		return nil
	}
	if _, err := r.store.BeginRun(ctx, run.ID, run.Project); err != nil {
		return fmt.Errorf("record build start: %w", err)
	}
	return nil
}

func (r *Runner) recordStepStart(ctx context.Context, runID, name string, logger *slog.Logger) {
	if r.store == nil {
		return
	}
	if err := r.store.BeginStep(ctx, runID, name); err != nil {
		logger.Warn("failed to journal step start", logging.Error(err))
	}
}

func (r *Runner) recordStepFinish(ctx context.Context, runID, name string, status history.Status, detail string, logger *slog.Logger) {
	if r.store == nil {
		return
	}
	if err := r.store.FinishStep(ctx, runID, name, status, detail); err != nil {
		logger.Warn("failed to journal step finish", logging.Error(err))
	}
}

func (r *Runner) recordRunFinish(ctx context.Context, runID string, status history.Status, errMessage string, logger *slog.Logger) {
	if r.store == nil {
		return
	}
	if err := r.store.FinishRun(ctx, runID, status, errMessage); err != nil {
		logger.Warn("failed to journal build finish", logging.Error(err))
	}
}
