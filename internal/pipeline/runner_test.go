package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"wheelwright/internal/history"
	"wheelwright/internal/pipeline"
	"wheelwright/internal/testsupport"
)

type recordingHandler struct {
	name  string
	calls *[]string
	err   error
}

func (h *recordingHandler) Name() string { return h.name }

func (h *recordingHandler) Execute(ctx context.Context, run *pipeline.Run) (string, error) {
	*h.calls = append(*h.calls, h.name)
	if h.err != nil {
		return "", h.err
	}
	return "ok", nil
}

func TestRunExecutesHandlersInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	var calls []string
	handlers := []pipeline.Handler{
		&recordingHandler{name: pipeline.StepClean, calls: &calls},
		&recordingHandler{name: pipeline.StepManifest, calls: &calls},
		&recordingHandler{name: pipeline.StepPackage, calls: &calls},
	}

	runner := pipeline.NewRunner(cfg, store, nil, handlers)
	run, err := runner.Run(testContext(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{pipeline.StepClean, pipeline.StepManifest, pipeline.StepPackage}
	if len(calls) != len(want) {
		t.Fatalf("executed %d handlers, want %d: %v", len(calls), len(want), calls)
	}
	for i, name := range want {
		if calls[i] != name {
			t.Fatalf("handler %d = %q, want %q", i, calls[i], name)
		}
	}

	stored, err := store.GetRun(testContext(t), run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if stored.Status != history.StatusSucceeded {
		t.Fatalf("run status = %q, want %q", stored.Status, history.StatusSucceeded)
	}
}

func TestRunHaltsAtFirstFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	scanErr := errors.New("scan blew up")
	var calls []string
	handlers := []pipeline.Handler{
		&recordingHandler{name: pipeline.StepClean, calls: &calls},
		&recordingHandler{name: pipeline.StepManifest, calls: &calls, err: scanErr},
		&recordingHandler{name: pipeline.StepPackage, calls: &calls},
	}

	runner := pipeline.NewRunner(cfg, store, nil, handlers)
	run, err := runner.Run(testContext(t))
	if !errors.Is(err, scanErr) {
		t.Fatalf("Run error = %v, want %v", err, scanErr)
	}

	for _, name := range calls {
		if name == pipeline.StepPackage {
			t.Fatal("package step executed after manifest failure")
		}
	}

	steps, err := store.StepsForRun(testContext(t), run.ID)
	if err != nil {
		t.Fatalf("StepsForRun: %v", err)
	}
	byName := make(map[string]history.Step, len(steps))
	for _, step := range steps {
		byName[step.Name] = step
	}
	if byName[pipeline.StepManifest].Status != history.StatusFailed {
		t.Fatalf("manifest step status = %q, want %q", byName[pipeline.StepManifest].Status, history.StatusFailed)
	}
	if byName[pipeline.StepPackage].Status != history.StatusSkipped {
		t.Fatalf("package step status = %q, want %q", byName[pipeline.StepPackage].Status, history.StatusSkipped)
	}

	stored, err := store.GetRun(testContext(t), run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if stored.Status != history.StatusFailed {
		t.Fatalf("run status = %q, want %q", stored.Status, history.StatusFailed)
	}
	if stored.Error == "" {
		t.Fatal("failed run recorded without an error message")
	}
}

type cancellingHandler struct {
	name   string
	cancel context.CancelFunc
}

func (h *cancellingHandler) Name() string { return h.name }

func (h *cancellingHandler) Execute(ctx context.Context, run *pipeline.Run) (string, error) {
	h.cancel()
	return "", ctx.Err()
}

func TestInterruptedRunIsJournaledAsFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	var calls []string
	handlers := []pipeline.Handler{
		&recordingHandler{name: pipeline.StepClean, calls: &calls},
		&cancellingHandler{name: pipeline.StepManifest, cancel: cancel},
		&recordingHandler{name: pipeline.StepPackage, calls: &calls},
	}

	runner := pipeline.NewRunner(cfg, store, nil, handlers)
	run, err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want %v", err, context.Canceled)
	}

	stored, err := store.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if stored.Status != history.StatusFailed {
		t.Fatalf("run status after cancellation = %q, want %q", stored.Status, history.StatusFailed)
	}
	if stored.Error == "" {
		t.Fatal("cancelled run recorded without an error message")
	}

	steps, err := store.StepsForRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("StepsForRun: %v", err)
	}
	byName := make(map[string]history.Step, len(steps))
	for _, step := range steps {
		byName[step.Name] = step
	}
	if byName[pipeline.StepManifest].Status != history.StatusFailed {
		t.Fatalf("manifest step status = %q, want %q", byName[pipeline.StepManifest].Status, history.StatusFailed)
	}
	if byName[pipeline.StepPackage].Status != history.StatusSkipped {
		t.Fatalf("package step status = %q, want %q", byName[pipeline.StepPackage].Status, history.StatusSkipped)
	}
}

func TestRunRefusesWhenLockHeld(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire lock: locked=%v err=%v", locked, err)
	}
	defer lock.Unlock()

	var calls []string
	runner := pipeline.NewRunner(cfg, nil, nil, []pipeline.Handler{
		&recordingHandler{name: pipeline.StepClean, calls: &calls},
	})
	if _, err := runner.Run(testContext(t)); !errors.Is(err, pipeline.ErrBuildInProgress) {
		t.Fatalf("Run error = %v, want %v", err, pipeline.ErrBuildInProgress)
	}
	if len(calls) != 0 {
		t.Fatalf("handlers executed while lock held: %v", calls)
	}
}

func TestFullPipelineIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	// Seed stale artifacts so the first clean has something to remove.
	for _, dir := range []string{"build", "dist", "demo.egg-info"} {
		testsupport.MkdirAll(t, filepath.Join(cfg.Project.Root, dir))
	}

	handlers := []pipeline.Handler{
		pipeline.NewCleanStep(cfg),
		pipeline.NewManifestStep(cfg, &testsupport.StubGenerator{Content: "requests==2.31.0\n"}, nil),
		pipeline.NewPackageStep(cfg, &testsupport.StubBuilder{Files: []string{"demo-1.0.0.tar.gz", "demo-1.0.0-py3-none-any.whl"}}, nil),
	}

	for attempt := 1; attempt <= 2; attempt++ {
		runner := pipeline.NewRunner(cfg, store, nil, handlers)
		run, err := runner.Run(testContext(t))
		if err != nil {
			t.Fatalf("attempt %d: Run: %v", attempt, err)
		}
		if len(run.Artifacts) != 2 {
			t.Fatalf("attempt %d: %d artifacts, want 2", attempt, len(run.Artifacts))
		}
		if run.ManifestPath == "" {
			t.Fatalf("attempt %d: manifest path not recorded", attempt)
		}
	}

	runs, err := store.RecentRuns(testContext(t), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("%d recorded runs, want 2", len(runs))
	}
	for _, run := range runs {
		if run.Status != history.StatusSucceeded {
			t.Fatalf("run %s status = %q, want %q", run.ID, run.Status, history.StatusSucceeded)
		}
	}
}

func TestManifestStepReportsChanges(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	testsupport.WriteFile(t, cfg.ManifestPath(), "flask==2.0.0\nrequests==2.30.0\n")

	step := pipeline.NewManifestStep(cfg, &testsupport.StubGenerator{Content: "requests==2.31.0\nnumpy==1.26.0\n"}, nil)
	run := &pipeline.Run{}
	if _, err := step.Execute(testContext(t), run); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	changes := run.ManifestChanges
	if len(changes.Added) != 1 || changes.Added[0].Name != "numpy" {
		t.Fatalf("added = %v, want numpy", changes.Added)
	}
	if len(changes.Removed) != 1 || changes.Removed[0].Name != "flask" {
		t.Fatalf("removed = %v, want flask", changes.Removed)
	}
	if len(changes.Changed) != 1 || changes.Changed[0].Name != "requests" {
		t.Fatalf("changed = %v, want requests", changes.Changed)
	}
}

func TestCleanStepTwiceRemovesNothingSecondTime(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MkdirAll(t, filepath.Join(cfg.Project.Root, "build"))
	testsupport.WriteFile(t, filepath.Join(cfg.Project.Root, "demo.egg-info", "PKG-INFO"), "Name: demo\n")

	step := pipeline.NewCleanStep(cfg)

	run := &pipeline.Run{}
	if _, err := step.Execute(testContext(t), run); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if len(run.Removed) == 0 {
		t.Fatal("first clean removed nothing")
	}
	for _, path := range run.Removed {
		if _, err := os.Lstat(path); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s still exists after clean", path)
		}
	}

	second := &pipeline.Run{}
	if _, err := step.Execute(testContext(t), second); err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if len(second.Removed) != 0 {
		t.Fatalf("second clean removed %v, want nothing", second.Removed)
	}
}
