package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"wheelwright/internal/logging"
	"wheelwright/internal/testsupport"
)

func testLogger() *slog.Logger {
	return logging.NewNop()
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := testLogger()

	first, err := newDaemon(cfg, store, logger)
	if err != nil {
		t.Fatalf("first daemon: %v", err)
	}
	defer first.Close()

	if _, err := newDaemon(cfg, store, logger); err == nil {
		t.Fatal("expected second daemon to refuse the lock")
	}
}

func TestDaemonRunFailsPreflight(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	d, err := newDaemon(cfg, store, testLogger())
	if err != nil {
		t.Fatalf("newDaemon: %v", err)
	}
	defer d.Close()

	// No pyproject.toml or setup.py exists in the project root.
	err = d.Run(testContext(t))
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	if !strings.Contains(err.Error(), "preflight checks failed") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "Project definition") {
		t.Fatalf("expected project definition failure, got: %v", err)
	}
}

func TestDaemonLockFileLivesInStateDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	d, err := newDaemon(cfg, store, testLogger())
	if err != nil {
		t.Fatalf("newDaemon: %v", err)
	}
	defer d.Close()

	want := filepath.Join(cfg.Paths.StateDir, "wheelwrightd.lock")
	if d.lock.Path() != want {
		t.Fatalf("lock path = %s, want %s", d.lock.Path(), want)
	}
}
