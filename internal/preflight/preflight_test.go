package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"wheelwright/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckProjectLayout(t *testing.T) {
	root := t.TempDir()

	result := CheckProjectLayout(root)
	if result.Passed {
		t.Fatal("expected failure for empty project")
	}

	if err := os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte("[build-system]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result = CheckProjectLayout(root)
	if !result.Passed {
		t.Fatalf("expected pass with pyproject.toml, got: %s", result.Detail)
	}
	if result.Detail != "pyproject.toml" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckProjectLayoutSetupFallback(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "setup.py"), []byte("from setuptools import setup\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckProjectLayout(root)
	if !result.Passed {
		t.Fatalf("expected pass with setup.py, got: %s", result.Detail)
	}
}

func TestRunAllReportsMissingRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Project.Root = filepath.Join(t.TempDir(), "missing")
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = ""

	results := RunAll(testContext(t), &cfg)
	failed := Failed(results)
	if len(failed) == 0 {
		t.Fatal("expected failures for missing project root")
	}

	seen := make(map[string]bool, len(failed))
	for _, name := range failed {
		seen[name] = true
	}
	if !seen["Project root"] {
		t.Fatalf("expected Project root failure, got %v", failed)
	}
}
