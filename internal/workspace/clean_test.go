package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"wheelwright/internal/workspace"
)

// seedTree creates files under root; parent directories are created as
// needed. Entries ending in "/" become empty directories.
func seedTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, path := range paths {
		full := filepath.Join(root, path)
		if len(path) > 0 && path[len(path)-1] == '/' {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", path, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir parent of %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func TestCleanWhenNothingExistsIsNoOp(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root, "exiflib/exif.py")

	removed, err := workspace.Clean(root, []string{"build", "dist", "*.egg-info"})
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", removed)
	}
	if _, err := os.Stat(filepath.Join(root, "exiflib", "exif.py")); err != nil {
		t.Fatalf("source tree should be untouched: %v", err)
	}
}

func TestCleanRemovesExactlyTheTargets(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root,
		"build/lib/exiflib/exif.py",
		"dist/exiflib-0.2.0.tar.gz",
		"exiflib.egg-info/PKG-INFO.txt",
		"exiflib/exif.py",
	)

	removed, err := workspace.Clean(root, []string{"build", "dist", "*.egg-info"})
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if len(removed) != 3 {
		t.Fatalf("expected 3 removals, got %v", removed)
	}
	for _, gone := range []string{"build", "dist", "exiflib.egg-info"} {
		if _, err := os.Stat(filepath.Join(root, gone)); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, stat err=%v", gone, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "exiflib", "exif.py")); err != nil {
		t.Fatalf("expected source tree preserved: %v", err)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root, "build/")

	if _, err := workspace.Clean(root, []string{"build"}); err != nil {
		t.Fatalf("first Clean returned error: %v", err)
	}
	removed, err := workspace.Clean(root, []string{"build"})
	if err != nil {
		t.Fatalf("second Clean returned error: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("second Clean should remove nothing, got %v", removed)
	}
}

func TestCleanRejectsEscapingPattern(t *testing.T) {
	root := t.TempDir()
	if _, err := workspace.Clean(root, []string{"/etc"}); err == nil {
		t.Fatal("expected error for absolute pattern")
	}
}

func TestCleanRejectsRootPattern(t *testing.T) {
	root := t.TempDir()
	seedTree(t, root, "build/")
	if _, err := workspace.Clean(root, []string{"."}); err == nil {
		t.Fatal("expected error for pattern resolving to project root")
	}
}
