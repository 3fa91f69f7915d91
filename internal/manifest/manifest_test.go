package manifest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wheelwright/internal/manifest"
)

func TestParseSkipsCommentsAndOptions(t *testing.T) {
	input := `# generated by pipreqs
pandas==2.2.0
--index-url https://pypi.org/simple

Pillow>=10.0  # imaging
`
	reqs, err := manifest.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %v", reqs)
	}
	if reqs[0].Name != "pandas" || reqs[0].Spec != "==2.2.0" {
		t.Fatalf("unexpected first requirement: %+v", reqs[0])
	}
	if reqs[1].Name != "Pillow" || reqs[1].Spec != ">=10.0" {
		t.Fatalf("unexpected second requirement: %+v", reqs[1])
	}
}

func TestParseLastDuplicateWins(t *testing.T) {
	input := "requests==2.31.0\nRequests==2.32.0\n"
	reqs, err := manifest.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(reqs) != 1 || reqs[0].Spec != "==2.32.0" {
		t.Fatalf("expected later duplicate to win, got %v", reqs)
	}
}

func TestParseBareAndExtraRequirements(t *testing.T) {
	input := "numpy\nuvicorn[standard]==0.30.0\n"
	reqs, err := manifest.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if reqs[0].Name != "numpy" || reqs[0].Spec != "" {
		t.Fatalf("unexpected bare requirement: %+v", reqs[0])
	}
	if reqs[1].Name != "uvicorn" || reqs[1].Spec != "[standard]==0.30.0" {
		t.Fatalf("unexpected extras requirement: %+v", reqs[1])
	}
}

func TestLoadMissingFileYieldsEmptyManifest(t *testing.T) {
	reqs, err := manifest.Load(filepath.Join(t.TempDir(), "requirements.txt"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(reqs) != 0 {
		t.Fatalf("expected empty manifest, got %v", reqs)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(path, []byte("exifread==3.0.0\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	reqs, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(reqs) != 1 || reqs[0].String() != "exifread==3.0.0" {
		t.Fatalf("unexpected manifest: %v", reqs)
	}
}

func TestDiffReportsAddedRemovedChanged(t *testing.T) {
	old := []manifest.Requirement{
		{Name: "pandas", Spec: "==2.1.0"},
		{Name: "exifread", Spec: "==3.0.0"},
	}
	updated := []manifest.Requirement{
		{Name: "pandas", Spec: "==2.2.0"},
		{Name: "Pillow", Spec: ">=10.0"},
	}

	changes := manifest.Diff(old, updated)
	if changes.Empty() {
		t.Fatal("expected changes")
	}
	if len(changes.Added) != 1 || changes.Added[0].Name != "Pillow" {
		t.Fatalf("unexpected additions: %v", changes.Added)
	}
	if len(changes.Removed) != 1 || changes.Removed[0].Name != "exifread" {
		t.Fatalf("unexpected removals: %v", changes.Removed)
	}
	if len(changes.Changed) != 1 || changes.Changed[0].Old != "==2.1.0" || changes.Changed[0].New != "==2.2.0" {
		t.Fatalf("unexpected changes: %v", changes.Changed)
	}
}

func TestDiffNormalizesNames(t *testing.T) {
	old := []manifest.Requirement{{Name: "python_dateutil", Spec: "==2.9.0"}}
	updated := []manifest.Requirement{{Name: "python-dateutil", Spec: "==2.9.0"}}
	if changes := manifest.Diff(old, updated); !changes.Empty() {
		t.Fatalf("expected no changes across name normalization, got %+v", changes)
	}
}

func TestDiffIdenticalManifestsEmpty(t *testing.T) {
	reqs := []manifest.Requirement{{Name: "pandas", Spec: "==2.2.0"}}
	if changes := manifest.Diff(reqs, reqs); !changes.Empty() {
		t.Fatalf("expected empty diff, got %+v", changes)
	}
}
