package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"wheelwright/internal/services/pybuild"
)

// StubGenerator satisfies pipreqs.Generator by writing fixed manifest
// content to the save path.
type StubGenerator struct {
	Content string
	Err     error
	Calls   int
}

func (g *StubGenerator) Generate(ctx context.Context, root, savePath string, onOutput func(string)) error {
	g.Calls++
	if g.Err != nil {
		return g.Err
	}
	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(g.Content), 0o644)
}

// StubBuilder satisfies pybuild.Builder by dropping fixed artifact files
// into the output directory.
type StubBuilder struct {
	Files []string
	Err   error
	Calls int
}

func (b *StubBuilder) Build(ctx context.Context, root, outDir string, formats []string, onOutput func(string)) ([]pybuild.Artifact, error) {
	b.Calls++
	if b.Err != nil {
		return nil, b.Err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	artifacts := make([]pybuild.Artifact, 0, len(b.Files))
	for _, name := range b.Files {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, pybuild.Artifact{
			Path:    path,
			Size:    int64(len(name)),
			ModTime: time.Now(),
		})
	}
	return artifacts, nil
}
