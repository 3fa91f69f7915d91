package pybuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"wheelwright/internal/services"
)

// Artifact describes a distribution file produced by the packaging tool.
type Artifact struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Format returns the distribution format inferred from the file name.
func (a Artifact) Format() string {
	name := strings.ToLower(filepath.Base(a.Path))
	switch {
	case strings.HasSuffix(name, ".whl"):
		return "wheel"
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".zip"):
		return "sdist"
	default:
		return "unknown"
	}
}

// Builder defines the behaviour the package step needs from the packaging tool.
type Builder interface {
	Build(ctx context.Context, root, outDir string, formats []string, onOutput func(string)) ([]Artifact, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps the build frontend (python -m build).
type Client struct {
	python  string
	timeout time.Duration
	exec    services.Executor
}

// New constructs a packaging client.
func New(python string, timeoutSeconds int, opts ...Option) (*Client, error) {
	python = strings.TrimSpace(python)
	if python == "" {
		return nil, errors.New("python binary required")
	}
	client := &Client{
		python:  python,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Build produces the requested distribution formats from the project at root
// into outDir and returns the artifacts found there afterwards.
func (c *Client) Build(ctx context.Context, root, outDir string, formats []string, onOutput func(string)) ([]Artifact, error) {
	if strings.TrimSpace(root) == "" {
		return nil, services.Wrap(services.ErrValidation, "package", "build", "project root required", nil)
	}
	if strings.TrimSpace(outDir) == "" {
		return nil, services.Wrap(services.ErrValidation, "package", "build", "output directory required", nil)
	}
	formats = normalizeFormats(formats)
	if len(formats) == 0 {
		return nil, services.Wrap(services.ErrValidation, "package", "build", "at least one distribution format required", nil)
	}

	buildCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"-m", "build"}
	for _, format := range formats {
		switch format {
		case "sdist":
			args = append(args, "--sdist")
		case "wheel":
			args = append(args, "--wheel")
		}
	}
	args = append(args, "--outdir", outDir, root)

	if err := c.exec.Run(buildCtx, root, c.python, args, onOutput); err != nil {
		if errors.Is(buildCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(services.ErrTimeout, "package", "build", fmt.Sprintf("packaging exceeded %s", c.timeout), err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "package", "build", "packaging tool failed", err)
	}

	artifacts, err := gatherArtifacts(outDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "package", "inspect outputs", "", err)
	}
	if err := verifyFormats(artifacts, formats); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func normalizeFormats(formats []string) []string {
	result := make([]string, 0, len(formats))
	seen := make(map[string]struct{}, len(formats))
	for _, format := range formats {
		normalized := strings.ToLower(strings.TrimSpace(format))
		if normalized != "sdist" && normalized != "wheel" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result
}

// gatherArtifacts lists distribution files in outDir. Pre-existing files are
// included: rebuilding an unchanged project is allowed to leave identical
// artifacts in place.
func gatherArtifacts(outDir string) ([]Artifact, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !strings.HasSuffix(name, ".whl") && !strings.HasSuffix(name, ".tar.gz") && !strings.HasSuffix(name, ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Path:    filepath.Join(outDir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Path < artifacts[j].Path
	})
	return artifacts, nil
}

func verifyFormats(artifacts []Artifact, formats []string) error {
	produced := make(map[string]bool, len(artifacts))
	for _, artifact := range artifacts {
		produced[artifact.Format()] = true
	}
	for _, format := range formats {
		if !produced[format] {
			return services.Wrap(services.ErrExternalTool, "package", "build",
				fmt.Sprintf("packaging tool exited cleanly but produced no %s", format), nil)
		}
	}
	return nil
}
