package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"wheelwright/internal/config"
	"wheelwright/internal/logging"
	"wheelwright/internal/manifest"
	"wheelwright/internal/services/pipreqs"
	"wheelwright/internal/services/pybuild"
	"wheelwright/internal/workspace"
)

// CleanStep removes stale build artifacts from the project root.
type CleanStep struct {
	cfg *config.Config
}

// NewCleanStep constructs the artifact cleanup step.
func NewCleanStep(cfg *config.Config) *CleanStep {
	return &CleanStep{cfg: cfg}
}

func (s *CleanStep) Name() string { return StepClean }

func (s *CleanStep) Execute(ctx context.Context, run *Run) (string, error) {
	removed, err := workspace.Clean(s.cfg.Project.Root, s.cfg.Clean.Patterns)
	if err != nil {
		return "", err
	}
	run.Removed = removed
	if len(removed) == 0 {
		return "nothing to remove", nil
	}
	return fmt.Sprintf("removed %d path(s)", len(removed)), nil
}

// ManifestStep regenerates the requirements manifest from project imports and
// reports how it moved relative to the previous manifest.
type ManifestStep struct {
	cfg    *config.Config
	gen    pipreqs.Generator
	logger *slog.Logger
}

// NewManifestStep constructs the manifest regeneration step.
func NewManifestStep(cfg *config.Config, gen pipreqs.Generator, logger *slog.Logger) *ManifestStep {
	return &ManifestStep{cfg: cfg, gen: gen, logger: logger}
}

func (s *ManifestStep) Name() string { return StepManifest }

func (s *ManifestStep) Execute(ctx context.Context, run *Run) (string, error) {
	savePath := s.cfg.ManifestPath()

	previous, err := manifest.Load(savePath)
	if err != nil {
		return "", err
	}

	if err := s.gen.Generate(ctx, s.cfg.Project.Root, savePath, s.toolOutput()); err != nil {
		return "", err
	}

	updated, err := manifest.Load(savePath)
	if err != nil {
		return "", err
	}

	run.ManifestPath = savePath
	run.ManifestChanges = manifest.Diff(previous, updated)
	return describeChanges(run.ManifestChanges, len(updated)), nil
}

func (s *ManifestStep) toolOutput() func(string) {
	if s.logger == nil {
		return nil
	}
	toolLogger := logging.WithComponent(s.logger, "pipreqs")
	return func(line string) {
		toolLogger.Debug(line)
	}
}

func describeChanges(changes manifest.Changes, total int) string {
	if changes.Empty() {
		return fmt.Sprintf("%d requirement(s), unchanged", total)
	}
	parts := make([]string, 0, 3)
	if n := len(changes.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(changes.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	if n := len(changes.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	return fmt.Sprintf("%d requirement(s): %s", total, strings.Join(parts, ", "))
}

// PackageStep builds the configured distribution formats.
type PackageStep struct {
	cfg     *config.Config
	builder pybuild.Builder
	logger  *slog.Logger
}

// NewPackageStep constructs the distribution packaging step.
func NewPackageStep(cfg *config.Config, builder pybuild.Builder, logger *slog.Logger) *PackageStep {
	return &PackageStep{cfg: cfg, builder: builder, logger: logger}
}

func (s *PackageStep) Name() string { return StepPackage }

func (s *PackageStep) Execute(ctx context.Context, run *Run) (string, error) {
	artifacts, err := s.builder.Build(ctx, s.cfg.Project.Root, s.cfg.DistDir(), s.cfg.Packaging.Formats, s.toolOutput())
	if err != nil {
		return "", err
	}
	run.Artifacts = artifacts
	return fmt.Sprintf("%d artifact(s) in %s", len(artifacts), s.cfg.DistDir()), nil
}

func (s *PackageStep) toolOutput() func(string) {
	if s.logger == nil {
		return nil
	}
	toolLogger := logging.WithComponent(s.logger, "build")
	return func(line string) {
		toolLogger.Debug(line)
	}
}

// DefaultHandlers assembles the full clean, manifest, package sequence from
// configuration.
func DefaultHandlers(cfg *config.Config, logger *slog.Logger) ([]Handler, error) {
	generator, err := pipreqs.New(cfg.Manifest.Tool, cfg.Manifest.TimeoutSeconds,
		pipreqs.WithIgnoreDirs(cfg.Manifest.IgnoreDirs))
	if err != nil {
		return nil, err
	}
	builder, err := pybuild.New(cfg.Packaging.Python, cfg.Packaging.TimeoutSeconds)
	if err != nil {
		return nil, err
	}
	return []Handler{
		NewCleanStep(cfg),
		NewManifestStep(cfg, generator, logger),
		NewPackageStep(cfg, builder, logger),
	}, nil
}
