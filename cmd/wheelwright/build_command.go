package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"wheelwright/internal/history"
	"wheelwright/internal/pipeline"
	"wheelwright/internal/preflight"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Clean artifacts, regenerate the manifest, and package the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd, ctx, pipeline.StepClean, pipeline.StepManifest, pipeline.StepPackage)
		},
	}
}

func newCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove stale build artifacts from the project root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd, ctx, pipeline.StepClean)
		},
	}
}

func newManifestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Regenerate the requirements manifest from project imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd, ctx, pipeline.StepManifest)
		},
	}
}

func newPackageCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "package",
		Short: "Build the configured distribution formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd, ctx, pipeline.StepPackage)
		},
	}
}

// runSteps executes the named subset of the pipeline and prints a summary.
func runSteps(cmd *cobra.Command, cmdCtx *commandContext, steps ...string) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}

	results := preflight.RunAll(cmd.Context(), cfg)
	if failed := preflight.Failed(results); len(failed) > 0 {
		details := make([]string, 0, len(results))
		for _, result := range results {
			if !result.Passed {
				details = append(details, fmt.Sprintf("%s: %s", result.Name, result.Detail))
			}
		}
		return fmt.Errorf("preflight checks failed:\n  %s", strings.Join(details, "\n  "))
	}

	logger := cmdCtx.commandLogger()
	handlers, err := pipeline.DefaultHandlers(cfg, logger)
	if err != nil {
		return err
	}
	handlers = selectHandlers(handlers, steps)

	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open build history: %w", err)
	}
	defer store.Close()

	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(cfg, store, logger, handlers)
	run, err := runner.Run(runCtx)
	if err != nil {
		return err
	}

	printRunSummary(cmd.OutOrStdout(), cfg, run, steps)
	return nil
}

func selectHandlers(handlers []pipeline.Handler, steps []string) []pipeline.Handler {
	wanted := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		wanted[step] = struct{}{}
	}
	selected := make([]pipeline.Handler, 0, len(handlers))
	for _, handler := range handlers {
		if _, ok := wanted[handler.Name()]; ok {
			selected = append(selected, handler)
		}
	}
	return selected
}
