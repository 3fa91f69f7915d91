package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wheelwright/internal/history"
	"wheelwright/internal/preflight"
	"wheelwright/internal/textutil"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool, path, and last-build health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader(textutil.DisplayTitle(cfg.Project.Name), colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Project root", statusInfo, cfg.Project.Root, colorize))
			fmt.Fprintln(out, renderStatusLine("Manifest", statusInfo, cfg.ManifestPath(), colorize))
			fmt.Fprintln(out, renderStatusLine("Output", statusInfo, cfg.DistDir(), colorize))
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Tools", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				kind := statusOK
				message := status.Command
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Paths", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out)

			printLastBuild(cmd, ctx, colorize)
			return nil
		},
	}
}

func printLastBuild(cmd *cobra.Command, ctx *commandContext, colorize bool) {
	out := cmd.OutOrStdout()
	for _, line := range renderSectionHeader("Last Build", colorize) {
		fmt.Fprintln(out, line)
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("History", statusWarn, err.Error(), colorize))
		return
	}
	store, err := history.Open(cfg)
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("History", statusWarn, err.Error(), colorize))
		return
	}
	defer store.Close()

	runs, err := store.RecentRuns(cmd.Context(), 1)
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("History", statusWarn, err.Error(), colorize))
		return
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, renderStatusLine("History", statusInfo, "no builds recorded", colorize))
		return
	}

	run := runs[0]
	kind := statusOK
	message := fmt.Sprintf("%s (%s)", run.Status, run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	switch run.Status {
	case history.StatusFailed:
		kind = statusError
		if run.Error != "" {
			message = fmt.Sprintf("%s: %s", message, run.Error)
		}
	case history.StatusRunning:
		kind = statusInfo
	}
	fmt.Fprintln(out, renderStatusLine("Last build", kind, message, colorize))
}
