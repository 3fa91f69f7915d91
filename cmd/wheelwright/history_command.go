package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wheelwright/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *history.Store) error {
				runs, err := store.RecentRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No builds recorded yet.")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortRunID(run.ID),
						run.StartedAt.Local().Format("2006-01-02 15:04:05"),
						string(run.Status),
						formatRunDuration(run),
						run.Error,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Started", "Status", "Duration", "Error"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of builds to list")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the steps of one build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(store *history.Store) error {
				run, err := resolveRun(cmd, store, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:      %s\n", run.ID)
				fmt.Fprintf(out, "Project:  %s\n", run.Project)
				fmt.Fprintf(out, "Status:   %s\n", run.Status)
				fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
				if run.Error != "" {
					fmt.Fprintf(out, "Error:    %s\n", run.Error)
				}

				steps, err := store.StepsForRun(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if len(steps) == 0 {
					return nil
				}
				rows := make([][]string, 0, len(steps))
				for _, step := range steps {
					rows = append(rows, []string{
						step.Name,
						string(step.Status),
						formatStepDuration(step),
						step.Detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Step", "Status", "Duration", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func withStore(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open build history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// resolveRun accepts either a full run ID or the short prefix printed by the
// history listing.
func resolveRun(cmd *cobra.Command, store *history.Store, arg string) (*history.Run, error) {
	arg = strings.TrimSpace(arg)
	if run, err := store.GetRun(cmd.Context(), arg); err == nil {
		return run, nil
	}

	runs, err := store.RecentRuns(cmd.Context(), 100)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if strings.HasPrefix(runs[i].ID, arg) {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("no build matches %q", arg)
}

func shortRunID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func formatRunDuration(run history.Run) string {
	if run.Status == history.StatusRunning {
		return "-"
	}
	return formatDuration(run.Duration())
}

func formatStepDuration(step history.Step) string {
	if step.FinishedAt.IsZero() || step.StartedAt.IsZero() {
		return "-"
	}
	return formatDuration(step.FinishedAt.Sub(step.StartedAt))
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(10 * time.Millisecond).String()
}
