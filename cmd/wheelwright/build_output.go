package main

import (
	"fmt"
	"io"
	"path/filepath"

	"wheelwright/internal/config"
	"wheelwright/internal/pipeline"
	"wheelwright/internal/textutil"
)

func printRunSummary(out io.Writer, cfg *config.Config, run *pipeline.Run, steps []string) {
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader(textutil.DisplayTitle(cfg.Project.Name), colorize) {
		fmt.Fprintln(out, line)
	}

	ran := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		ran[step] = struct{}{}
	}

	if _, ok := ran[pipeline.StepClean]; ok {
		printCleanSummary(out, run, colorize)
	}
	if _, ok := ran[pipeline.StepManifest]; ok {
		printManifestSummary(out, run, colorize)
	}
	if _, ok := ran[pipeline.StepPackage]; ok {
		printPackageSummary(out, run, colorize)
	}
}

func printCleanSummary(out io.Writer, run *pipeline.Run, colorize bool) {
	if len(run.Removed) == 0 {
		fmt.Fprintln(out, renderStatusLine("Clean", statusOK, "nothing to remove", colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Clean", statusOK, fmt.Sprintf("removed %d path(s)", len(run.Removed)), colorize))
	for _, path := range run.Removed {
		fmt.Fprintf(out, "%s%s- %s\n", statusIndent, statusIndent, path)
	}
}

func printManifestSummary(out io.Writer, run *pipeline.Run, colorize bool) {
	changes := run.ManifestChanges
	if changes.Empty() {
		fmt.Fprintln(out, renderStatusLine("Manifest", statusOK, "unchanged", colorize))
		return
	}
	summary := fmt.Sprintf("%d added, %d removed, %d changed", len(changes.Added), len(changes.Removed), len(changes.Changed))
	fmt.Fprintln(out, renderStatusLine("Manifest", statusOK, summary, colorize))
	for _, req := range changes.Added {
		fmt.Fprintf(out, "%s%s+ %s\n", statusIndent, statusIndent, req.String())
	}
	for _, req := range changes.Removed {
		fmt.Fprintf(out, "%s%s- %s\n", statusIndent, statusIndent, req.String())
	}
	for _, change := range changes.Changed {
		fmt.Fprintf(out, "%s%s~ %s %s -> %s\n", statusIndent, statusIndent, change.Name, change.Old, change.New)
	}
}

func printPackageSummary(out io.Writer, run *pipeline.Run, colorize bool) {
	fmt.Fprintln(out, renderStatusLine("Package", statusOK, fmt.Sprintf("%d artifact(s)", len(run.Artifacts)), colorize))
	if len(run.Artifacts) == 0 {
		return
	}
	rows := make([][]string, 0, len(run.Artifacts))
	for _, artifact := range run.Artifacts {
		rows = append(rows, []string{
			filepath.Base(artifact.Path),
			artifact.Format(),
			formatSize(artifact.Size),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Artifact", "Format", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	))
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	value := float64(bytes)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	for _, suffix := range suffixes {
		value /= unit
		if value < unit {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%.1f PiB", value/unit)
}
