package preflight

import (
	"context"

	"wheelwright/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Project root", cfg.Project.Root))
	results = append(results, CheckProjectLayout(cfg.Project.Root))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	return results
}

// Failed returns the names of checks that did not pass.
func Failed(results []Result) []string {
	var names []string
	for _, result := range results {
		if !result.Passed {
			names = append(names, result.Name)
		}
	}
	return names
}
