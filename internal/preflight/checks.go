package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"wheelwright/internal/config"
	"wheelwright/internal/deps"
)

// buildDefinitions are the files "python -m build" accepts as a project
// definition, in the order pip and build themselves prefer them.
var buildDefinitions = []string{"pyproject.toml", "setup.py", "setup.cfg"}

// CheckProjectLayout verifies the project root contains something the
// packaging frontend can build.
func CheckProjectLayout(root string) Result {
	const name = "Project definition"

	if strings.TrimSpace(root) == "" {
		return Result{Name: name, Detail: "project root not configured"}
	}
	for _, candidate := range buildDefinitions {
		path := filepath.Join(root, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return Result{Name: name, Passed: true, Detail: candidate}
		}
	}
	return Result{Name: name, Detail: fmt.Sprintf("none of %s found in %s", strings.Join(buildDefinitions, ", "), root)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates all external-tool dependencies for the given
// config. Both the daemon and the CLI status command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries(deps.DefaultRequirements(cfg))
	statuses = append(statuses, deps.CheckBuildModule(ctx, cfg.Packaging.Python, nil))
	return statuses
}
