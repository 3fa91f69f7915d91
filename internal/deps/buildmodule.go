package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"wheelwright/internal/services"
)

// CheckBuildModule reports whether the configured Python interpreter can load
// the "build" packaging frontend.
//
// Packaging runs "python -m build", so a Python binary on PATH is not enough
// on its own. This helper imports the module through the interpreter the
// build will actually use, keeping status output honest about what a run
// would find.
func CheckBuildModule(ctx context.Context, pythonCommand string, executor services.Executor) Status {
	result := Status{
		Name:        "build module",
		Description: "Python packaging frontend (python -m build)",
	}
	if executor == nil {
		executor = services.CommandExecutor{}
	}

	python := strings.TrimSpace(pythonCommand)
	if python == "" {
		result.Detail = "python command not configured"
		return result
	}
	resolved, err := exec.LookPath(python)
	if err != nil {
		result.Detail = fmt.Sprintf("binary %q not found", python)
		return result
	}
	result.Command = resolved

	if err := executor.Run(ctx, "", resolved, []string{"-c", "import build"}, nil); err != nil {
		result.Detail = fmt.Sprintf("%q cannot import the build module", python)
		return result
	}
	result.Available = true
	return result
}
