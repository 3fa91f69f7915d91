package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"wheelwright/internal/config"
)

// Requirement defines an external tool wheelwright relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// DefaultRequirements lists the external tools a configured build needs.
func DefaultRequirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "Python",
			Command:     cfg.Packaging.Python,
			Description: "Runs the packaging frontend",
		},
		{
			Name:        "pipreqs",
			Command:     cfg.Manifest.Tool,
			Description: "Regenerates the requirements manifest",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
