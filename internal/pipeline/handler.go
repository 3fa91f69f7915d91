package pipeline

import (
	"context"

	"wheelwright/internal/manifest"
	"wheelwright/internal/services/pybuild"
)

// Step names as recorded in history and logs.
const (
	StepClean    = "clean"
	StepManifest = "manifest"
	StepPackage  = "package"
)

// Run accumulates the observable results of one pipeline invocation.
type Run struct {
	ID      string
	Project string

	Removed         []string
	ManifestChanges manifest.Changes
	ManifestPath    string
	Artifacts       []pybuild.Artifact
}

// Handler describes the contract the runner needs from each step. Execute
// returns a short human-readable detail line for the history journal.
type Handler interface {
	Name() string
	Execute(ctx context.Context, run *Run) (string, error)
}
