package history

import "time"

// Status represents the lifecycle of a build run or step.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Run records one invocation of the build pipeline.
type Run struct {
	ID         string
	Project    string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// Duration returns the wall-clock time of a finished run, zero otherwise.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Step records one pipeline step inside a run.
type Step struct {
	RunID      string
	Name       string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	Detail     string
}
