package logging

import "strings"

// FormatSubject builds the run/step subject string used in console output.
// Run identifiers are shortened to their first segment so lines stay legible.
func FormatSubject(runID, step string) string {
	runID = strings.TrimSpace(runID)
	step = strings.TrimSpace(step)
	if runID != "" {
		if idx := strings.IndexByte(runID, '-'); idx > 0 {
			runID = runID[:idx]
		}
	}
	switch {
	case runID != "" && step != "":
		return "Run " + runID + " (" + step + ")"
	case runID != "":
		return "Run " + runID
	case step != "":
		return step
	default:
		return ""
	}
}
