// Package logging assembles structured slog loggers and formatting helpers
// used across wheelwright.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes helpers so pipeline code can automatically tag
// log lines with build run IDs and step names. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
