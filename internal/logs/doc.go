// Package logs reads the shared wheelwright log file for the CLI "logs"
// command: the last N lines of history plus an optional polling follow mode.
package logs
