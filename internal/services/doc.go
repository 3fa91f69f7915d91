// Package services defines shared utilities consumed by the pipeline step
// handlers and external tool clients.
//
// Key responsibilities:
//   - Context helpers that stamp build run IDs and step names for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     messages uniform across steps.
//   - The Executor abstraction that makes command execution and output
//     streaming from external tools testable.
package services
