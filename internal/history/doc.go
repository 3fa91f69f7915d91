// Package history persists build runs and their step outcomes in SQLite so
// the CLI can show what past builds did and why they failed.
package history
