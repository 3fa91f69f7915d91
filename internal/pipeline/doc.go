// Package pipeline sequences the clean, manifest, and package steps of a
// build. A runner holds the project build lock for the duration of a run,
// executes handlers strictly in order, halts at the first failure, and
// journals every step to the history store.
package pipeline
