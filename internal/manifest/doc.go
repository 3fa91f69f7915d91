// Package manifest models the generated requirements file so the pipeline
// can report what a regeneration changed. The file format is owned by the
// external scanner; this package only reads it.
package manifest
