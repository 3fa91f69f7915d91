// Package watch emits rebuild triggers when Python sources under the
// project root change. Bursts of filesystem events are debounced into a
// single trigger, and the packaging output directories are excluded so a
// build never retriggers itself.
package watch
