// Package preflight provides readiness checks for the external tools and
// filesystem paths a build depends on.
//
// These checks run in two contexts:
//   - The daemon and CLI call RunAll before a build. A failed check stops
//     the run before any artifact is removed, so a misconfigured project is
//     never left half-cleaned.
//   - The "wheelwright status" command uses individual check functions to
//     display tool and path health.
package preflight
