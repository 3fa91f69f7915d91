// Package workspace owns filesystem mutations inside the project root,
// chiefly the pre-build artifact clean. Deleting a target that does not
// exist is a no-op.
package workspace
