// Package textutil provides text helpers for presenting project names and
// deriving filesystem-safe tokens from user-supplied values.
package textutil
