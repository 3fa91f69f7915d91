// Package config loads, normalizes, and validates wheelwright's TOML
// configuration.
//
// Load applies defaults, decodes the config file when one exists, expands
// "~"-prefixed paths to absolute ones, and fills gaps from environment
// variables (WHEELWRIGHT_PYTHON, WHEELWRIGHT_PIPREQS). Derived locations such
// as the manifest path, distribution output directory, build lock, and
// history database all hang off Config so callers never assemble paths
// themselves.
package config
