// Package pybuild wraps the PEP 517 build frontend (python -m build) used to
// produce source distributions and wheels. It never compiles anything itself;
// project metadata and backends are entirely the external tool's business.
package pybuild
