// Package driver orchestrates the pipeline: file loading, lexing,
// parsing, binding, checking, emission and the project-level module
// schedule. Phases themselves never fail; the driver collects their
// diagnostics per file and merges them deterministically. Go errors
// come out only for I/O, configuration and internal invariant
// failures.
package driver
