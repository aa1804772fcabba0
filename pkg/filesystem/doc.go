// Package filesystem provides filesystem implementations for paldeploy.
//
// This package contains implementations of the types.FS interface, the
// standard OS filesystem and an afero-backed one used by tests, plus the
// copy and removal helpers the reference fetch fallback relies on.
package filesystem
