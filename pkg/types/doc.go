// Package types holds the value types and capability interfaces shared by
// the paldeploy packages: repository references, descriptor kinds and the
// filesystem abstraction every component reads and mutates through.
package types
