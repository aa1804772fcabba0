package types

import "path/filepath"

// Kind selects the fetch policy of a repository handle
type Kind string

const (
	// KindLibrary descriptors (.lib) must point at the trusted host and are
	// always fetched through version control.
	KindLibrary Kind = "library"
	// KindReference descriptors (.ref) fall back to copy/download when the
	// target is not a live remote.
	KindReference Kind = "reference"
)

// Descriptor file extensions
const (
	ExtLibrary   = ".lib"
	ExtReference = ".ref"
)

// KindForPath returns the kind implied by a descriptor file extension.
func KindForPath(path string) (Kind, bool) {
	switch filepath.Ext(path) {
	case ExtLibrary:
		return KindLibrary, true
	case ExtReference:
		return KindReference, true
	}
	return "", false
}
