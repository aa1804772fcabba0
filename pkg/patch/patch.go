// Package patch applies and reverts platform patches with the patch
// executable. Whether a patch is applied is never stored: it is detected
// each time with a reverse dry run.
package patch

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/types"
)

var headerPattern = regexp.MustCompile(`(?m)^--- (\S+)`)

// Patch is a unified diff named after the platform it belongs to
type Patch struct {
	File string
	// Dir is where the patch tool runs
	Dir string
	// Strip is the -p depth
	Strip int
}

// Load reads file and derives the strip depth from its first "--- path"
// header: the index of the path segment equal to the patch file stem.
func Load(fsys types.FS, file string) (Patch, error) {
	data, err := fsys.ReadFile(file)
	if err != nil {
		return Patch{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to read patch %s", file)
	}
	strip, err := StripDepth(string(data), stem(file))
	if err != nil {
		return Patch{}, errors.Wrapf(err, errors.ErrPatchMalformed, "malformed patch file %s", file).
			WithDetail("patch", file)
	}
	return Patch{File: file, Dir: filepath.Dir(file), Strip: strip}, nil
}

// StripDepth finds the index of name among the segments of the first
// "--- path" header of source
func StripDepth(source, name string) (int, error) {
	m := headerPattern.FindStringSubmatch(source)
	if m == nil {
		return 0, errors.New(errors.ErrPatchMalformed, "no --- header")
	}
	for i, segment := range strings.Split(m[1], "/") {
		if segment == name {
			return i, nil
		}
	}
	return 0, errors.Newf(errors.ErrPatchMalformed, "header path %s does not contain %s", m[1], name)
}

func stem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
