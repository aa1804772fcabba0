package platform

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/repo"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"golang.org/x/text/cases"
)

// Axis is one independent selection dimension
type Axis string

const (
	AxisSDK        Axis = "SDK"
	AxisOS         Axis = "OS"
	AxisDevice     Axis = "Device"
	AxisToolchain  Axis = "Toolchain"
	AxisMiddleware Axis = "Middleware"
)

// Axes lists every axis in display order
var Axes = []Axis{AxisSDK, AxisOS, AxisDevice, AxisToolchain, AxisMiddleware}

// Supported lists the subdirectories of rootDir/axis, ordered ignoring case.
// A missing axis directory supports nothing.
func Supported(fsys types.FS, rootDir string, axis Axis) ([]string, error) {
	dir := filepath.Join(rootDir, string(axis))
	if !filesystem.IsDir(fsys, dir) {
		return nil, nil
	}
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	fold := cases.Fold()
	sort.SliceStable(names, func(i, j int) bool {
		return fold.String(names[i]) < fold.String(names[j])
	})
	return names, nil
}

// RefOpener opens reference descriptors
type RefOpener interface {
	OpenRef(path string) (*repo.Ref, error)
}

// Platform is one selected name on one axis
type Platform struct {
	Axis Axis
	Name string
	// Dir is <root>/<axis>/<name>
	Dir string
	// Repo is nil when the platform has no <name>.ref
	Repo *repo.Ref
	// PatchFile is empty when the platform has no <name>.patch
	PatchFile string
}

// New validates name against the supported set of axis and builds the
// Platform
func New(fsys types.FS, refs RefOpener, rootDir string, axis Axis, name string) (*Platform, error) {
	supported, err := Supported(fsys, rootDir, axis)
	if err != nil {
		return nil, err
	}
	if !contains(supported, name) {
		return nil, errors.Newf(errors.ErrPlatformUnsupported, "%s (%s) is not supported, supported %ss are %s",
			axis, name, axis, strings.Join(supported, ", ")).
			WithDetail("axis", string(axis)).
			WithDetail("supported", supported)
	}

	p := &Platform{
		Axis: axis,
		Name: name,
		Dir:  filepath.Join(rootDir, string(axis), name),
	}
	if refFile := filepath.Join(p.Dir, name+types.ExtReference); filesystem.IsFile(fsys, refFile) {
		if p.Repo, err = refs.OpenRef(refFile); err != nil {
			return nil, err
		}
	}
	if patchFile := filepath.Join(p.Dir, name+".patch"); filesystem.IsFile(fsys, patchFile) {
		p.PatchFile = patchFile
	}
	return p, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
