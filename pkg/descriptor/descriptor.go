package descriptor

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/types"
)

// MaxSize is the largest accepted descriptor file, in bytes
const MaxSize = 1024

// GitHubHost triggers the GitHub normalization rules when it appears
// anywhere in a descriptor
const GitHubHost = "github.com"

const (
	gitHubSSHPrefix = "git@github.com"
	latestRef       = "latest"
)

var (
	gitHubPattern  = regexp.MustCompile(`((file|git|ssh|https?)|(git@github\.com))(:(//)?)(github\.com/)?([\w.@:/~-]+)#?(\S*)`)
	genericPattern = regexp.MustCompile(`(file|git|ssh|https?)(://)([\w.@:/~-]+)#?(\S*)`)
)

// Descriptor is a parsed .lib or .ref pointer file
type Descriptor struct {
	// Path of the descriptor file; the identity of the node it declares
	Path string
	// Name is the file name without extension
	Name string
	// Dir is the sibling directory the repository is checked out into
	Dir  string
	Kind types.Kind
	// Raw is the trimmed file body
	Raw string
	// Reference is empty when the body holds no recognizable URL
	Reference types.Reference
}

// IsDescriptor reports whether path looks like a descriptor file: a
// .lib/.ref extension, 1 to MaxSize bytes and no null byte.
func IsDescriptor(fsys types.FS, path string) bool {
	if _, ok := types.KindForPath(path); !ok {
		return false
	}
	info, err := fsys.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if info.Size() <= 0 || info.Size() > MaxSize {
		return false
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return false
	}
	return len(data) > 0 && bytes.IndexByte(data, 0) < 0
}

// Load validates and parses the descriptor at path. A body without a
// recognizable URL is not an error here; callers that need a reference
// check Reference.Valid().
func Load(fsys types.FS, path, defaultBranch string) (Descriptor, error) {
	if !IsDescriptor(fsys, path) {
		return Descriptor{}, errors.Newf(errors.ErrDescriptorInvalid, "%s is not a valid repo file", path).
			WithDetail("path", path)
	}
	kind, _ := types.KindForPath(path)

	data, err := fsys.ReadFile(path)
	if err != nil {
		return Descriptor{}, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	d := Descriptor{
		Path: path,
		Name: name,
		Dir:  filepath.Join(filepath.Dir(path), name),
		Kind: kind,
		Raw:  strings.TrimSpace(string(data)),
	}
	if ref, err := Parse(data, defaultBranch); err == nil {
		d.Reference = ref
	}
	return d, nil
}

// Parse extracts the repository URL and revision from a descriptor body of
// the form <URL>#<REF>. GitHub locations are normalized to the SSH form
// git@github.com:<path>; other hosts need an explicit scheme. An empty or
// "latest" ref becomes defaultBranch.
func Parse(data []byte, defaultBranch string) (types.Reference, error) {
	data = bytes.TrimSpace(data)
	isGitHub := bytes.Contains(data, []byte(GitHubHost))

	var prefix, repoPath, ref string
	if isGitHub {
		m := gitHubPattern.FindSubmatch(data)
		if m == nil {
			return types.Reference{}, invalid(data)
		}
		prefix = gitHubSSHPrefix + ":"
		repoPath, ref = string(m[7]), string(m[8])
	} else {
		m := genericPattern.FindSubmatch(data)
		if m == nil {
			return types.Reference{}, invalid(data)
		}
		prefix = string(m[1]) + "://"
		repoPath, ref = string(m[3]), string(m[4])
	}

	// Trees fetched by mbed-cli record their origin as
	// https://github.com/git@github.com/org/repo; drop the duplicate host.
	segments := strings.Split(repoPath, "/")
	if segments[0] == gitHubSSHPrefix {
		repoPath = strings.Join(segments[1:], "/")
	}

	if ref == "" || ref == latestRef {
		ref = defaultBranch
	}

	return types.Reference{
		URL: prefix + strings.TrimRight(repoPath, "/"),
		Ref: ref,
	}, nil
}

func invalid(data []byte) error {
	return errors.Newf(errors.ErrDescriptorInvalid, "%q is not a valid repo reference", string(data))
}
