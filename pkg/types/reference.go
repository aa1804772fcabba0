package types

import (
	"fmt"
	"regexp"
)

var commitHashPattern = regexp.MustCompile(`[a-fA-F0-9]{40}`)

// Reference is a version-control location pinned at a revision.
type Reference struct {
	// URL is either an explicit-scheme URL or the SSH form git@github.com:org/repo
	URL string `json:"url" yaml:"url" toml:"url"`
	// Ref is a branch, tag or 40 hex character commit hash
	Ref string `json:"ref" yaml:"ref" toml:"ref"`
}

// Valid reports whether both the URL and the ref were resolved.
func (r Reference) Valid() bool {
	return r.URL != "" && r.Ref != ""
}

// IsCommitHash reports whether the ref names an immutable commit.
func (r Reference) IsCommitHash() bool {
	return commitHashPattern.MatchString(r.Ref)
}

func (r Reference) String() string {
	return fmt.Sprintf("%s#%s", r.URL, r.Ref)
}
