// Package walker discovers descriptor files and fetches the dependency
// graph they describe, one handle at a time.
package walker

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/descriptor"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/git"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/repo"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/rs/zerolog"
)

// Opener builds a handle from a descriptor path
type Opener interface {
	Open(path string) (repo.Handle, error)
}

// Report summarizes one Run
type Report struct {
	// Root is the platform tree handle
	Root repo.Handle
	// Discovered lists every descriptor path that entered the queue
	Discovered []string
	Fetched    []string
	// Skipped holds the root when its directory already existed
	Skipped  []string
	Excluded []string
}

// Walker walks a work directory for descriptors
type Walker struct {
	cfg    config.Config
	fs     types.FS
	opener Opener
	logger zerolog.Logger
}

// New creates a Walker
func New(cfg config.Config, fsys types.FS, opener Opener) *Walker {
	return &Walker{
		cfg:    cfg,
		fs:     fsys,
		opener: opener,
		logger: logging.GetLogger("walker"),
	}
}

// Discover lists every descriptor under dir in walk order: the files of a
// directory first, then its subdirectories by name. Directories named like
// the platform tree and git metadata folders are not entered, and symlinks
// are not followed. root is the last platform tree descriptor found, or nil.
// A missing dir yields nothing.
func (w *Walker) Discover(dir string) (root repo.Handle, found []repo.Handle, err error) {
	dir = filepath.Clean(dir)
	if !filesystem.IsDir(w.fs, dir) {
		return nil, nil, nil
	}

	visited := map[string]bool{}
	stack := []string{dir}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		entries, err := w.fs.ReadDir(cur)
		if err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", cur)
		}

		var subdirs []string
		for _, entry := range entries {
			path := filepath.Join(cur, entry.Name())
			switch {
			case entry.Type()&fs.ModeSymlink != 0:
				continue
			case entry.IsDir():
				if entry.Name() == w.cfg.Repos.RootName || entry.Name() == git.MetadataDir {
					continue
				}
				subdirs = append(subdirs, path)
			case descriptor.IsDescriptor(w.fs, path):
				w.logger.Debug().Str("path", path).Msg("Found repo file")
				h, err := w.opener.Open(path)
				if err != nil {
					return nil, nil, err
				}
				found = append(found, h)
				if repo.IsRoot(h, w.cfg.Repos.RootName) {
					root = h
				}
			}
		}
		// pushed in reverse so they pop in name order
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return root, found, nil
}

// Run discovers the descriptors under workDir and drains them as a queue.
// The root is skipped when its directory exists and excluded handles are
// not fetched. A tree that did not exist before its fetch, and is not the
// root, is scanned once for new descriptors, which are queued unless their
// path is already known. With skip-update only discovery happens.
func (w *Walker) Run(ctx context.Context, workDir string) (Report, error) {
	root, queue, err := w.Discover(workDir)
	if err != nil {
		return Report{}, err
	}

	report := Report{}
	known := map[string]bool{}
	for _, h := range queue {
		known[h.Path()] = true
		report.Discovered = append(report.Discovered, h.Path())
	}

	if !w.cfg.Fetch.SkipUpdate {
		for len(queue) > 0 {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			h := queue[0]
			queue = queue[1:]

			if root != nil && h.Path() == root.Path() && h.Exists() {
				report.Skipped = append(report.Skipped, h.Path())
				continue
			}

			existed := h.Exists()
			if h.IsExcluded() {
				w.logger.Info().Str("repo", h.Name()).Msg("Excluded, not fetching")
				report.Excluded = append(report.Excluded, h.Path())
			} else {
				if err := h.Fetch(ctx); err != nil {
					return report, err
				}
				report.Fetched = append(report.Fetched, h.Path())
			}

			if existed || repo.IsRoot(h, w.cfg.Repos.RootName) {
				continue
			}
			newRoot, found, err := w.Discover(h.Dir())
			if err != nil {
				return report, err
			}
			if newRoot != nil {
				root = newRoot
			}
			for _, n := range found {
				if known[n.Path()] {
					continue
				}
				known[n.Path()] = true
				report.Discovered = append(report.Discovered, n.Path())
				queue = append(queue, n)
			}
		}
	}

	if root == nil {
		return report, errors.Newf(errors.ErrNotFound, "%s repository not found", w.cfg.Repos.RootName).
			WithDetail("dir", workDir)
	}
	report.Root = root
	return report, nil
}

// FetchAll fetches every non-excluded descriptor found under dir without
// recursing into what they bring in. Platform repositories use it for the
// descriptors they carry.
func (w *Walker) FetchAll(ctx context.Context, dir string) ([]string, error) {
	_, found, err := w.Discover(dir)
	if err != nil {
		return nil, err
	}
	var fetched []string
	for _, h := range found {
		if h.IsExcluded() {
			continue
		}
		if err := h.Fetch(ctx); err != nil {
			return fetched, err
		}
		fetched = append(fetched, h.Path())
	}
	return fetched, nil
}
