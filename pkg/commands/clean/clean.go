package clean

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/paldeploy/pkg/commands/internal"
	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/descriptor"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/executor"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/git"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/platform"
	"github.com/arthur-debert/paldeploy/pkg/preflight"
	"github.com/arthur-debert/paldeploy/pkg/repo"
)

// Options defines the options for the Clean command
type Options struct {
	Config config.Config
	internal.Deps
	// KeepRepos only removes build outputs and restores git-tracked ones
	KeepRepos bool
	LookPath  preflight.LookPath
}

// Result lists what Clean changed
type Result struct {
	Deleted  []string
	Restored []string
	// MadeClean is set when "make clean" ran
	MadeClean bool
}

type dirEntry struct {
	path   string
	inRepo bool
}

// Clean removes build outputs from the work directory. Without KeepRepos
// the deployed repositories and the root CMakeLists.txt go as well. With
// KeepRepos "make clean" runs first when a Makefile exists, and output
// files inside repositories are restored from git when tracked. Reference
// mode markers are always removed; the next fetch redetects the mode.
func Clean(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	log := logging.GetLogger("commands.clean")
	log.Info().Str("dir", cfg.WorkDir).Msg("Cleaning the working directory")

	env := internal.NewEnv(cfg, opts.Deps)
	fsys := env.FS
	result := &Result{}

	outputs := map[string]bool{}
	for _, name := range cfg.Clean.Outputs {
		outputs[name] = true
	}

	var toDelete []string
	if opts.KeepRepos {
		if filesystem.IsFile(fsys, filepath.Join(cfg.WorkDir, "Makefile")) {
			if err := preflight.Check(cfg, preflight.Need{Make: true}, opts.LookPath); err != nil {
				return nil, err
			}
			cmd := executor.Command{Name: cfg.Tools.Make, Args: []string{"VERBOSE=1", "clean"}, Dir: cfg.WorkDir}
			if _, err := env.Runner.Run(ctx, cmd); err != nil {
				return nil, errors.Wrapf(err, errors.ErrCommandExecute, "make clean failed in %s", cfg.WorkDir)
			}
			result.MadeClean = true
		}
	} else if root := filepath.Join(cfg.WorkDir, platform.RootBuildFile); filesystem.IsFile(fsys, root) {
		toDelete = append(toDelete, root)
	}

	stack := []dirEntry{{path: cfg.WorkDir}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fsys.ReadDir(cur.path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", cur.path)
		}

		// files first so repository directories are known before descending
		repoDirs := map[string]bool{}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(cur.path, e.Name())
			switch {
			case repo.IsModeMarker(cfg, e.Name()):
				toDelete = append(toDelete, path)
			case descriptor.IsDescriptor(fsys, path):
				d, err := descriptor.Load(fsys, path, cfg.Repos.DefaultBranch)
				if err != nil || !filesystem.IsDir(fsys, d.Dir) {
					continue
				}
				repoDirs[d.Dir] = true
			case cur.inRepo && (outputs[e.Name()] || e.Name() == platform.RootBuildFile):
				tracked, err := env.Git.IsTracked(ctx, cur.path, e.Name())
				if err != nil {
					return nil, err
				}
				if !tracked {
					toDelete = append(toDelete, path)
					continue
				}
				if err := env.Git.Restore(ctx, cur.path, e.Name()); err != nil {
					return nil, err
				}
				result.Restored = append(result.Restored, path)
			case !cur.inRepo && outputs[e.Name()]:
				toDelete = append(toDelete, path)
			}
		}

		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			if !e.IsDir() || e.Name() == git.MetadataDir {
				continue
			}
			path := filepath.Join(cur.path, e.Name())
			switch {
			case repoDirs[path] && !opts.KeepRepos:
				toDelete = append(toDelete, path)
			case repoDirs[path]:
				stack = append(stack, dirEntry{path: path, inRepo: true})
			case !cur.inRepo && outputs[e.Name()]:
				toDelete = append(toDelete, path)
			default:
				stack = append(stack, dirEntry{path: path, inRepo: cur.inRepo})
			}
		}
	}

	for _, path := range toDelete {
		log.Debug().Str("path", path).Msg("Deleting")
		if err := filesystem.ForceRemoveAll(fsys, path); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to delete %s", path)
		}
		result.Deleted = append(result.Deleted, path)
	}
	return result, nil
}
