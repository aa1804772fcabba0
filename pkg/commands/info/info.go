package info

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/paldeploy/pkg/commands/internal"
	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/platform"
	"github.com/arthur-debert/paldeploy/pkg/preflight"
	"github.com/arthur-debert/paldeploy/pkg/types"
)

// Options defines the options for the Info command
type Options struct {
	Config config.Config
	internal.Deps
	// TempDir receives the throwaway checkout; a fresh OS temp directory,
	// removed afterwards, when empty
	TempDir  string
	LookPath preflight.LookPath
}

// AxisInfo lists the supported names of one axis
type AxisInfo struct {
	Axis      platform.Axis `json:"axis" yaml:"axis"`
	Supported []string      `json:"supported" yaml:"supported"`
}

// Result is what the platform tree supports
type Result struct {
	Root types.Reference `json:"root" yaml:"root"`
	Axes []AxisInfo      `json:"axes" yaml:"axes"`
}

// Info shallow-fetches the platform tree named by the work directory's
// root descriptor into a temporary directory and lists what it supports.
// The work directory is not modified.
func Info(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	cfg.Fetch.Shallow = true
	log := logging.GetLogger("commands.info")

	if err := preflight.Check(cfg, preflight.Need{Git: true}, opts.LookPath); err != nil {
		return nil, err
	}

	env := internal.NewEnv(cfg, opts.Deps)
	name := cfg.Repos.RootName + types.ExtReference
	src := filepath.Join(cfg.WorkDir, name)
	if !filesystem.IsFile(env.FS, src) {
		return nil, errors.Newf(errors.ErrNotFound, "%s not found in %s", name, cfg.WorkDir).
			WithDetail("dir", cfg.WorkDir)
	}

	tempDir := opts.TempDir
	if tempDir == "" {
		dir, err := os.MkdirTemp("", "paldeploy-info-")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to create temporary directory")
		}
		defer func() {
			if err := filesystem.ForceRemoveAll(env.FS, dir); err != nil {
				log.Warn().Err(err).Str("dir", dir).Msg("Failed to remove temporary directory")
			}
		}()
		tempDir = dir
	}

	dst := filepath.Join(tempDir, name)
	if err := filesystem.CopyFile(env.FS, src, dst); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to copy %s", src)
	}
	root, err := env.Factory.OpenRef(dst)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("url", root.Reference().URL).Str("dir", root.Dir()).Msg("Fetching platform tree")
	if err := root.FetchVCS(ctx); err != nil {
		return nil, err
	}
	if err := platform.CheckCompatibility(env.FS, cfg, root.Dir()); err != nil {
		return nil, err
	}

	result := &Result{Root: root.Reference()}
	for _, axis := range platform.Axes {
		names, err := platform.Supported(env.FS, root.Dir(), axis)
		if err != nil {
			return nil, err
		}
		result.Axes = append(result.Axes, AxisInfo{Axis: axis, Supported: names})
	}
	return result, nil
}
