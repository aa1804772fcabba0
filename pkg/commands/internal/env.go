// Package internal wires the components shared by the commands.
package internal

import (
	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/download"
	"github.com/arthur-debert/paldeploy/pkg/executor"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/git"
	"github.com/arthur-debert/paldeploy/pkg/patch"
	"github.com/arthur-debert/paldeploy/pkg/platform"
	"github.com/arthur-debert/paldeploy/pkg/repo"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/arthur-debert/paldeploy/pkg/walker"
)

// Deps are the process-level capabilities; nil fields get production
// implementations.
type Deps struct {
	FS         types.FS
	Runner     executor.Runner
	Downloader download.Downloader
}

// Env is one fully wired set of components for a configuration
type Env struct {
	Config   config.Config
	FS       types.FS
	Runner   executor.Runner
	Git      *git.Client
	Factory  *repo.Factory
	Walker   *walker.Walker
	Patches  *patch.Engine
	Composer *platform.Composer
}

// NewEnv wires every component for cfg
func NewEnv(cfg config.Config, deps Deps) *Env {
	fsys := deps.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	runner := deps.Runner
	if runner == nil {
		runner = executor.NewProcessRunner(cfg.Verbose)
	}
	downloader := deps.Downloader
	if downloader == nil {
		downloader = download.New(fsys, nil)
	}

	gitClient := git.New(cfg, fsys, runner)
	factory := repo.NewFactory(cfg, fsys, gitClient, downloader)
	w := walker.New(cfg, fsys, factory)
	patches := patch.NewEngine(fsys, patch.NewGNUPatch(runner, cfg.Tools.Patch, cfg.Verbose))

	return &Env{
		Config:   cfg,
		FS:       fsys,
		Runner:   runner,
		Git:      gitClient,
		Factory:  factory,
		Walker:   w,
		Patches:  patches,
		Composer: platform.NewComposer(cfg, fsys, factory, w, patches),
	}
}
