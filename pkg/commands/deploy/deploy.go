package deploy

import (
	"context"

	"github.com/arthur-debert/paldeploy/pkg/commands/internal"
	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/preflight"
	"github.com/arthur-debert/paldeploy/pkg/walker"
	"github.com/google/uuid"
)

// Options defines the options for the Deploy command
type Options struct {
	Config config.Config
	internal.Deps
	// LookPath overrides tool discovery in tests
	LookPath preflight.LookPath
}

// Result describes a finished deployment
type Result struct {
	RunID string
	// OutDir holds the generated build configuration
	OutDir string
	Report walker.Report
}

// Deploy fetches every repository reachable from the work directory, then
// composes the selected platforms on top of the platform tree.
func Deploy(ctx context.Context, opts Options) (result *Result, err error) {
	cfg := opts.Config
	runID := uuid.NewString()
	log := logging.ForRun("commands.deploy", runID)
	done := logging.Timed(log, "deploy")
	defer func() { done(err) }()

	if err := cfg.Selection.Validate(); err != nil {
		return nil, err
	}
	if err := preflight.Check(cfg, preflight.Need{Git: true, Patch: true}, opts.LookPath); err != nil {
		return nil, err
	}

	env := internal.NewEnv(cfg, opts.Deps)

	report, err := env.Walker.Run(ctx, cfg.WorkDir)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("discovered", len(report.Discovered)).
		Int("fetched", len(report.Fetched)).
		Int("excluded", len(report.Excluded)).
		Msg("Repositories processed")

	if !report.Root.Exists() {
		return nil, errors.Newf(errors.ErrNotFound, "%s has not been fetched into %s", cfg.Repos.RootName, report.Root.Dir()).
			WithDetail("dir", report.Root.Dir())
	}

	outDir, err := env.Composer.Deploy(ctx, report.Root)
	if err != nil {
		return nil, err
	}
	log.Info().Str("out_dir", outDir).Msg("Deployment finished")

	return &Result{RunID: runID, OutDir: outDir, Report: report}, nil
}
