package patch

import (
	"context"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/rs/zerolog"
)

// Engine decides whether a patch needs applying or reverting
type Engine struct {
	fs     types.FS
	tool   Tool
	logger zerolog.Logger
}

// NewEngine creates an Engine
func NewEngine(fsys types.FS, tool Tool) *Engine {
	return &Engine{fs: fsys, tool: tool, logger: logging.GetLogger("patch")}
}

// ApplyOrRevert brings file to the requested state and returns whether it
// is integrated afterwards. Applying an integrated patch and reverting a
// patch that is not integrated are no-ops.
func (e *Engine) ApplyOrRevert(ctx context.Context, file string, reverse bool) (bool, error) {
	if reverse {
		e.logger.Info().Str("patch", file).Msg("Reverting")
	} else {
		e.logger.Info().Str("patch", file).Msg("Applying")
	}

	p, err := Load(e.fs, file)
	if err != nil {
		return false, err
	}
	e.logger.Debug().Str("patch", file).Int("strip", p.Strip).Msg("Patch file relative strip")

	integrated := e.tool.Integrated(ctx, p)
	switch {
	case integrated && reverse:
		if err := e.tool.Revert(ctx, p); err != nil {
			return true, errors.Wrapf(err, errors.ErrPatchApply, "reverting %s on %s failed", file, p.Dir).
				WithDetail("patch", file)
		}
		e.logger.Info().Str("patch", file).Str("dir", p.Dir).Msg("Successfully un-applied")
		return false, nil
	case integrated:
		e.logger.Info().Str("patch", file).Msg("Already integrated, no need to patch")
		return true, nil
	case reverse:
		e.logger.Debug().Str("patch", file).Msg("Not integrated, nothing to revert")
		return false, nil
	}

	if err := e.tool.Check(ctx, p); err != nil {
		return false, e.applyFailed(err, p)
	}
	if err := e.tool.Apply(ctx, p); err != nil {
		return false, e.applyFailed(err, p)
	}
	e.logger.Info().Str("patch", file).Str("dir", p.Dir).Msg("Successfully applied")
	return true, nil
}

func (e *Engine) applyFailed(err error, p Patch) error {
	return errors.Wrapf(err, errors.ErrPatchApply, "applying %s on %s failed, check that target directory is clean", p.File, p.Dir).
		WithDetail("patch", p.File).
		WithDetail("dir", p.Dir)
}
