package platform

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/types"
)

// BuildSysMinVersion is the build system version this tool generates for.
// The platform tree declares the version it expects in its compatibility
// file and both must match.
const BuildSysMinVersion = "2"

// ToolName appears in compatibility messages
const ToolName = "paldeploy"

// TreeVersion reads the build system version declared by the platform tree
func TreeVersion(fsys types.FS, cfg config.Config, rootDir string) (*semver.Version, error) {
	file := filepath.Join(rootDir, cfg.Platform.CompatFile)
	data, err := fsys.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", file)
	}

	pattern := regexp.MustCompile(`\s*set\s*\(\s*` + regexp.QuoteMeta(cfg.Platform.CompatVariable) + `\s*(\d+)\s*\)`)
	m := pattern.FindSubmatch(data)
	if m == nil {
		return nil, errors.Newf(errors.ErrIncompatible, "%s does not declare %s", file, cfg.Platform.CompatVariable).
			WithDetail("file", file)
	}
	v, err := semver.NewVersion(string(m[1]))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIncompatible, "%s declares an invalid %s", file, cfg.Platform.CompatVariable)
	}
	return v, nil
}

// CheckCompatibility fails unless the platform tree declares exactly
// BuildSysMinVersion. The message tells which side needs updating.
func CheckCompatibility(fsys types.FS, cfg config.Config, rootDir string) error {
	tree, err := TreeVersion(fsys, cfg, rootDir)
	if err != nil {
		return err
	}
	tool := semver.MustParse(BuildSysMinVersion)
	if tool.Equal(tree) {
		return nil
	}

	logger := logging.GetLogger("platform")
	logger.Error().
		Str("tree", tree.Original()).
		Str("tool", tool.Original()).
		Msgf("%s build-sys-ver and tool's min-build-sys-ver are different", cfg.Repos.RootName)

	var msg string
	if tool.GreaterThan(tree) {
		msg = fmt.Sprintf("%s only works with newer %s tree, please update %s", ToolName, cfg.Repos.RootName, cfg.Repos.RootName)
	} else {
		msg = fmt.Sprintf("%s only works with older %s tree, please update %s", ToolName, cfg.Repos.RootName, ToolName)
	}
	return errors.New(errors.ErrIncompatible, msg).
		WithDetail("tree_version", tree.Original()).
		WithDetail("tool_version", tool.Original())
}
