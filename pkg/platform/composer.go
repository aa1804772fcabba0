package platform

import (
	"bytes"
	"context"
	_ "embed"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/repo"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/rs/zerolog"
)

//go:embed templates/autogen.cmake.tmpl
var autogenSource string

var autogenTemplate = template.Must(template.New("autogen").Parse(autogenSource))

// RootBuildFile is created in the work directory when missing
const RootBuildFile = "CMakeLists.txt"

const rootBuildContent = "ADDSUBDIRS()\n"

// absent is rendered for axes without a selection
const absent = " "

// NestedFetcher fetches the descriptors a platform repository carries
type NestedFetcher interface {
	FetchAll(ctx context.Context, dir string) ([]string, error)
}

// Patcher applies or reverts one patch file
type Patcher interface {
	ApplyOrRevert(ctx context.Context, file string, reverse bool) (bool, error)
}

// Composer assembles the selected platforms on top of the platform tree
type Composer struct {
	cfg     config.Config
	fs      types.FS
	refs    RefOpener
	nested  NestedFetcher
	patcher Patcher
	logger  zerolog.Logger
}

// NewComposer creates a Composer
func NewComposer(cfg config.Config, fsys types.FS, refs RefOpener, nested NestedFetcher, patcher Patcher) *Composer {
	return &Composer{
		cfg:     cfg,
		fs:      fsys,
		refs:    refs,
		nested:  nested,
		patcher: patcher,
		logger:  logging.GetLogger("platform"),
	}
}

// Platforms validates the selection against rootDir and returns the
// selected platforms: Device, OS, Toolchain, SDK, then each middleware.
func (c *Composer) Platforms(rootDir string) ([]*Platform, error) {
	sel := c.cfg.Selection
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	type choice struct {
		axis Axis
		name string
	}
	wanted := []choice{
		{AxisDevice, sel.Device},
		{AxisOS, sel.OS},
		{AxisToolchain, sel.Toolchain},
		{AxisSDK, sel.SDK},
	}
	for _, mw := range sel.Middleware {
		wanted = append(wanted, choice{AxisMiddleware, mw})
	}

	var platforms []*Platform
	for _, w := range wanted {
		if w.name == "" {
			continue
		}
		p, err := New(c.fs, c.refs, rootDir, w.axis, w.name)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return platforms, nil
}

// Deploy checks compatibility with the platform tree of root, fetches the
// selected platforms unless updates are skipped, applies every patch and
// writes the generated build files. It returns the output directory.
func (c *Composer) Deploy(ctx context.Context, root repo.Handle) (string, error) {
	rootDir := root.Dir()
	if err := CheckCompatibility(c.fs, c.cfg, rootDir); err != nil {
		return "", err
	}

	platforms, err := c.Platforms(rootDir)
	if err != nil {
		return "", err
	}

	if !c.cfg.Fetch.SkipUpdate {
		for _, p := range platforms {
			if err := c.fetch(ctx, p); err != nil {
				return "", err
			}
		}
	}

	for _, p := range platforms {
		if p.PatchFile == "" {
			continue
		}
		if _, err := c.patcher.ApplyOrRevert(ctx, p.PatchFile, false); err != nil {
			return "", err
		}
	}

	outDir, err := c.Generate(filepath.Dir(rootDir), platforms)
	if err != nil {
		return "", err
	}

	compat := filepath.Join(rootDir, c.cfg.Platform.CompatFile)
	target := filepath.Join(outDir, RootBuildFile)
	if err := filesystem.CopyFile(c.fs, compat, target); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to copy %s to %s", compat, target)
	}
	return outDir, nil
}

// fetch updates the platform repository. An existing patched tree is
// reverted first so the update sees pristine sources.
func (c *Composer) fetch(ctx context.Context, p *Platform) error {
	if p.Repo == nil {
		return nil
	}
	if p.PatchFile != "" && p.Repo.Exists() {
		if _, err := c.patcher.ApplyOrRevert(ctx, p.PatchFile, true); err != nil {
			return err
		}
	}
	if err := p.Repo.Fetch(ctx); err != nil {
		return err
	}
	if !p.Repo.Exists() {
		return nil
	}
	fetched, err := c.nested.FetchAll(ctx, p.Repo.Dir())
	if err != nil {
		return err
	}
	if len(fetched) > 0 {
		c.logger.Debug().Str("platform", p.Name).Strs("repos", fetched).Msg("Fetched nested repositories")
	}
	return nil
}

// AutogenValues feeds the generated CMake fragment
type AutogenValues struct {
	SDK                string
	OS                 string
	Device             string
	Middleware         string
	Toolchain          string
	BuildSysMinVersion string
}

// Values collects the template values for platforms
func Values(platforms []*Platform) AutogenValues {
	v := AutogenValues{
		SDK:                absent,
		OS:                 absent,
		Device:             absent,
		Toolchain:          absent,
		BuildSysMinVersion: BuildSysMinVersion,
	}
	var mw []string
	for _, p := range platforms {
		switch p.Axis {
		case AxisSDK:
			v.SDK = p.Name
		case AxisOS:
			v.OS = p.Name
		case AxisDevice:
			v.Device = p.Name
		case AxisToolchain:
			v.Toolchain = p.Name
		case AxisMiddleware:
			mw = append(mw, p.Name)
		}
	}
	v.Middleware = strings.Join(mw, " ")
	return v
}

// RenderAutogen renders the generated CMake fragment
func RenderAutogen(v AutogenValues) ([]byte, error) {
	var buf bytes.Buffer
	if err := autogenTemplate.Execute(&buf, v); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render autogen template")
	}
	return buf.Bytes(), nil
}

// OutDirName is <prefix><sdk>, or <prefix><device>_<os> without an SDK
func OutDirName(prefix string, v AutogenValues) string {
	if v.SDK != absent {
		return prefix + v.SDK
	}
	return prefix + v.Device + "_" + v.OS
}

// Generate writes the autogen file into the output directory under
// parentDir and creates parentDir/CMakeLists.txt when it does not exist.
func (c *Composer) Generate(parentDir string, platforms []*Platform) (string, error) {
	values := Values(platforms)
	outDir := filepath.Join(parentDir, OutDirName(c.cfg.Platform.OutDirPrefix, values))
	if err := c.fs.MkdirAll(outDir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to create %s", outDir)
	}

	content, err := RenderAutogen(values)
	if err != nil {
		return "", err
	}
	autogen := filepath.Join(outDir, c.cfg.Platform.AutogenFile)
	if err := c.fs.WriteFile(autogen, content, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", autogen)
	}
	c.logger.Info().Str("file", autogen).Msg("Generated")

	parentBuild := filepath.Join(parentDir, RootBuildFile)
	if !filesystem.IsFile(c.fs, parentBuild) {
		if err := c.fs.WriteFile(parentBuild, []byte(rootBuildContent), 0644); err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", parentBuild)
		}
		c.logger.Info().Str("file", parentBuild).Msg("Generated")
	}
	return outDir, nil
}
