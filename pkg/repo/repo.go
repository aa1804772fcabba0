package repo

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/descriptor"
	"github.com/arthur-debert/paldeploy/pkg/download"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/rs/zerolog"
)

// VCS is the part of the git client handles depend on
type VCS interface {
	Sync(ctx context.Context, dir string, ref types.Reference) error
	IsRemote(ctx context.Context, url string) bool
	HasCheckout(dir string) bool
}

// Handle is one node of the dependency graph
type Handle interface {
	// Path of the descriptor file, the identity of the handle
	Path() string
	Name() string
	// Dir is the directory the repository is materialized into
	Dir() string
	Reference() types.Reference
	Kind() types.Kind
	Fetch(ctx context.Context) error
	// IsExcluded reports whether the walker must not fetch this handle
	IsExcluded() bool
	// Exists reports whether Dir is present on disk
	Exists() bool
	HasCheckout() bool
}

// Base carries what both handle kinds share
type Base struct {
	desc   descriptor.Descriptor
	cfg    config.Config
	fs     types.FS
	vcs    VCS
	logger zerolog.Logger
}

func (b *Base) Path() string               { return b.desc.Path }
func (b *Base) Name() string               { return b.desc.Name }
func (b *Base) Dir() string                { return b.desc.Dir }
func (b *Base) Reference() types.Reference { return b.desc.Reference }
func (b *Base) Kind() types.Kind           { return b.desc.Kind }

// Raw is the trimmed descriptor body
func (b *Base) Raw() string { return b.desc.Raw }

// IsExcluded is true for the large OS tree unless fetching it was allowed
func (b *Base) IsExcluded() bool {
	name := b.cfg.Repos.LargeOSName
	return name != "" && strings.Contains(b.desc.Reference.URL, name) && !b.cfg.Fetch.AllowLargeOS
}

func (b *Base) Exists() bool      { return filesystem.IsDir(b.fs, b.desc.Dir) }
func (b *Base) HasCheckout() bool { return b.vcs.HasCheckout(b.desc.Dir) }

// IsRoot reports whether h is the platform tree repository: its name is
// rootName and its URL mentions it.
func IsRoot(h Handle, rootName string) bool {
	if h == nil {
		return false
	}
	return h.Name() == rootName && strings.Contains(h.Reference().URL, rootName)
}

// Factory opens descriptor files as handles
type Factory struct {
	cfg        config.Config
	fs         types.FS
	vcs        VCS
	downloader download.Downloader
}

// NewFactory creates a Factory sharing one git client and downloader
func NewFactory(cfg config.Config, fsys types.FS, vcs VCS, downloader download.Downloader) *Factory {
	return &Factory{cfg: cfg, fs: fsys, vcs: vcs, downloader: downloader}
}

// Open loads the descriptor at path and builds the handle for its kind
func (f *Factory) Open(path string) (Handle, error) {
	kind, ok := types.KindForPath(path)
	if !ok {
		return nil, errors.Newf(errors.ErrDescriptorInvalid, "%s is not a repo file", path).WithDetail("path", path)
	}
	if kind == types.KindLibrary {
		return f.OpenLibrary(path)
	}
	return f.OpenRef(path)
}

// OpenLibrary builds a library handle. The descriptor must mention the
// trusted host and resolve to both a URL and a ref.
func (f *Factory) OpenLibrary(path string) (*Library, error) {
	base, err := f.base(path)
	if err != nil {
		return nil, err
	}
	if host := f.cfg.Repos.TrustedHost; host != "" && !strings.Contains(base.desc.Raw, host) {
		return nil, errors.Newf(errors.ErrDescriptorUntrusted, "%s must point to a %s repository", path, host).
			WithDetail("path", path)
	}
	if !base.desc.Reference.Valid() {
		return nil, errors.Newf(errors.ErrDescriptorInvalid, "%s: %q is not a valid repo reference", path, base.desc.Raw).
			WithDetail("path", path)
	}
	return &Library{Base: base}, nil
}

// OpenRef builds a reference handle
func (f *Factory) OpenRef(path string) (*Ref, error) {
	base, err := f.base(path)
	if err != nil {
		return nil, err
	}
	return &Ref{Base: base, downloader: f.downloader}, nil
}

func (f *Factory) base(path string) (*Base, error) {
	path = filepath.Clean(path)
	desc, err := descriptor.Load(f.fs, path, f.cfg.Repos.DefaultBranch)
	if err != nil {
		return nil, err
	}
	return &Base{
		desc:   desc,
		cfg:    f.cfg,
		fs:     f.fs,
		vcs:    f.vcs,
		logger: logging.GetLogger("repo").With().Str("repo", desc.Name).Logger(),
	}, nil
}

// Library is a handle for a .lib descriptor
type Library struct {
	*Base
}

// Fetch syncs the working tree with git
func (l *Library) Fetch(ctx context.Context) error {
	return l.vcs.Sync(ctx, l.Dir(), l.Reference())
}
