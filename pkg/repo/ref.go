package repo

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/download"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/pelletier/go-toml/v2"
)

// Mode is how a reference handle's directory was produced
type Mode string

const (
	ModeVCS  Mode = "vcs"
	ModeCopy Mode = "copy"
)

// ModeMarker is persisted next to a reference descriptor after each fetch
type ModeMarker struct {
	Mode      Mode      `toml:"mode"`
	URL       string    `toml:"url"`
	Ref       string    `toml:"ref"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// Ref is a handle for a .ref descriptor
type Ref struct {
	*Base
	downloader download.Downloader
}

// IsModeMarker reports whether a file name is a reference mode marker
func IsModeMarker(cfg config.Config, name string) bool {
	suffix := cfg.Repos.ModeMarkerSuffix
	return suffix != "" && len(name) > len(suffix)+1 &&
		strings.HasPrefix(name, ".") && strings.HasSuffix(name, suffix)
}

// MarkerPath is where the mode marker of the handle lives:
// <descriptor dir>/.<name><suffix>
func (r *Ref) MarkerPath() string {
	return filepath.Join(filepath.Dir(r.Path()), "."+r.Name()+r.cfg.Repos.ModeMarkerSuffix)
}

// Fetch updates the handle directory. A directory produced by an earlier
// run is updated the way its marker records unless the update is forced;
// otherwise the URL is checked and a git remote is synced while anything
// else is copied or downloaded from the descriptor tokens.
func (r *Ref) Fetch(ctx context.Context) error {
	mode, recorded := r.recordedMode()
	if !recorded {
		mode = r.detectMode(ctx)
	}
	r.logger.Debug().Str("mode", string(mode)).Bool("recorded", recorded).Msg("Fetching reference")

	var err error
	switch mode {
	case ModeVCS:
		err = r.vcs.Sync(ctx, r.Dir(), r.Reference())
	default:
		err = r.copy(ctx)
	}
	if err != nil {
		return err
	}
	return r.writeMarker(mode)
}

// FetchVCS syncs with git without probing or consulting the marker
func (r *Ref) FetchVCS(ctx context.Context) error {
	if !r.Reference().Valid() {
		return errors.Newf(errors.ErrDescriptorInvalid, "%s: %q is not a valid repo reference", r.Path(), r.Raw()).
			WithDetail("path", r.Path())
	}
	return r.vcs.Sync(ctx, r.Dir(), r.Reference())
}

// Marker returns the persisted marker, if any
func (r *Ref) Marker() (ModeMarker, bool) {
	data, err := r.fs.ReadFile(r.MarkerPath())
	if err != nil {
		return ModeMarker{}, false
	}
	var m ModeMarker
	if err := toml.Unmarshal(data, &m); err != nil {
		r.logger.Warn().Err(err).Str("marker", r.MarkerPath()).Msg("Ignoring unreadable mode marker")
		return ModeMarker{}, false
	}
	return m, m.Mode == ModeVCS || m.Mode == ModeCopy
}

func (r *Ref) recordedMode() (Mode, bool) {
	if r.cfg.Fetch.Force || !r.Exists() {
		return "", false
	}
	m, ok := r.Marker()
	if !ok || m.URL != r.Reference().URL {
		return "", false
	}
	return m.Mode, true
}

func (r *Ref) detectMode(ctx context.Context) Mode {
	url := r.Reference().URL
	if url != "" && r.vcs.IsRemote(ctx, url) {
		return ModeVCS
	}
	return ModeCopy
}

func (r *Ref) writeMarker(mode Mode) error {
	data, err := toml.Marshal(ModeMarker{
		Mode:      mode,
		URL:       r.Reference().URL,
		Ref:       r.Reference().Ref,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to encode mode marker for %s", r.Path())
	}
	if err := r.fs.WriteFile(r.MarkerPath(), data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", r.MarkerPath())
	}
	return nil
}

// copy rebuilds the directory from the descriptor tokens: local
// directories are copied recursively, local files copied in, anything else
// downloaded. Download failures are logged and skipped.
func (r *Ref) copy(ctx context.Context) error {
	dir := r.Dir()
	if r.Exists() {
		r.logger.Warn().Str("dir", dir).Msg("Deleting")
		if err := filesystem.ForceRemoveAll(r.fs, dir); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to delete %s", dir)
		}
	}

	base := filepath.Dir(r.Path())
	for _, token := range strings.Fields(r.Raw()) {
		local := token
		if !filepath.IsAbs(local) {
			local = filepath.Join(base, local)
		}

		switch {
		case filesystem.IsDir(r.fs, local):
			r.logger.Info().Str("from", local).Str("to", dir).Msg("Copying from local folder")
			if err := filesystem.CopyTree(r.fs, local, dir); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to copy %s to %s", local, dir)
			}
		case filesystem.IsFile(r.fs, local):
			dest := filepath.Join(dir, filepath.Base(local))
			if err := filesystem.CopyFile(r.fs, local, dest); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to copy %s to %s", local, dest)
			}
		default:
			if err := r.fs.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to create %s", dir)
			}
			r.logger.Info().Str("url", token).Str("dir", dir).Msg("Downloading")
			if _, err := r.downloader.Download(ctx, token, dir); err != nil {
				r.logger.Warn().Err(err).Str("url", token).Msg("Skipping download, will use local copy")
			}
		}
	}
	return nil
}
