// Package download fetches plain files over HTTP for reference descriptors
// that do not point at a version-control remote.
package download

import (
	"context"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/rs/zerolog"
)

// Downloader stores the body of url inside destDir and returns the file path
type Downloader interface {
	Download(ctx context.Context, url, destDir string) (string, error)
}

// HTTPDownloader implements Downloader with net/http
type HTTPDownloader struct {
	client *http.Client
	fs     types.FS
	logger zerolog.Logger
}

// New creates an HTTPDownloader. A nil client means http.DefaultClient.
func New(fsys types.FS, client *http.Client) *HTTPDownloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPDownloader{
		client: client,
		fs:     fsys,
		logger: logging.GetLogger("download"),
	}
}

// FileName is the last path segment of url, the name the file is saved as
func FileName(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return path.Base(strings.TrimRight(url, "/"))
}

// Download implements Downloader. destDir must already exist.
func (d *HTTPDownloader) Download(ctx context.Context, url, destDir string) (string, error) {
	if !filesystem.IsDir(d.fs, destDir) {
		return "", errors.Newf(errors.ErrNotFound, "%s does not exist or not a directory", destDir)
	}
	name := FileName(url)
	if name == "" || name == "." || name == "/" {
		return "", errors.Newf(errors.ErrInvalidInput, "cannot derive a file name from %s", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid download URL %s", url)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to download %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Newf(errors.ErrFileAccess, "failed to download %s: %s", url, resp.Status).
			WithDetail("status", resp.StatusCode)
	}

	dest := filepath.Join(destDir, name)
	f, err := d.fs.Create(dest)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", dest)
	}
	n, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = d.fs.Remove(dest)
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", url)
	}
	d.logger.Debug().Str("url", url).Str("file", dest).Int64("bytes", n).Msg("Downloaded")
	return dest, nil
}
