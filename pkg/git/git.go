package git

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/descriptor"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/executor"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/logging"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/rs/zerolog"
)

// MetadataDir is the version-control metadata folder inside a checkout
const MetadataDir = ".git"

// headsRefspec is always fetched; the pull request refspecs are best effort
const headsRefspec = "refs/heads/*:refs/remotes/origin/*"

var pullRefspecs = []string{
	"refs/pull/*/head:refs/remotes/origin-pull/pull/*/head",
	"refs/pull/*/merge:refs/remotes/origin-pull/pull/*/merge",
}

// Client drives the git executable for one deploy run
type Client struct {
	runner executor.Runner
	fs     types.FS
	cfg    config.Config
	logger zerolog.Logger
}

// New creates a Client
func New(cfg config.Config, fsys types.FS, runner executor.Runner) *Client {
	return &Client{
		runner: runner,
		fs:     fsys,
		cfg:    cfg,
		logger: logging.GetLogger("git"),
	}
}

// HasCheckout reports whether dir holds a git working tree
func (c *Client) HasCheckout(dir string) bool {
	return filesystem.IsDir(c.fs, filepath.Join(dir, MetadataDir))
}

// Sync brings dir to ref. A missing checkout is cloned without checkout
// (shallow when configured and ref is not a commit hash) and the extended
// refspecs fetched. An existing checkout must have ref.URL as its origin;
// it is reset when forced, then updated: commit hashes by fetching the
// refspecs, movable refs by a rebase pull. Both paths end by checking out
// ref exactly.
func (c *Client) Sync(ctx context.Context, dir string, ref types.Reference) error {
	if !ref.Valid() {
		return errors.Newf(errors.ErrDescriptorInvalid, "cannot fetch %s: not a valid repo reference", dir)
	}
	isHash := ref.IsCommitHash()

	if !c.HasCheckout(dir) {
		c.logger.Info().Str("url", ref.URL).Str("dir", dir).Msg("Cloning")
		args := []string{"clone", "--progress", "--no-checkout", ref.URL, dir}
		if !isHash && c.cfg.Fetch.Shallow {
			args = append(args, "--depth=1")
		}
		if _, err := c.git(ctx, filepath.Dir(dir), args...); err != nil {
			return errors.Wrapf(err, errors.ErrVCSExecute, "failed to clone %s into %s", ref.URL, dir)
		}
		if err := c.fetchRefspecs(ctx, dir); err != nil {
			return err
		}
	} else {
		if err := c.verifyOrigin(ctx, dir, ref); err != nil {
			return err
		}

		c.logger.Info().Str("url", ref.URL).Str("dir", dir).Msg("Already exists, updating")
		if c.cfg.Fetch.Force {
			if _, err := c.git(ctx, dir, "checkout", "--", "."); err != nil {
				return errors.Wrapf(err, errors.ErrVCSExecute, "failed to discard local changes in %s", dir)
			}
		}

		if isHash {
			if err := c.fetchRefspecs(ctx, dir); err != nil {
				return err
			}
		} else if _, err := c.git(ctx, dir, "pull", "--rebase", "--tags", "--all"); err != nil {
			stderr, _ := errors.GetErrorDetails(err)["stderr"].(string)
			return errors.Newf(errors.ErrVCSConflict, "failed to update %s: %s", dir, stderr).
				WithDetail("dir", dir).
				WithDetail("url", ref.URL)
		}
	}

	c.logger.Info().Str("url", ref.URL).Str("ref", ref.Ref).Msg("Checking out")
	for _, args := range [][]string{
		{"config", "advice.detachedHead", "false"},
		{"config", "core.longpaths", "true"},
		{"checkout", ref.Ref},
	} {
		if _, err := c.git(ctx, dir, args...); err != nil {
			return errors.Wrapf(err, errors.ErrVCSExecute, "git %s failed in %s", strings.Join(args, " "), dir)
		}
	}
	return nil
}

// verifyOrigin fails unless the origin of dir is the descriptor URL. It
// runs before anything mutates dir.
func (c *Client) verifyOrigin(ctx context.Context, dir string, ref types.Reference) error {
	remote, err := c.RemoteURL(ctx, dir)
	if err != nil {
		return err
	}
	if remote != ref.URL {
		return errors.Newf(errors.ErrRemoteMismatch, "origin of %s is %s, descriptor points to %s", dir, remote, ref.URL).
			WithDetail("dir", dir)
	}
	return nil
}

func (c *Client) fetchRefspecs(ctx context.Context, dir string) error {
	args := append([]string{"fetch", "--tags", "origin", headsRefspec}, pullRefspecs...)
	if _, err := c.git(ctx, dir, args...); err == nil {
		return nil
	}

	c.logger.Debug().Str("dir", dir).Msg("Remote rejected pull request refspecs, fetching branches only")
	if _, err := c.git(ctx, dir, "fetch", "--tags", "origin", headsRefspec); err != nil {
		return errors.Wrapf(err, errors.ErrVCSExecute, "failed to fetch %s", dir)
	}
	return nil
}

// RemoteURL returns the normalized origin URL of the checkout in dir
func (c *Client) RemoteURL(ctx context.Context, dir string) (string, error) {
	res, err := c.git(ctx, dir, "ls-remote", "--get-url")
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrVCSExecute, "failed to read origin of %s", dir)
	}
	remote, err := descriptor.Parse([]byte(res.Stdout), c.cfg.Repos.DefaultBranch)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRemoteMismatch, "origin of %s is not a repo URL", dir)
	}
	return remote.URL, nil
}

// IsRemote checks url with ls-remote
func (c *Client) IsRemote(ctx context.Context, url string) bool {
	if url == "" {
		return false
	}
	_, err := c.git(ctx, "", "ls-remote", url)
	return err == nil
}

// IsTracked reports whether file (relative to dir) is tracked by git
func (c *Client) IsTracked(ctx context.Context, dir, file string) (bool, error) {
	res, err := c.git(ctx, dir, "ls-files", file)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrVCSExecute, "git ls-files failed in %s", dir)
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

// Restore discards local modifications of a tracked file
func (c *Client) Restore(ctx context.Context, dir, file string) error {
	if _, err := c.git(ctx, dir, "checkout", "--", file); err != nil {
		return errors.Wrapf(err, errors.ErrVCSExecute, "failed to restore %s in %s", file, dir)
	}
	return nil
}

func (c *Client) git(ctx context.Context, dir string, args ...string) (executor.Result, error) {
	return c.runner.Run(ctx, executor.Command{Name: c.cfg.Tools.Git, Args: args, Dir: dir})
}
