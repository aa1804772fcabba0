package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.WorkDir)
	assert.Equal(t, "master", cfg.Repos.DefaultBranch)
	assert.Equal(t, "github.com", cfg.Repos.TrustedHost)
	assert.Equal(t, "mbed-os", cfg.Repos.LargeOSName)
	assert.Equal(t, "pal-platform", cfg.Repos.RootName)
	assert.Equal(t, "mbedCloudClientCmake.txt", cfg.Platform.CompatFile)
	assert.Equal(t, "git", cfg.Tools.Git)
	assert.NotEmpty(t, cfg.Tools.Patch)
	assert.NotEmpty(t, cfg.Tools.Make)
	assert.Contains(t, cfg.Clean.Outputs, "CMakeCache.txt")
	assert.False(t, cfg.Fetch.Shallow)
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	content := `
[repos]
default_branch = "main"
trusted_host = "git.example.com"

[fetch]
shallow = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load(dir, nil)
		require.NoError(t, err)
		assert.Equal(t, "main", cfg.Repos.DefaultBranch)
		assert.Equal(t, "git.example.com", cfg.Repos.TrustedHost)
		assert.True(t, cfg.Fetch.Shallow)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PALDEPLOY_REPOS__DEFAULT_BRANCH", "develop")
		t.Setenv("PALDEPLOY_SELECTION__MIDDLEWARE", "mbedtls, lwip")

		cfg, err := Load(dir, nil)
		require.NoError(t, err)
		assert.Equal(t, "develop", cfg.Repos.DefaultBranch)
		assert.Equal(t, []string{"mbedtls", "lwip"}, cfg.Selection.Middleware)
	})

	t.Run("overrides win", func(t *testing.T) {
		t.Setenv("PALDEPLOY_REPOS__DEFAULT_BRANCH", "develop")

		cfg, err := Load(dir, map[string]interface{}{
			"repos.default_branch": "release",
			"fetch.shallow":        false,
			"fetch.force":          true,
			"selection.device":     "K64F",
		})
		require.NoError(t, err)
		assert.Equal(t, "release", cfg.Repos.DefaultBranch)
		assert.False(t, cfg.Fetch.Shallow)
		assert.True(t, cfg.Fetch.Force)
		assert.Equal(t, "K64F", cfg.Selection.Device)
	})
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("[repos\nbroken"), 0644))

	_, err := Load(dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileName)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadInvalidOverride(t *testing.T) {
	_, err := Load(t.TempDir(), map[string]interface{}{"fetch.shallow": "sometimes"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestDefault(t *testing.T) {
	cfg := Default("/work")
	assert.Equal(t, "/work", cfg.WorkDir)
	assert.Equal(t, "master", cfg.Repos.DefaultBranch)
	assert.Equal(t, "MBED_CLOUD_CLIENT_BUILD_SYS_MIN_VER_CMAKE", cfg.Platform.CompatVariable)
	assert.Empty(t, cfg.Selection.Middleware)
}

func TestValueSemantics(t *testing.T) {
	cfg := Default("/work")
	shallow := cfg
	shallow.Fetch.Shallow = true
	assert.False(t, cfg.Fetch.Shallow)
}
