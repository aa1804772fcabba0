package platform_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/platform"
	"github.com/arthur-debert/paldeploy/pkg/repo"
	"github.com/arthur-debert/paldeploy/pkg/testutil"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchCall struct {
	file    string
	reverse bool
}

type fakePatcher struct {
	calls []patchCall
	err   error
}

func (f *fakePatcher) ApplyOrRevert(_ context.Context, file string, reverse bool) (bool, error) {
	f.calls = append(f.calls, patchCall{file, reverse})
	return !reverse, f.err
}

type fakeNested struct {
	dirs []string
}

func (f *fakeNested) FetchAll(_ context.Context, dir string) ([]string, error) {
	f.dirs = append(f.dirs, dir)
	return nil, nil
}

const freeRTOSPatch = "/w/pal-platform/OS/FreeRTOS/FreeRTOS.patch"

type composerFixture struct {
	fs       types.FS
	cfg      config.Config
	vcs      *fakeVCS
	patcher  *fakePatcher
	nested   *fakeNested
	composer *platform.Composer
	root     repo.Handle
}

func newComposerFixture(t *testing.T, extra map[string]string, mutate func(*config.Config)) *composerFixture {
	t.Helper()
	files := map[string]string{
		"/w/pal-platform.ref":                        "https://github.com/ARMmbed/pal-platform#1.3.0",
		"/w/pal-platform/mbedCloudClientCmake.txt":   compatFile("2"),
		"/w/pal-platform/Device/MK64F/":              "",
		"/w/pal-platform/Device/STM32F429/":          "",
		"/w/pal-platform/OS/FreeRTOS/FreeRTOS.ref":   "https://github.com/org/FreeRTOS#v9.0.0",
		"/w/pal-platform/OS/FreeRTOS/FreeRTOS.patch": "--- a/OS/FreeRTOS/FreeRTOS/tasks.c\n",
		"/w/pal-platform/Toolchain/ARMGCC/":          "",
		"/w/pal-platform/Middleware/mbedtls/":        "",
		"/w/pal-platform/Middleware/lwip/lwip.ref":   "https://github.com/org/lwip#STABLE-2_0_3",
		"/w/pal-platform/SDK/Linux_Native/":          "",
	}
	for k, v := range extra {
		files[k] = v
	}
	fsys := filesystem.NewMemory()
	testutil.WriteFiles(t, fsys, files)

	cfg := config.Default("/w")
	cfg.Selection = config.Selection{
		OS:         "FreeRTOS",
		Device:     "MK64F",
		Toolchain:  "ARMGCC",
		Middleware: []string{"mbedtls", "lwip"},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	factory, vcs := newFactory(fsys, cfg)
	root, err := factory.OpenRef("/w/pal-platform.ref")
	require.NoError(t, err)

	f := &composerFixture{
		fs:      fsys,
		cfg:     cfg,
		vcs:     vcs,
		patcher: &fakePatcher{},
		nested:  &fakeNested{},
		root:    root,
	}
	f.composer = platform.NewComposer(cfg, fsys, factory, f.nested, f.patcher)
	return f
}

func TestDeploy(t *testing.T) {
	f := newComposerFixture(t, nil, nil)

	outDir, err := f.composer.Deploy(context.Background(), f.root)
	require.NoError(t, err)

	assert.Equal(t, "/w/__MK64F_FreeRTOS", outDir)
	assert.Equal(t, []string{
		"/w/pal-platform/OS/FreeRTOS/FreeRTOS",
		"/w/pal-platform/Middleware/lwip/lwip",
	}, f.vcs.synced)
	assert.Equal(t, f.vcs.synced, f.nested.dirs)
	assert.Equal(t, []patchCall{{freeRTOSPatch, false}}, f.patcher.calls, "no revert for a fresh checkout")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "autogen_device_os", []byte(testutil.ReadFile(t, f.fs, "/w/__MK64F_FreeRTOS/autogen.cmake")))

	assert.Equal(t, "ADDSUBDIRS()\n", testutil.ReadFile(t, f.fs, "/w/CMakeLists.txt"))
	assert.Equal(t, compatFile("2"), testutil.ReadFile(t, f.fs, "/w/__MK64F_FreeRTOS/CMakeLists.txt"))
}

func TestDeployRevertsBeforeUpdatingPatchedTree(t *testing.T) {
	f := newComposerFixture(t, map[string]string{
		"/w/pal-platform/OS/FreeRTOS/FreeRTOS/.git/": "",
	}, nil)

	_, err := f.composer.Deploy(context.Background(), f.root)
	require.NoError(t, err)
	assert.Equal(t, []patchCall{
		{freeRTOSPatch, true},
		{freeRTOSPatch, false},
	}, f.patcher.calls)
}

func TestDeploySkipUpdate(t *testing.T) {
	f := newComposerFixture(t, nil, func(c *config.Config) { c.Fetch.SkipUpdate = true })

	_, err := f.composer.Deploy(context.Background(), f.root)
	require.NoError(t, err)
	assert.Empty(t, f.vcs.synced)
	assert.Empty(t, f.nested.dirs)
	assert.Equal(t, []patchCall{{freeRTOSPatch, false}}, f.patcher.calls)
}

func TestDeployKeepsExistingRootBuildFile(t *testing.T) {
	f := newComposerFixture(t, map[string]string{
		"/w/CMakeLists.txt": "project(app)\n",
	}, nil)

	_, err := f.composer.Deploy(context.Background(), f.root)
	require.NoError(t, err)
	assert.Equal(t, "project(app)\n", testutil.ReadFile(t, f.fs, "/w/CMakeLists.txt"))
}

func TestDeploySDK(t *testing.T) {
	f := newComposerFixture(t, nil, func(c *config.Config) {
		c.Selection = config.Selection{SDK: "Linux_Native"}
	})

	outDir, err := f.composer.Deploy(context.Background(), f.root)
	require.NoError(t, err)
	assert.Equal(t, "/w/__Linux_Native", outDir)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "autogen_sdk", []byte(testutil.ReadFile(t, f.fs, "/w/__Linux_Native/autogen.cmake")))
}

func TestDeployFailures(t *testing.T) {
	t.Run("incompatible tree stops before fetching", func(t *testing.T) {
		f := newComposerFixture(t, map[string]string{
			"/w/pal-platform/mbedCloudClientCmake.txt": compatFile("1"),
		}, nil)
		_, err := f.composer.Deploy(context.Background(), f.root)
		assert.True(t, errors.IsErrorCode(err, errors.ErrIncompatible))
		assert.Empty(t, f.vcs.synced)
	})

	t.Run("unsupported device", func(t *testing.T) {
		f := newComposerFixture(t, nil, func(c *config.Config) { c.Selection.Device = "nRF52" })
		_, err := f.composer.Deploy(context.Background(), f.root)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPlatformUnsupported))
		assert.Contains(t, err.Error(), "supported Devices are MK64F, STM32F429")
	})

	t.Run("missing device without sdk", func(t *testing.T) {
		f := newComposerFixture(t, nil, func(c *config.Config) { c.Selection.Device = "" })
		_, err := f.composer.Deploy(context.Background(), f.root)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSelectionInvalid))
	})

	t.Run("patch failure", func(t *testing.T) {
		f := newComposerFixture(t, nil, nil)
		f.patcher.err = errors.New(errors.ErrPatchApply, "check that target directory is clean")
		_, err := f.composer.Deploy(context.Background(), f.root)
		assert.True(t, errors.IsErrorCode(err, errors.ErrPatchApply))
		assert.False(t, testutil.FileExists(t, f.fs, "/w/__MK64F_FreeRTOS/autogen.cmake"))
	})
}

func TestOutDirName(t *testing.T) {
	assert.Equal(t, "__mbed-os", platform.OutDirName("__", platform.AutogenValues{SDK: "mbed-os"}))
	assert.Equal(t, "__K64F_FreeRTOS", platform.OutDirName("__",
		platform.Values([]*platform.Platform{
			{Axis: platform.AxisDevice, Name: "K64F"},
			{Axis: platform.AxisOS, Name: "FreeRTOS"},
		})))
}
