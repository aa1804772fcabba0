package deploy

import (
	"context"
	"os/exec"
	"testing"

	"github.com/arthur-debert/paldeploy/pkg/commands/internal"
	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/testutil"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compat = "set(MBED_CLOUD_CLIENT_BUILD_SYS_MIN_VER_CMAKE 2)\n"

func allTools(string) (string, error) { return "/usr/bin/tool", nil }

type fixture struct {
	fs     types.FS
	runner *testutil.FakeRunner
	opts   Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fsys := filesystem.NewMemory()
	testutil.WriteFiles(t, fsys, map[string]string{
		"/w/pal-platform.ref": "https://github.com/ARMmbed/pal-platform#1.3.0",
		"/w/mbed-client.lib":  "https://github.com/ARMmbed/mbed-client#v1.2.0",
		"/w/main.cpp":         "int main() {}\n",
	})

	runner := testutil.NewFakeRunner()
	runner.OnHook("git clone", testutil.CloneHook(fsys, map[string]map[string]string{
		"/w/pal-platform": {
			"mbedCloudClientCmake.txt":      compat,
			"Device/K64F/K64F.cmake":        "",
			"OS/FreeRTOS/FreeRTOS.ref":      "https://github.com/ARMmbed/FreeRTOS#v9.0.0",
			"OS/FreeRTOS/FreeRTOS.patch":    "--- a/OS/FreeRTOS/tasks.c\n+++ b/OS/FreeRTOS/tasks.c\n",
			"Toolchain/ARMGCC/ARMGCC.cmake": "",
		},
		"/w/mbed-client": {
			"mbed-client-pal.lib": "https://github.com/ARMmbed/mbed-client-pal#v1.0.0",
		},
		"/w/pal-platform/OS/FreeRTOS/FreeRTOS": {
			"tasks.c": "",
		},
	}))
	runner.Fail("--reverse --dry-run", "Unreversed patch detected!")

	cfg := config.Default("/w")
	cfg.Tools = config.Tools{Git: "git", Patch: "patch", Make: "make"}
	cfg.Selection = config.Selection{OS: "FreeRTOS", Device: "K64F", Toolchain: "ARMGCC"}

	return &fixture{
		fs:     fsys,
		runner: runner,
		opts: Options{
			Config:   cfg,
			Deps:     internal.Deps{FS: fsys, Runner: runner},
			LookPath: allTools,
		},
	}
}

func TestDeploy(t *testing.T) {
	f := newFixture(t)

	result, err := Deploy(context.Background(), f.opts)
	require.NoError(t, err)

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "/w/__K64F_FreeRTOS", result.OutDir)
	assert.Equal(t, "/w/pal-platform.ref", result.Report.Root.Path())
	assert.Equal(t, []string{
		"/w/mbed-client.lib",
		"/w/pal-platform.ref",
		"/w/mbed-client/mbed-client-pal.lib",
	}, result.Report.Fetched)

	lines := f.runner.Lines()
	assert.Contains(t, lines, "git clone --progress --no-checkout git@github.com:ARMmbed/mbed-client /w/mbed-client")
	assert.Contains(t, lines, "git clone --progress --no-checkout git@github.com:ARMmbed/mbed-client-pal /w/mbed-client/mbed-client-pal")
	assert.Contains(t, lines, "git clone --progress --no-checkout git@github.com:ARMmbed/FreeRTOS /w/pal-platform/OS/FreeRTOS/FreeRTOS")
	assert.Contains(t, lines, "patch -p 2 -i /w/pal-platform/OS/FreeRTOS/FreeRTOS.patch --binary --quiet")

	assert.True(t, testutil.FileExists(t, f.fs, "/w/__K64F_FreeRTOS/autogen.cmake"))
	assert.Equal(t, compat, testutil.ReadFile(t, f.fs, "/w/__K64F_FreeRTOS/CMakeLists.txt"))
	assert.Equal(t, "ADDSUBDIRS()\n", testutil.ReadFile(t, f.fs, "/w/CMakeLists.txt"))
}

func TestDeployPreconditions(t *testing.T) {
	t.Run("missing tools", func(t *testing.T) {
		f := newFixture(t)
		f.opts.LookPath = func(file string) (string, error) {
			if file == "patch" {
				return "", exec.ErrNotFound
			}
			return "/usr/bin/" + file, nil
		}
		_, err := Deploy(context.Background(), f.opts)
		assert.True(t, errors.IsErrorCode(err, errors.ErrToolMissing))
		assert.Empty(t, f.runner.Calls)
	})

	t.Run("invalid selection", func(t *testing.T) {
		f := newFixture(t)
		f.opts.Config.Selection = config.Selection{Device: "K64F"}
		_, err := Deploy(context.Background(), f.opts)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSelectionInvalid))
		assert.Empty(t, f.runner.Calls)
	})

	t.Run("skip update without platform tree", func(t *testing.T) {
		f := newFixture(t)
		f.opts.Config.Fetch.SkipUpdate = true
		_, err := Deploy(context.Background(), f.opts)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
		assert.Empty(t, f.runner.Calls)
	})
}

func TestDeployRemoteMismatchStopsTheRun(t *testing.T) {
	f := newFixture(t)
	testutil.CreateDir(t, f.fs, "/w/mbed-client/.git")
	f.runner.On("ls-remote --get-url", "git@github.com:someone/else\n", nil)

	_, err := Deploy(context.Background(), f.opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoteMismatch))
	assert.Contains(t, err.Error(), "/w/mbed-client")
	assert.False(t, testutil.FileExists(t, f.fs, "/w/CMakeLists.txt"))
}
