package clean

import (
	"context"
	"testing"

	"github.com/arthur-debert/paldeploy/pkg/commands/internal"
	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/testutil"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTools(string) (string, error) { return "/usr/bin/tool", nil }

func deployedTree(t *testing.T) types.FS {
	t.Helper()
	fsys := filesystem.NewMemory()
	testutil.WriteFiles(t, fsys, map[string]string{
		"/w/CMakeLists.txt":                        "ADDSUBDIRS()\n",
		"/w/Makefile":                              "all:\n",
		"/w/CMakeCache.txt":                        "cache",
		"/w/CMakeFiles/3.10/CMakeSystem.cmake":     "",
		"/w/Release/app.elf":                       "elf",
		"/w/main.cpp":                              "int main() {}\n",
		"/w/app/CMakeCache.txt":                    "cache",
		"/w/app/app.cpp":                           "",
		"/w/mbed-client.lib":                       "https://github.com/ARMmbed/mbed-client#v1",
		"/w/mbed-client/.git/":                     "",
		"/w/mbed-client/source.c":                  "",
		"/w/mbed-client/CMakeLists.txt":            "tracked",
		"/w/mbed-client/Makefile":                  "generated",
		"/w/pal-platform.ref":                      "https://github.com/ARMmbed/pal-platform#1.3.0",
		"/w/.pal-platform.mode.toml":               "mode = \"vcs\"\n",
		"/w/pal-platform/.git/":                    "",
		"/w/mbed-client/.FreeRTOS.mode.toml":       "mode = \"copy\"\n",
		"/w/pal-platform/mbedCloudClientCmake.txt": "",
		"/w/not-fetched.lib":                       "https://github.com/ARMmbed/not-fetched#v1",
	})
	return fsys
}

func TestCleanRemovesRepos(t *testing.T) {
	fsys := deployedTree(t)
	runner := testutil.NewFakeRunner()

	result, err := Clean(context.Background(), Options{
		Config:   config.Default("/w"),
		Deps:     internal.Deps{FS: fsys, Runner: runner},
		LookPath: allTools,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"/w/CMakeLists.txt",
		"/w/CMakeCache.txt",
		"/w/Makefile",
		"/w/CMakeFiles",
		"/w/Release",
		"/w/app/CMakeCache.txt",
		"/w/.pal-platform.mode.toml",
		"/w/mbed-client",
		"/w/pal-platform",
	}, result.Deleted)
	assert.False(t, result.MadeClean)
	assert.Empty(t, runner.Calls)

	assert.True(t, testutil.FileExists(t, fsys, "/w/main.cpp"))
	assert.True(t, testutil.FileExists(t, fsys, "/w/app/app.cpp"))
	assert.True(t, testutil.FileExists(t, fsys, "/w/mbed-client.lib"))
	assert.False(t, testutil.DirExists(t, fsys, "/w/mbed-client"))
	assert.False(t, testutil.DirExists(t, fsys, "/w/CMakeFiles"))
}

func TestCleanKeepRepos(t *testing.T) {
	fsys := deployedTree(t)
	runner := testutil.NewFakeRunner()
	runner.On("ls-files CMakeLists.txt", "CMakeLists.txt\n", nil)

	cfg := config.Default("/w")
	cfg.Tools.Make = "make"
	result, err := Clean(context.Background(), Options{
		Config:    cfg,
		Deps:      internal.Deps{FS: fsys, Runner: runner},
		KeepRepos: true,
		LookPath:  allTools,
	})
	require.NoError(t, err)

	assert.True(t, result.MadeClean)
	assert.Equal(t, "make VERBOSE=1 clean", runner.Lines()[0])
	assert.Equal(t, "/w", runner.Calls[0].Dir)

	assert.Equal(t, []string{"/w/mbed-client/CMakeLists.txt"}, result.Restored)
	assert.Contains(t, runner.Lines(), "git checkout -- CMakeLists.txt")
	assert.ElementsMatch(t, []string{
		"/w/CMakeCache.txt",
		"/w/Makefile",
		"/w/CMakeFiles",
		"/w/Release",
		"/w/app/CMakeCache.txt",
		"/w/mbed-client/Makefile",
		"/w/.pal-platform.mode.toml",
		"/w/mbed-client/.FreeRTOS.mode.toml",
	}, result.Deleted)
	assert.False(t, testutil.FileExists(t, fsys, "/w/.pal-platform.mode.toml"))

	assert.True(t, testutil.FileExists(t, fsys, "/w/CMakeLists.txt"))
	assert.True(t, testutil.FileExists(t, fsys, "/w/mbed-client/source.c"))
	assert.True(t, testutil.FileExists(t, fsys, "/w/mbed-client/CMakeLists.txt"))
}
