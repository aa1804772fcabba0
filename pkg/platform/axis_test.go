package platform_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/platform"
	"github.com/arthur-debert/paldeploy/pkg/repo"
	"github.com/arthur-debert/paldeploy/pkg/testutil"
	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVCS struct {
	fs     types.FS
	synced []string
}

func (v *fakeVCS) Sync(_ context.Context, dir string, _ types.Reference) error {
	v.synced = append(v.synced, dir)
	return v.fs.MkdirAll(filepath.Join(dir, ".git"), 0755)
}

func (v *fakeVCS) IsRemote(context.Context, string) bool { return true }

func (v *fakeVCS) HasCheckout(dir string) bool {
	return filesystem.IsDir(v.fs, filepath.Join(dir, ".git"))
}

func newFactory(fsys types.FS, cfg config.Config) (*repo.Factory, *fakeVCS) {
	vcs := &fakeVCS{fs: fsys}
	return repo.NewFactory(cfg, fsys, vcs, nil), vcs
}

func TestSupported(t *testing.T) {
	fsys := filesystem.NewMemory()
	testutil.WriteFiles(t, fsys, map[string]string{
		"/root/Device/b/":          "",
		"/root/Device/C/":          "",
		"/root/Device/A/":          "",
		"/root/Device/README.md":   "not a device",
		"/root/Toolchain/ARMGCC/":  "",
		"/root/Toolchain/armcc/":   "",
		"/root/Toolchain/ARM_IAR/": "",
	})

	got, err := platform.Supported(fsys, "/root", platform.AxisDevice)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "b", "C"}, got)

	got, err = platform.Supported(fsys, "/root", platform.AxisToolchain)
	require.NoError(t, err)
	assert.Equal(t, []string{"ARM_IAR", "armcc", "ARMGCC"}, got)

	got, err = platform.Supported(fsys, "/root", platform.AxisSDK)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewUnsupportedListsSupportedSet(t *testing.T) {
	fsys := filesystem.NewMemory()
	testutil.WriteFiles(t, fsys, map[string]string{
		"/root/Device/A/": "",
		"/root/Device/B/": "",
		"/root/Device/C/": "",
	})
	factory, _ := newFactory(fsys, config.Default("/w"))

	_, err := platform.New(fsys, factory, "/root", platform.AxisDevice, "D")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPlatformUnsupported))
	assert.Contains(t, err.Error(), "Device (D) is not supported, supported Devices are A, B, C")
	assert.Equal(t, []string{"A", "B", "C"}, errors.GetErrorDetails(err)["supported"])
}

func TestNewFindsRefAndPatch(t *testing.T) {
	fsys := filesystem.NewMemory()
	testutil.WriteFiles(t, fsys, map[string]string{
		"/root/OS/FreeRTOS/FreeRTOS.ref":   "https://github.com/org/FreeRTOS#v9",
		"/root/OS/FreeRTOS/FreeRTOS.patch": "--- a/OS/FreeRTOS/x.c\n",
		"/root/OS/Linux/":                  "",
	})
	factory, _ := newFactory(fsys, config.Default("/w"))

	p, err := platform.New(fsys, factory, "/root", platform.AxisOS, "FreeRTOS")
	require.NoError(t, err)
	assert.Equal(t, "/root/OS/FreeRTOS", p.Dir)
	require.NotNil(t, p.Repo)
	assert.Equal(t, "/root/OS/FreeRTOS/FreeRTOS", p.Repo.Dir())
	assert.Equal(t, "/root/OS/FreeRTOS/FreeRTOS.patch", p.PatchFile)

	p, err = platform.New(fsys, factory, "/root", platform.AxisOS, "Linux")
	require.NoError(t, err)
	assert.Nil(t, p.Repo)
	assert.Empty(t, p.PatchFile)
}
