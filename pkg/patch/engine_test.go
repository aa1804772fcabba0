package patch_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/filesystem"
	"github.com/arthur-debert/paldeploy/pkg/patch"
	"github.com/arthur-debert/paldeploy/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool keeps the integration state in memory
type fakeTool struct {
	applied  bool
	checkErr error
	calls    []string
}

func (f *fakeTool) Integrated(context.Context, patch.Patch) bool {
	f.calls = append(f.calls, "integrated")
	return f.applied
}

func (f *fakeTool) Check(context.Context, patch.Patch) error {
	f.calls = append(f.calls, "check")
	return f.checkErr
}

func (f *fakeTool) Apply(context.Context, patch.Patch) error {
	f.calls = append(f.calls, "apply")
	f.applied = true
	return nil
}

func (f *fakeTool) Revert(context.Context, patch.Patch) error {
	f.calls = append(f.calls, "revert")
	f.applied = false
	return nil
}

const patchFile = "/w/pal-platform/OS/FreeRTOS/FreeRTOS.patch"

func newEngine(t *testing.T, tool patch.Tool) *patch.Engine {
	t.Helper()
	fsys := filesystem.NewMemory()
	testutil.CreateFile(t, fsys, patchFile, osPatch)
	return patch.NewEngine(fsys, tool)
}

func TestApplyOrRevertIdempotence(t *testing.T) {
	tool := &fakeTool{}
	e := newEngine(t, tool)
	ctx := context.Background()

	integrated, err := e.ApplyOrRevert(ctx, patchFile, false)
	require.NoError(t, err)
	assert.True(t, integrated)

	integrated, err = e.ApplyOrRevert(ctx, patchFile, false)
	require.NoError(t, err)
	assert.True(t, integrated)

	integrated, err = e.ApplyOrRevert(ctx, patchFile, true)
	require.NoError(t, err)
	assert.False(t, integrated)

	integrated, err = e.ApplyOrRevert(ctx, patchFile, true)
	require.NoError(t, err)
	assert.False(t, integrated)

	assert.Equal(t, []string{
		"integrated", "check", "apply",
		"integrated",
		"integrated", "revert",
		"integrated",
	}, tool.calls)
}

func TestApplyFailureIsFatal(t *testing.T) {
	tool := &fakeTool{checkErr: errors.New(errors.ErrCommandExecute, "exit status 1")}
	e := newEngine(t, tool)

	integrated, err := e.ApplyOrRevert(context.Background(), patchFile, false)
	require.Error(t, err)
	assert.False(t, integrated)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatchApply))
	assert.Contains(t, err.Error(), "check that target directory is clean")
	assert.Equal(t, []string{"integrated", "check"}, tool.calls, "nothing is applied after a failed dry run")
}

func TestApplyOrRevertMalformed(t *testing.T) {
	tool := &fakeTool{}
	fsys := filesystem.NewMemory()
	testutil.CreateFile(t, fsys, "/w/x/x.patch", "not a diff")
	e := patch.NewEngine(fsys, tool)

	_, err := e.ApplyOrRevert(context.Background(), "/w/x/x.patch", false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatchMalformed))
	assert.Empty(t, tool.calls)
}
