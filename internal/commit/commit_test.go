package commit

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	return fs
}

func dirEntries(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	infos, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func TestWriteFileReplacesContents(t *testing.T) {
	t.Parallel()

	fs := newFs(t)
	require.NoError(t, afero.WriteFile(fs, "/work/target.dmi", []byte("old"), 0o644))

	err := WriteFile(fs, "/work/target.dmi", func(w io.Writer) error {
		_, err := w.Write([]byte("new contents"))
		return err
	})
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, "/work/target.dmi")
	require.NoError(t, err)
	assert.Equal(t, []byte("new contents"), got)
	assert.Equal(t, []string{"target.dmi"}, dirEntries(t, fs, "/work"), "no temp file may be left behind")
}

func TestWriteFileCreatesMissingTarget(t *testing.T) {
	t.Parallel()

	fs := newFs(t)
	err := WriteFile(fs, "/work/fresh.dmi", func(w io.Writer) error {
		_, err := w.Write([]byte("data"))
		return err
	})
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, "/work/fresh.dmi")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
}

func TestWriteFileSerializeErrorLeavesTargetUntouched(t *testing.T) {
	t.Parallel()

	fs := newFs(t)
	require.NoError(t, afero.WriteFile(fs, "/work/target.dmi", []byte("old"), 0o644))

	boom := errors.New("boom")
	err := WriteFile(fs, "/work/target.dmi", func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := afero.ReadFile(fs, "/work/target.dmi")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got, "target must keep its pre-run bytes")
	assert.Equal(t, []string{"target.dmi"}, dirEntries(t, fs, "/work"), "temp file must be cleaned up")
}

// renameRefusingFs simulates a filesystem where rename across the temp
// location fails, forcing the copy+remove fallback.
type renameRefusingFs struct {
	afero.Fs
}

func (f renameRefusingFs) Rename(_, _ string) error {
	return errors.New("cross-device link")
}

func TestWriteFileFallsBackToCopyWhenRenameFails(t *testing.T) {
	t.Parallel()

	base := newFs(t)
	fs := renameRefusingFs{Fs: base}
	require.NoError(t, afero.WriteFile(fs, "/work/target.dmi", []byte("old"), 0o644))

	err := WriteFile(fs, "/work/target.dmi", func(w io.Writer) error {
		_, err := w.Write([]byte("new"))
		return err
	})
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, "/work/target.dmi")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, []string{"target.dmi"}, dirEntries(t, fs, "/work"), "fallback must still remove the temp file")
}

func TestBackup(t *testing.T) {
	t.Parallel()

	fs := newFs(t)
	require.NoError(t, afero.WriteFile(fs, "/work/target.dmi", []byte("precious"), 0o644))

	require.NoError(t, Backup(fs, "/work/target.dmi"))

	got, err := afero.ReadFile(fs, "/work/target.dmi.bak")
	require.NoError(t, err)
	assert.Equal(t, []byte("precious"), got)
}

func TestBackupMissingSource(t *testing.T) {
	t.Parallel()

	fs := newFs(t)
	assert.Error(t, Backup(fs, "/work/nope.dmi"))
}
