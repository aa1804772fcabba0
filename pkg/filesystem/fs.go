package filesystem

import (
	"io/fs"

	"github.com/arthur-debert/paldeploy/pkg/types"
	"github.com/spf13/afero"
)

// aferoFS adapts an afero.Fs to types.FS
type aferoFS struct {
	afero.Fs
}

// New wraps any afero filesystem
func New(base afero.Fs) types.FS {
	return aferoFS{Fs: base}
}

// NewOS returns the real filesystem
func NewOS() types.FS {
	return New(afero.NewOsFs())
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() types.FS {
	return New(afero.NewMemMapFs())
}

// ReadFile refuses directories so every backend reports the same error
func (a aferoFS) ReadFile(name string) ([]byte, error) {
	info, err := a.Fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.Fs, name)
}

func (a aferoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.Fs, name, data, perm)
}

// ReadDir lists name sorted by entry name
func (a aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(a.Fs, name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, nil
}

// Lstat does not follow symlinks where the backend has them. MemMapFs has
// none and answers with Stat.
func (a aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if l, ok := a.Fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return a.Fs.Stat(name)
}
