package types

import (
	"io/fs"

	"github.com/spf13/afero"
)

// FS is the filesystem interface required for paldeploy operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	// Create truncates or creates name for streaming writes
	Create(name string) (afero.File, error)
	Chmod(name string, mode fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Lstat must not follow symlinks on the OS filesystem. Test filesystems
	// without symlink support may fall back to Stat.
	Lstat(name string) (fs.FileInfo, error)
}
