package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/paldeploy/pkg/types"
)

// Exists reports whether path exists
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory
func IsDir(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file
func IsFile(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ForceRemoveAll deletes path recursively, first granting the owner write
// permission on every entry so read-only files (git pack files on Windows)
// do not abort the removal.
func ForceRemoveAll(fsys types.FS, path string) error {
	info, err := fsys.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	stack := []string{path}
	if !info.IsDir() {
		stack = nil
		_ = fsys.Chmod(path, info.Mode().Perm()|0200)
	}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if dirInfo, err := fsys.Lstat(dir); err == nil {
			_ = fsys.Chmod(dir, dirInfo.Mode().Perm()|0700)
		}
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			child := filepath.Join(dir, entry.Name())
			if entry.Type()&fs.ModeSymlink != 0 {
				continue
			}
			if entry.IsDir() {
				stack = append(stack, child)
				continue
			}
			if childInfo, err := entry.Info(); err == nil && childInfo.Mode().Perm()&0200 == 0 {
				_ = fsys.Chmod(child, childInfo.Mode().Perm()|0200)
			}
		}
	}

	return fsys.RemoveAll(path)
}

// CopyFile copies src to dst, creating parent directories of dst
func CopyFile(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return fsys.WriteFile(dst, data, info.Mode().Perm())
}

// CopyTree recursively copies the directory src to dst. Symlinks are skipped.
func CopyTree(fsys types.FS, src, dst string) error {
	type pair struct{ from, to string }

	queue := []pair{{src, dst}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		info, err := fsys.Stat(cur.from)
		if err != nil {
			return err
		}
		if err := fsys.MkdirAll(cur.to, info.Mode().Perm()|0700); err != nil {
			return err
		}

		entries, err := fsys.ReadDir(cur.from)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			from := filepath.Join(cur.from, entry.Name())
			to := filepath.Join(cur.to, entry.Name())
			switch {
			case entry.Type()&fs.ModeSymlink != 0:
				continue
			case entry.IsDir():
				queue = append(queue, pair{from, to})
			default:
				if err := CopyFile(fsys, from, to); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
