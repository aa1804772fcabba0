package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/paldeploy/pkg/types"
)

// WriteFiles creates every path -> content entry on fsys, making parent
// directories as needed. A path ending in "/" creates a directory.
func WriteFiles(t *testing.T, fsys types.FS, files map[string]string) {
	t.Helper()

	for path, content := range files {
		if path[len(path)-1] == '/' {
			if err := fsys.MkdirAll(path, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", path, err)
			}
			continue
		}
		CreateFile(t, fsys, path, content)
	}
}

// CreateFile creates a file with the given content.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, fsys types.FS, path, content string) string {
	t.Helper()

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := fsys.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
	return path
}

// CreateDir creates a directory and its parents.
func CreateDir(t *testing.T, fsys types.FS, path string) string {
	t.Helper()

	if err := fsys.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// ReadFile reads the content of a file and returns it as a string.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, fsys types.FS, path string) string {
	t.Helper()

	content, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// FileExists checks if a file exists and is not a directory.
func FileExists(t *testing.T, fsys types.FS, path string) bool {
	t.Helper()

	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(t *testing.T, fsys types.FS, path string) bool {
	t.Helper()

	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
