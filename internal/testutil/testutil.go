// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// MustWriteFile writes content to path, creating parent directories.
// The test fails immediately if either operation fails.
func MustWriteFile(t testing.TB, fsys afero.Fs, path, content string) {
	t.Helper()
	MustMkdirAll(t, fsys, filepath.Dir(path))
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, fsys afero.Fs, path string) {
	t.Helper()
	if err := fsys.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustRemoveAll removes path and everything below it.
// The test fails immediately if the operation fails.
func MustRemoveAll(t testing.TB, fsys afero.Fs, path string) {
	t.Helper()
	if err := fsys.RemoveAll(path); err != nil {
		t.Fatalf("failed to remove %s: %v", path, err)
	}
}
