// SPDX-License-Identifier: MPL-2.0

package xcframework

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/swiftpack/swiftpack/pkg/layout"
)

// ErrNoSubframeworks is returned when an XCFramework has no subframework directories.
var ErrNoSubframeworks = errors.New("xcframework has no subframeworks")

// CreateArgs returns the xcodebuild arguments that bundle libraries into output.
// Every library is paired with the same headers directory.
func CreateArgs(libraries []string, headersDir, output string) []string {
	args := []string{"-create-xcframework"}
	for _, lib := range libraries {
		args = append(args, "-library", lib, "-headers", headersDir)
	}
	return append(args, "-output", output)
}

// Subframeworks lists the subframework directory names of the bundle at
// xcfPath, skipping dotfiles and Info.plist.
func Subframeworks(fsys afero.Fs, xcfPath string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, xcfPath)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", xcfPath, err)
	}
	var subs []string
	for _, entry := range entries {
		if entry.IsDir() && layout.IsSubframeworkEntry(entry.Name()) {
			subs = append(subs, entry.Name())
		}
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSubframeworks, xcfPath)
	}
	return subs, nil
}

// Patch rewrites the headers of every subframework in tree's XCFramework.
// Whatever header directory xcodebuild produced (in any case) is replaced by
// Headers/<ffi>/ holding the files of generatedHeaders. The C header is
// installed as <ffi>.h and module map references to its old name are updated.
func Patch(fsys afero.Fs, tree layout.Tree, generatedHeaders string) error {
	ffi := tree.FFIModuleName()
	files, err := afero.ReadDir(fsys, generatedHeaders)
	if err != nil {
		return fmt.Errorf("reading generated headers: %w", err)
	}

	subs, err := Subframeworks(fsys, tree.XCFramework())
	if err != nil {
		return err
	}

	umbrella := umbrellaHeader(files)
	for _, sub := range subs {
		if err := removeHeaderDirs(fsys, tree.Subframework(sub)); err != nil {
			return err
		}
		dest := tree.HeadersDir(sub)
		if err := fsys.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dest, err)
		}

		for _, f := range files {
			if f.IsDir() {
				continue
			}
			data, err := afero.ReadFile(fsys, filepath.Join(generatedHeaders, f.Name()))
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.Name(), err)
			}

			name := f.Name()
			switch {
			case name == umbrella:
				name = layout.HeaderFileName(ffi)
			case umbrella != "" && strings.HasSuffix(name, ".modulemap"):
				data = []byte(strings.ReplaceAll(string(data), `"`+umbrella+`"`, `"`+layout.HeaderFileName(ffi)+`"`))
			}

			target := filepath.Join(dest, name)
			if err := afero.WriteFile(fsys, target, data, f.Mode().Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}
		}
	}
	return nil
}

// umbrellaHeader returns the only .h file, or "" when there is not exactly one.
func umbrellaHeader(files []os.FileInfo) string {
	found := ""
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".h" {
			continue
		}
		if found != "" {
			return ""
		}
		found = f.Name()
	}
	return found
}

func removeHeaderDirs(fsys afero.Fs, subframework string) error {
	entries, err := afero.ReadDir(fsys, subframework)
	if err != nil {
		return fmt.Errorf("listing %s: %w", subframework, err)
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.EqualFold(entry.Name(), layout.HeadersDirName) {
			if err := fsys.RemoveAll(filepath.Join(subframework, entry.Name())); err != nil {
				return fmt.Errorf("removing unpatched headers: %w", err)
			}
		}
	}
	return nil
}
