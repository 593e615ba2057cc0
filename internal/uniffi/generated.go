// SPDX-License-Identifier: MPL-2.0

package uniffi

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

const (
	// GeneratedDirName is where bindgen writes its output, relative to the crate root.
	GeneratedDirName = "generated"
	// SourcesDirName holds the generated Swift sources inside GeneratedDirName.
	SourcesDirName = "sources"
	// HeadersDirName holds the generated C header and module map inside GeneratedDirName.
	HeadersDirName = "headers"
	// ModuleMapName is the module map file name xcodebuild expects in a headers directory.
	ModuleMapName = "module.modulemap"
)

// ErrNoBindings is returned when bindgen produced no Swift source or no header.
var ErrNoBindings = errors.New("no generated bindings found")

// Generated lists the arranged bindgen output. Paths are relative to Dir.
type Generated struct {
	Dir     string
	Sources []string
	Headers []string
}

// BindgenArgs returns the uniffi-bindgen arguments that generate Swift
// bindings for a built library into outDir.
func BindgenArgs(libraryPath, outDir string) []string {
	return []string{"generate", "--library", libraryPath, "--language", "swift", "--out-dir", outDir}
}

// Arrange sorts the flat bindgen output in dir into sources/ and headers/.
// Swift files go to sources/, C headers to headers/, and the module map is
// renamed to module.modulemap. Files already arranged are left in place, so
// Arrange can run more than once.
func Arrange(fsys afero.Fs, dir string) (*Generated, error) {
	root := afero.NewIOFS(afero.NewBasePathFs(fsys, dir))

	moves := []struct {
		pattern string
		destDir string
		rename  string
	}{
		{pattern: "*.swift", destDir: SourcesDirName},
		{pattern: "*.h", destDir: HeadersDirName},
		{pattern: "*.modulemap", destDir: HeadersDirName, rename: ModuleMapName},
	}

	for _, m := range moves {
		matches, err := doublestar.Glob(root, m.pattern)
		if err != nil {
			return nil, fmt.Errorf("matching %s in %s: %w", m.pattern, dir, err)
		}
		if len(matches) == 0 {
			continue
		}
		if err := fsys.MkdirAll(filepath.Join(dir, m.destDir), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", m.destDir, err)
		}
		for _, match := range matches {
			name := path.Base(match)
			if m.rename != "" {
				name = m.rename
			}
			from := filepath.Join(dir, filepath.FromSlash(match))
			to := filepath.Join(dir, m.destDir, name)
			if err := fsys.Rename(from, to); err != nil {
				return nil, fmt.Errorf("moving %s to %s: %w", match, m.destDir, err)
			}
		}
	}

	return Collect(fsys, dir)
}

// Collect lists the arranged sources and headers in dir.
func Collect(fsys afero.Fs, dir string) (*Generated, error) {
	root := afero.NewIOFS(afero.NewBasePathFs(fsys, dir))

	sources, err := doublestar.Glob(root, SourcesDirName+"/**/*.swift")
	if err != nil {
		return nil, fmt.Errorf("listing generated sources: %w", err)
	}
	headers, err := doublestar.Glob(root, HeadersDirName+"/*")
	if err != nil {
		return nil, fmt.Errorf("listing generated headers: %w", err)
	}
	slices.Sort(sources)
	slices.Sort(headers)

	if len(sources) == 0 || !slices.ContainsFunc(headers, func(h string) bool { return path.Ext(h) == ".h" }) {
		return nil, fmt.Errorf("%w in %s", ErrNoBindings, dir)
	}
	return &Generated{Dir: dir, Sources: sources, Headers: headers}, nil
}
