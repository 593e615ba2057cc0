// SPDX-License-Identifier: MPL-2.0

package cargo

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// ManifestFileName is the crate manifest file name.
const ManifestFileName = "Cargo.toml"

var (
	// ErrManifestNotFound is returned when the project has no Cargo.toml.
	ErrManifestNotFound = errors.New("Cargo.toml not found")
	// ErrManifestInvalid is returned when Cargo.toml cannot be parsed or has no package name.
	ErrManifestInvalid = errors.New("invalid Cargo.toml")
)

type (
	// Manifest is the subset of Cargo.toml the packager reads.
	Manifest struct {
		Package PackageSection `toml:"package"`
		Lib     LibSection     `toml:"lib"`
	}

	// PackageSection is the [package] table.
	PackageSection struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		Edition string `toml:"edition"`
	}

	// LibSection is the [lib] table.
	LibSection struct {
		Name      string   `toml:"name"`
		CrateType []string `toml:"crate-type"`
	}
)

// ReadManifest reads <dir>/Cargo.toml from fsys.
func ReadManifest(fsys afero.Fs, dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrManifestNotFound, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest parses Cargo.toml content. A [package] name is required.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := toml.Unmarshal(data, m); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%w: line %d, column %d: %w", ErrManifestInvalid, row, col, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrManifestInvalid, err)
	}
	if strings.TrimSpace(m.Package.Name) == "" {
		return nil, fmt.Errorf("%w: missing [package] name", ErrManifestInvalid)
	}
	return m, nil
}

// LibName returns the library target name: [lib] name when set, otherwise
// the package name with dashes replaced by underscores, as cargo does.
func (m *Manifest) LibName() string {
	if m.Lib.Name != "" {
		return m.Lib.Name
	}
	return strings.ReplaceAll(m.Package.Name, "-", "_")
}

// SupportsLibType reports whether [lib] crate-type lists the crate type
// needed to build lt.
func (m *Manifest) SupportsLibType(lt LibType) bool {
	return slices.Contains(m.Lib.CrateType, lt.CrateType())
}
