// SPDX-License-Identifier: MPL-2.0

package uniffi

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/swiftpack/swiftpack/pkg/naming"
)

// ConfigFileName is the binding config file looked up in the crate root.
const ConfigFileName = "uniffi.toml"

// ErrConfigInvalid is returned when the binding config cannot be parsed.
var ErrConfigInvalid = errors.New("invalid uniffi.toml")

type (
	// Config is the subset of uniffi.toml the packager reads.
	Config struct {
		Bindings Bindings `toml:"bindings"`
	}

	// Bindings is the [bindings] table.
	Bindings struct {
		Swift SwiftBindings `toml:"swift"`
	}

	// SwiftBindings is the [bindings.swift] table.
	SwiftBindings struct {
		FFIModuleName      string `toml:"ffi_module_name"`
		ModuleName         string `toml:"module_name"`
		FFIModuleFilename  string `toml:"ffi_module_filename"`
		GenerateModuleMap  *bool  `toml:"generate_module_map"`
		OmitArgumentLabels bool   `toml:"omit_argument_labels"`
	}
)

// DefaultConfigPath returns <projectDir>/uniffi.toml.
func DefaultConfigPath(projectDir string) string {
	return filepath.Join(projectDir, ConfigFileName)
}

// LoadConfig reads a binding config. A missing file is not an error: it
// returns (nil, nil) so callers fall back to defaults.
func LoadConfig(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigInvalid, path, err)
	}
	return cfg, nil
}

// FFIModuleName returns the configured FFI module name and whether one is set.
// A nil Config has none.
func (c *Config) FFIModuleName() (naming.FFIModuleName, bool) {
	if c == nil || c.Bindings.Swift.FFIModuleName == "" {
		return "", false
	}
	return naming.FFIModuleName(c.Bindings.Swift.FFIModuleName), true
}
