// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/swiftpack/swiftpack/internal/cargo"
	"github.com/swiftpack/swiftpack/pkg/platform"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidParallelBuilds is returned when parallel_builds is negative.
	ErrInvalidParallelBuilds = errors.New("invalid parallel builds")
	// ErrInvalidToolCommand is returned when a tool command is empty.
	ErrInvalidToolCommand = errors.New("invalid tool command")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Packaging holds defaults for "swiftpack package".
		Packaging PackagingConfig `json:"packaging" mapstructure:"packaging"`
		// Tools names the external programs the pipeline runs.
		Tools ToolsConfig `json:"tools" mapstructure:"tools"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// PackagingConfig holds defaults for packaging; command line flags override them.
	PackagingConfig struct {
		// Platforms are built when no -p flag is given; empty means prompt or the
		// manifest generation's default platforms.
		Platforms []platform.ID `json:"platforms" mapstructure:"platforms"`
		// Minimums replace the default minimum version of individual platforms.
		Minimums        map[platform.ID]platform.MinimumVersion `json:"minimums" mapstructure:"minimums"`
		LibType         cargo.LibType                           `json:"lib_type" mapstructure:"lib_type"`
		Release         bool                                    `json:"release" mapstructure:"release"`
		DisableWarnings bool                                    `json:"disable_warnings" mapstructure:"disable_warnings"`
		// SwiftBuild runs "swift build" on the finished package.
		SwiftBuild bool `json:"swift_build" mapstructure:"swift_build"`
		// ParallelBuilds caps concurrent cargo builds; 0 means no limit.
		ParallelBuilds int `json:"parallel_builds" mapstructure:"parallel_builds"`
	}

	// ToolsConfig names the external programs. Each is looked up on PATH.
	ToolsConfig struct {
		Cargo      string `json:"cargo" mapstructure:"cargo"`
		Xcodebuild string `json:"xcodebuild" mapstructure:"xcodebuild"`
		Lipo       string `json:"lipo" mapstructure:"lipo"`
		Swift      string `json:"swift" mapstructure:"swift"`
		// Bindgen is the uniffi-bindgen command line; generate arguments are appended.
		Bindgen []string `json:"bindgen" mapstructure:"bindgen"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and prints every command line
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Silent suppresses all output except errors
		Silent bool `json:"silent" mapstructure:"silent"`
	}
)

// IsValid returns whether the Config has valid fields, collecting every
// field error across all sections.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, id := range c.Packaging.Platforms {
		if valid, fieldErrs := id.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, m := range c.Packaging.MinimumOverrides() {
		if valid, fieldErrs := m.IsValid(); !valid {
			for _, e := range fieldErrs {
				errs = append(errs, fmt.Errorf("packaging.minimums: %w", e))
			}
		}
	}
	if c.Packaging.LibType != "" {
		if valid, fieldErrs := c.Packaging.LibType.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.Packaging.ParallelBuilds < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidParallelBuilds, c.Packaging.ParallelBuilds))
	}
	for _, tool := range []struct{ name, value string }{
		{"cargo", c.Tools.Cargo},
		{"xcodebuild", c.Tools.Xcodebuild},
		{"lipo", c.Tools.Lipo},
		{"swift", c.Tools.Swift},
	} {
		if tool.value == "" {
			errs = append(errs, fmt.Errorf("%w: tools.%s is empty", ErrInvalidToolCommand, tool.name))
		}
	}
	if len(c.Tools.Bindgen) == 0 || c.Tools.Bindgen[0] == "" {
		errs = append(errs, fmt.Errorf("%w: tools.bindgen is empty", ErrInvalidToolCommand))
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// MinimumOverrides returns the configured minimums ordered by platform id.
func (p PackagingConfig) MinimumOverrides() []platform.Minimum {
	ids := slices.Sorted(maps.Keys(p.Minimums))
	out := make([]platform.Minimum, 0, len(ids))
	for _, id := range ids {
		out = append(out, platform.Minimum{Platform: id, Version: p.Minimums[id]})
	}
	return out
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns the sentinel and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Packaging: PackagingConfig{
			Platforms: []platform.ID{},
			LibType:   cargo.Static,
		},
		Tools: ToolsConfig{
			Cargo:      "cargo",
			Xcodebuild: "xcodebuild",
			Lipo:       "lipo",
			Swift:      "swift",
			Bindgen:    []string{"cargo", "run", "--bin", "uniffi-bindgen", "--"},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}
