// SPDX-License-Identifier: MPL-2.0

package swiftpkg

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/swiftpack/swiftpack/pkg/naming"
	"github.com/swiftpack/swiftpack/pkg/platform"
)

// ErrInvalidConfiguration is the sentinel error wrapped by ConfigError.
var ErrInvalidConfiguration = errors.New("invalid configuration")

type (
	// Options carries the raw values a Configuration is built from.
	Options struct {
		PackageName      naming.PackageName
		LibFileBaseName  naming.LibFileBaseName
		FFIModuleName    naming.FFIModuleName
		DisableWarnings  bool
		SchemaVersion    SchemaVersion
		PlatformMinimums []platform.Minimum
	}

	// Configuration is the resolved, immutable input of the manifest renderer
	// and layout validator. Build it with NewConfiguration; the zero value is
	// invalid and is rejected by Validate.
	Configuration struct {
		packageName      naming.PackageName
		libFileBaseName  naming.LibFileBaseName
		ffiModuleName    naming.FFIModuleName
		disableWarnings  bool
		schemaVersion    SchemaVersion
		platformMinimums []platform.Minimum
	}

	// ConfigError reports missing or invalid package configuration. It lists
	// every problem found, not only the first.
	ConfigError struct {
		// Source names where the configuration came from (e.g., a file path). Optional.
		Source string
		Errs   []error
	}
)

// NewConfigError builds a ConfigError from one or more causes.
func NewConfigError(source string, errs ...error) *ConfigError {
	return &ConfigError{Source: source, Errs: errs}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid configuration")
	if e.Source != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Source)
	}
	switch len(e.Errs) {
	case 0:
	case 1:
		sb.WriteString(": ")
		sb.WriteString(e.Errs[0].Error())
	default:
		fmt.Fprintf(&sb, " (%d errors)", len(e.Errs))
		for _, err := range e.Errs {
			sb.WriteString("\n  - ")
			sb.WriteString(err.Error())
		}
	}
	return sb.String()
}

// Unwrap returns ErrInvalidConfiguration followed by every cause, so both the
// sentinel and field-level sentinels match with errors.Is.
func (e *ConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfiguration}, e.Errs...)
}

// NewConfiguration validates opts and returns an immutable Configuration.
// The minimums slice is copied.
func NewConfiguration(opts Options) (*Configuration, error) {
	cfg := &Configuration{
		packageName:      opts.PackageName,
		libFileBaseName:  opts.LibFileBaseName,
		ffiModuleName:    opts.FFIModuleName,
		disableWarnings:  opts.DisableWarnings,
		schemaVersion:    opts.SchemaVersion,
		platformMinimums: slices.Clone(opts.PlatformMinimums),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every invariant and returns a *ConfigError listing all
// violations, or nil. A nil Configuration is invalid.
func (c *Configuration) Validate() error {
	if c == nil {
		return NewConfigError("", errors.New("configuration is nil"))
	}

	var errs []error
	if valid, fieldErrs := c.packageName.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.libFileBaseName.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.ffiModuleName.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.schemaVersion.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	errs = append(errs, platform.ValidateMinimums(c.platformMinimums)...)

	if len(errs) > 0 {
		return NewConfigError("", errs...)
	}
	return nil
}

// PackageName returns the Swift package and library target name.
func (c *Configuration) PackageName() naming.PackageName { return c.packageName }

// LibFileBaseName returns the base name of the generated Swift bindings file.
func (c *Configuration) LibFileBaseName() naming.LibFileBaseName { return c.libFileBaseName }

// FFIModuleName returns the binary target, XCFramework and header module name.
func (c *Configuration) FFIModuleName() naming.FFIModuleName { return c.ffiModuleName }

// DisableWarnings reports whether the compiler-settings block is emitted.
func (c *Configuration) DisableWarnings() bool { return c.disableWarnings }

// SchemaVersion returns the manifest generation to render.
func (c *Configuration) SchemaVersion() SchemaVersion { return c.schemaVersion }

// PlatformMinimums returns a copy of the ordered platform minimums.
func (c *Configuration) PlatformMinimums() []platform.Minimum {
	return slices.Clone(c.platformMinimums)
}

// Platforms returns the platform ids of the minimums, in order.
func (c *Configuration) Platforms() []platform.ID {
	ids := make([]platform.ID, len(c.platformMinimums))
	for i, m := range c.platformMinimums {
		ids[i] = m.Platform
	}
	return ids
}

// WithSchemaVersion returns a copy of c targeting another manifest generation.
// The receiver is not modified.
func (c *Configuration) WithSchemaVersion(v SchemaVersion) (*Configuration, error) {
	return NewConfiguration(Options{
		PackageName:      c.packageName,
		LibFileBaseName:  c.libFileBaseName,
		FFIModuleName:    c.ffiModuleName,
		DisableWarnings:  c.disableWarnings,
		SchemaVersion:    v,
		PlatformMinimums: c.platformMinimums,
	})
}
