// SPDX-License-Identifier: MPL-2.0

package swiftpkg

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// SchemaV1 is the first manifest generation: fixed binary target name,
	// macOS 10.10, no compiler-settings block.
	SchemaV1 SchemaVersion = "v1"
	// SchemaV2 raises macOS to 10.15 and supports the SWIFT_PACKAGE_MANAGER define.
	SchemaV2 SchemaVersion = "v2"
	// SchemaV3 names the binary target after the FFI module and suppresses
	// warnings with an unsafe compiler flag.
	SchemaV3 SchemaVersion = "v3"

	// CurrentSchemaVersion is the generation used for new renders.
	CurrentSchemaVersion = SchemaV3

	// firstV2Release and firstV3Release are the tool versions that introduced
	// each manifest generation.
	firstV2Release = "v0.4.0"
	firstV3Release = "v0.6.0"
)

var (
	// ErrInvalidSchemaVersion is the sentinel error wrapped by InvalidSchemaVersionError.
	ErrInvalidSchemaVersion = errors.New("invalid schema version")
	// ErrInvalidToolVersion is returned when a tool version is not a semantic version.
	ErrInvalidToolVersion = errors.New("invalid tool version")
)

type (
	// SchemaVersion identifies a generation of manifest naming and flag conventions.
	SchemaVersion string

	// InvalidSchemaVersionError is returned when a SchemaVersion is not v1, v2 or v3.
	InvalidSchemaVersionError struct {
		Value SchemaVersion
	}
)

// Error implements the error interface.
func (e *InvalidSchemaVersionError) Error() string {
	return fmt.Sprintf("invalid schema version %q (valid: %s, %s, %s)", e.Value, SchemaV1, SchemaV2, SchemaV3)
}

// Unwrap returns ErrInvalidSchemaVersion for errors.Is() compatibility.
func (e *InvalidSchemaVersionError) Unwrap() error { return ErrInvalidSchemaVersion }

// AllSchemaVersions returns every supported generation, oldest first.
func AllSchemaVersions() []SchemaVersion {
	return []SchemaVersion{SchemaV1, SchemaV2, SchemaV3}
}

// ParseSchemaVersion parses "v1", "2", "V3" and similar spellings.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s != "" && !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	v := SchemaVersion(s)
	if valid, errs := v.IsValid(); !valid {
		return "", errs[0]
	}
	return v, nil
}

// IsValid returns whether the SchemaVersion is a supported generation.
func (v SchemaVersion) IsValid() (bool, []error) {
	switch v {
	case SchemaV1, SchemaV2, SchemaV3:
		return true, nil
	default:
		return false, []error{&InvalidSchemaVersionError{Value: v}}
	}
}

// String returns the string representation of the SchemaVersion.
func (v SchemaVersion) String() string { return string(v) }

// SchemaVersionForTool maps the version of the tool that created a package to
// the manifest generation it shipped. An empty version or "dev" selects
// CurrentSchemaVersion. A leading "v" is optional.
func SchemaVersionForTool(toolVersion string) (SchemaVersion, error) {
	toolVersion = strings.TrimSpace(toolVersion)
	if toolVersion == "" || toolVersion == "dev" {
		return CurrentSchemaVersion, nil
	}
	if !strings.HasPrefix(toolVersion, "v") {
		toolVersion = "v" + toolVersion
	}
	if !semver.IsValid(toolVersion) {
		return "", fmt.Errorf("%w %q", ErrInvalidToolVersion, toolVersion)
	}

	switch {
	case semver.Compare(toolVersion, firstV2Release) < 0:
		return SchemaV1, nil
	case semver.Compare(toolVersion, firstV3Release) < 0:
		return SchemaV2, nil
	default:
		return SchemaV3, nil
	}
}
