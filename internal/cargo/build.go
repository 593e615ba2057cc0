// SPDX-License-Identifier: MPL-2.0

package cargo

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/swiftpack/swiftpack/pkg/platform"
)

const (
	// Static builds a static library (staticlib, .a).
	Static LibType = "static"
	// Dynamic builds a dynamic library (cdylib, .dylib).
	Dynamic LibType = "dynamic"

	// Debug builds without optimizations.
	Debug Mode = "debug"
	// Release builds with --release.
	Release Mode = "release"

	// TargetDirName is cargo's default output directory.
	TargetDirName = "target"
)

// ErrInvalidLibType is the sentinel error wrapped by InvalidLibTypeError.
var ErrInvalidLibType = errors.New("invalid library type")

type (
	// LibType selects the kind of library linked into the XCFramework.
	LibType string

	// InvalidLibTypeError is returned when a LibType is not static or dynamic.
	InvalidLibTypeError struct {
		Value LibType
	}

	// Mode is the cargo build profile.
	Mode string
)

// Error implements the error interface.
func (e *InvalidLibTypeError) Error() string {
	return fmt.Sprintf("invalid library type %q (valid: %s, %s)", e.Value, Static, Dynamic)
}

// Unwrap returns ErrInvalidLibType for errors.Is() compatibility.
func (e *InvalidLibTypeError) Unwrap() error { return ErrInvalidLibType }

// ParseLibType parses "static" or "dynamic", ignoring case.
func ParseLibType(s string) (LibType, error) {
	lt := LibType(strings.ToLower(strings.TrimSpace(s)))
	if valid, errs := lt.IsValid(); !valid {
		return "", errs[0]
	}
	return lt, nil
}

// IsValid returns whether the LibType is static or dynamic.
func (lt LibType) IsValid() (bool, []error) {
	switch lt {
	case Static, Dynamic:
		return true, nil
	default:
		return false, []error{&InvalidLibTypeError{Value: lt}}
	}
}

// String returns the string representation of the LibType.
func (lt LibType) String() string { return string(lt) }

// CrateType returns the crate-type identifier used in Cargo.toml.
func (lt LibType) CrateType() string {
	if lt == Dynamic {
		return "cdylib"
	}
	return "staticlib"
}

// FileExtension returns the library file extension without the dot.
func (lt LibType) FileExtension() string {
	if lt == Dynamic {
		return "dylib"
	}
	return "a"
}

// ModeFor returns Release when release is set, otherwise Debug.
func ModeFor(release bool) Mode {
	if release {
		return Release
	}
	return Debug
}

// String returns the profile directory name.
func (m Mode) String() string { return string(m) }

// LibraryFileName returns lib<name>.<ext>.
func LibraryFileName(libName string, lt LibType) string {
	return "lib" + libName + "." + lt.FileExtension()
}

// LibraryDir returns <targetDir>/<triple or universal name>/<mode>.
func LibraryDir(targetDir, outputDirName string, mode Mode) string {
	return filepath.Join(targetDir, outputDirName, mode.String())
}

// LibraryPath returns the final library of a target slice. For a universal
// slice this is the merged library, not one of the per-triple inputs.
func LibraryPath(targetDir string, t platform.Target, libName string, mode Mode, lt LibType) string {
	return filepath.Join(LibraryDir(targetDir, t.OutputDirName(), mode), LibraryFileName(libName, lt))
}

// TripleLibraryPath returns the library cargo builds for a single triple.
func TripleLibraryPath(targetDir, triple, libName string, mode Mode, lt LibType) string {
	return filepath.Join(LibraryDir(targetDir, triple, mode), LibraryFileName(libName, lt))
}

// BuildArgs returns the cargo arguments that build one triple. Tier 3
// targets need a nightly toolchain and build the standard library from source.
func BuildArgs(triple string, mode Mode, nightly bool) []string {
	var args []string
	if nightly {
		args = append(args, "+nightly")
	}
	args = append(args, "build", "--target", triple)
	if nightly {
		args = append(args, "-Z", "build-std")
	}
	if mode == Release {
		args = append(args, "--release")
	}
	return args
}
