// SPDX-License-Identifier: MPL-2.0

package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LegacyFFIModuleName is the binary target and XCFramework name used when no
// interface-binding config names the FFI module.
const LegacyFFIModuleName FFIModuleName = "RustFramework"

var (
	// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
	ErrInvalidPackageName = errors.New("invalid package name")
	// ErrInvalidLibFileBaseName is the sentinel error wrapped by InvalidLibFileBaseNameError.
	ErrInvalidLibFileBaseName = errors.New("invalid library file base name")
	// ErrInvalidFFIModuleName is the sentinel error wrapped by InvalidFFIModuleNameError.
	ErrInvalidFFIModuleName = errors.New("invalid FFI module name")

	// identifierRegex matches identifiers that are valid both as Swift module
	// names and as file/directory names on every supported filesystem.
	identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// windowsReservedNames cannot be used as file or directory names on Windows,
	// regardless of case or extension.
	windowsReservedNames = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true,
		"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
		"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}
)

type (
	// PackageName is the Swift package and library target name (PascalCase).
	PackageName string

	// InvalidPackageNameError is returned when a PackageName is not a valid identifier.
	InvalidPackageNameError struct {
		Value  PackageName
		Reason string
	}

	// LibFileBaseName names the generated Swift source file inside the package
	// module, without the .swift extension.
	LibFileBaseName string

	// InvalidLibFileBaseNameError is returned when a LibFileBaseName is not a valid identifier.
	InvalidLibFileBaseNameError struct {
		Value  LibFileBaseName
		Reason string
	}

	// FFIModuleName is the binary target name. It also names the XCFramework
	// bundle and the header folder and header file inside every subframework.
	FFIModuleName string

	// InvalidFFIModuleNameError is returned when an FFIModuleName is not a valid identifier.
	InvalidFFIModuleNameError struct {
		Value  FFIModuleName
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

// Error implements the error interface.
func (e *InvalidLibFileBaseNameError) Error() string {
	return fmt.Sprintf("invalid library file base name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidLibFileBaseName for errors.Is() compatibility.
func (e *InvalidLibFileBaseNameError) Unwrap() error { return ErrInvalidLibFileBaseName }

// Error implements the error interface.
func (e *InvalidFFIModuleNameError) Error() string {
	return fmt.Sprintf("invalid FFI module name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidFFIModuleName for errors.Is() compatibility.
func (e *InvalidFFIModuleNameError) Unwrap() error { return ErrInvalidFFIModuleName }

// IsValid returns whether the PackageName is a non-empty identifier without
// path separators, and a list of validation errors if it is not.
func (n PackageName) IsValid() (bool, []error) {
	if reason := identifierProblem(string(n)); reason != "" {
		return false, []error{&InvalidPackageNameError{Value: n, Reason: reason}}
	}
	return true, nil
}

// String returns the string representation of the PackageName.
func (n PackageName) String() string { return string(n) }

// IsValid returns whether the LibFileBaseName is a valid identifier.
func (n LibFileBaseName) IsValid() (bool, []error) {
	if reason := identifierProblem(string(n)); reason != "" {
		return false, []error{&InvalidLibFileBaseNameError{Value: n, Reason: reason}}
	}
	return true, nil
}

// String returns the string representation of the LibFileBaseName.
func (n LibFileBaseName) String() string { return string(n) }

// IsValid returns whether the FFIModuleName is a valid identifier.
func (n FFIModuleName) IsValid() (bool, []error) {
	if reason := identifierProblem(string(n)); reason != "" {
		return false, []error{&InvalidFFIModuleNameError{Value: n, Reason: reason}}
	}
	return true, nil
}

// String returns the string representation of the FFIModuleName.
func (n FFIModuleName) String() string { return string(n) }

// IsLegacy reports whether the name is the legacy default.
func (n FFIModuleName) IsLegacy() bool { return n == LegacyFFIModuleName }

// PascalCase converts a crate or directory name into a Swift package name.
// Words are split on every character that is not a letter or digit; the first
// letter of each word is upper-cased and the remaining letters are kept as is,
// so "swift-project" becomes "SwiftProject" and "my_HTTP_lib" becomes "MyHTTPLib".
func PascalCase(s string) string {
	// Casers are stateful and must not be shared between goroutines.
	title := cases.Title(language.Und, cases.NoLower)
	var sb strings.Builder
	for _, word := range splitWords(s) {
		sb.WriteString(title.String(word))
	}
	return sb.String()
}

// SnakeCase converts a crate name into the base name cargo and uniffi use for
// the library and its generated bindings: lower-cased, with every run of
// separators replaced by a single underscore. "Swift-Project" becomes
// "swift_project".
func SnakeCase(s string) string {
	return strings.Join(splitWords(cases.Lower(language.Und).String(s)), "_")
}

// DerivePackageName derives a PackageName from a project directory or crate name.
func DerivePackageName(s string) PackageName {
	return PackageName(PascalCase(s))
}

// DeriveLibFileBaseName derives a LibFileBaseName from a crate or library name.
func DeriveLibFileBaseName(s string) LibFileBaseName {
	return LibFileBaseName(SnakeCase(s))
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func identifierProblem(s string) string {
	switch {
	case s == "":
		return "must not be empty"
	case strings.ContainsAny(s, `/\`):
		return "must not contain path separators"
	case !identifierRegex.MatchString(s):
		return "must start with a letter or underscore and contain only letters, digits and underscores"
	case IsWindowsReservedName(s):
		return "is a reserved file name on Windows"
	default:
		return ""
	}
}

// IsWindowsReservedName reports whether name (ignoring case and extension) is
// reserved by Windows and therefore unusable as a package path segment.
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.LastIndex(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	return windowsReservedNames[upper]
}
