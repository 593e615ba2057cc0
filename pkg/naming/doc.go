// SPDX-License-Identifier: MPL-2.0

// Package naming holds the identifier types that name a generated Swift package
// (package name, library file base name, FFI module name) and the casing rules
// that derive them from crate metadata.
package naming
