// SPDX-License-Identifier: MPL-2.0

// Package uniffi reads the Swift section of a crate's uniffi.toml and lays out
// the sources and headers produced by uniffi-bindgen.
package uniffi
