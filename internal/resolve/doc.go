// SPDX-License-Identifier: MPL-2.0

// Package resolve turns project state (Cargo.toml, uniffi.toml and command
// line overrides) into the immutable swiftpkg.Configuration used to render and
// validate a package.
package resolve
