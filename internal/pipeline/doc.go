// SPDX-License-Identifier: MPL-2.0

// Package pipeline turns a Rust crate into a Swift package.
//
// A run compiles the crate for every target triple of the selected platforms,
// merges multi-architecture slices with lipo, generates bindings with
// uniffi-bindgen, bundles the libraries into an XCFramework with xcodebuild,
// writes Package.swift and the Swift sources, and validates the resulting
// layout. External programs run through a process.Runner and all file work goes
// through an afero.Fs.
package pipeline
