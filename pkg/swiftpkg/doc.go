// SPDX-License-Identifier: MPL-2.0

// Package swiftpkg defines the immutable configuration a Swift package is
// rendered and validated from, and the manifest schema generations it can target.
package swiftpkg
