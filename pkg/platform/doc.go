// SPDX-License-Identifier: MPL-2.0

// Package platform describes the Apple platforms a crate can be packaged for.
//
// Each platform maps to one or more build targets (Rust target triples, merged
// into a universal library when a platform needs several architectures) and to
// the minimum deployment version declared in the rendered Package.swift.
// HostCanBuild reports whether the running system has the Apple toolchain.
package platform
