// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for swiftpack.
//
// The command tree is built around an App that carries the configuration
// provider, the process runner and the filesystem, so every command can be
// exercised in tests without touching the real toolchain.
package cmd
