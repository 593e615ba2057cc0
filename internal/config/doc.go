// SPDX-License-Identifier: MPL-2.0

// Package config handles swiftpack configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/swiftpack/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/swiftpack/config.cue on macOS), falling back to
// config.cue in the current directory. Values not set in the file keep their defaults and
// can be overridden with SWIFTPACK_* environment variables.
//
// Files are validated against the embedded CUE schema (config_schema.cue) before they are
// merged into Viper.
package config
