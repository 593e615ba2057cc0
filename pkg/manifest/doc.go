// SPDX-License-Identifier: MPL-2.0

// Package manifest renders Package.swift from a swiftpkg.Configuration.
//
// Three manifest generations are supported so packages created by older tool
// versions can be regenerated unchanged. Each is a Renderer; the one matching
// the configuration's schema version is selected once by Render.
package manifest
