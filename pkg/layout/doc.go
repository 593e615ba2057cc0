// SPDX-License-Identifier: MPL-2.0

// Package layout owns the on-disk contract of a generated Swift package:
//
//	<root>/Package.swift
//	<root>/<ffi>.xcframework/<subframework>/Headers/<ffi>/<ffi>.h
//	<root>/Sources/<package>/<lib>.swift
//
// Tree builds these paths and Validate checks a real directory against them.
// Names are compared exactly; case is never normalized.
package layout
