// SPDX-License-Identifier: MPL-2.0

// Package process runs the external tools the packaging pipeline drives
// (cargo, lipo, xcodebuild, swift) as single synchronous calls.
package process
