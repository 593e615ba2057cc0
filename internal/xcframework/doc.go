// SPDX-License-Identifier: MPL-2.0

// Package xcframework assembles the xcodebuild invocation that bundles the
// per-platform libraries and moves the generated headers of every subframework
// under Headers/<ffi module>/, where Swift expects a module's headers.
package xcframework
