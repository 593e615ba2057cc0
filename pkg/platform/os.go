// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// Host operating system names for runtime.GOOS comparisons.
const (
	HostWindows = "windows"
	HostDarwin  = "darwin"
	HostLinux   = "linux"
)

// HostCanBuild reports whether goos can run the Apple toolchain
// (xcodebuild and lipo) that packaging needs.
func HostCanBuild(goos string) bool { return goos == HostDarwin }

// CurrentHostCanBuild reports whether the running system can package crates.
func CurrentHostCanBuild() bool { return HostCanBuild(runtime.GOOS) }
