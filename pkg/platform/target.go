// SPDX-License-Identifier: MPL-2.0

package platform

type (
	// Target is one library slice of the XCFramework. A target built from a
	// single triple is used as is; a target with several triples is merged into
	// a universal library named after UniversalName.
	Target struct {
		// Platform is the platform the slice belongs to.
		Platform ID
		// DisplayName is shown in progress output (e.g., "iOS Simulator").
		DisplayName string
		// Triples are the Rust target triples compiled for this slice.
		Triples []string
		// UniversalName names the merged output directory for multi-triple targets.
		UniversalName string
		// NightlyOnly marks tier 3 targets that need a nightly toolchain and -Zbuild-std.
		NightlyOnly bool
	}
)

// Targets returns the library slices built for a platform.
func (id ID) Targets() []Target {
	switch id {
	case MacOS:
		return []Target{{
			Platform:      MacOS,
			DisplayName:   "macOS",
			Triples:       []string{"x86_64-apple-darwin", "aarch64-apple-darwin"},
			UniversalName: "universal-macos",
		}}
	case IOS:
		return []Target{
			{Platform: IOS, DisplayName: "iOS", Triples: []string{"aarch64-apple-ios"}},
			{
				Platform:      IOS,
				DisplayName:   "iOS Simulator",
				Triples:       []string{"x86_64-apple-ios", "aarch64-apple-ios-sim"},
				UniversalName: "universal-ios",
			},
		}
	case TvOS:
		return []Target{
			{Platform: TvOS, DisplayName: "tvOS", Triples: []string{"aarch64-apple-tvos"}, NightlyOnly: true},
			{
				Platform:      TvOS,
				DisplayName:   "tvOS Simulator",
				Triples:       []string{"aarch64-apple-tvos-sim", "x86_64-apple-tvos"},
				UniversalName: "universal-tvos-simulator",
				NightlyOnly:   true,
			},
		}
	case WatchOS:
		return []Target{
			{
				Platform:      WatchOS,
				DisplayName:   "watchOS",
				Triples:       []string{"arm64_32-apple-watchos", "aarch64-apple-watchos"},
				UniversalName: "universal-watchos",
				NightlyOnly:   true,
			},
			{
				Platform:      WatchOS,
				DisplayName:   "watchOS Simulator",
				Triples:       []string{"aarch64-apple-watchos-sim", "x86_64-apple-watchos-sim"},
				UniversalName: "universal-watchos-simulator",
				NightlyOnly:   true,
			},
		}
	case VisionOS:
		return []Target{
			{Platform: VisionOS, DisplayName: "visionOS", Triples: []string{"aarch64-apple-visionos"}, NightlyOnly: true},
			{Platform: VisionOS, DisplayName: "visionOS Simulator", Triples: []string{"aarch64-apple-visionos-sim"}, NightlyOnly: true},
		}
	default:
		return nil
	}
}

// IsUniversal reports whether the target merges several architectures.
func (t Target) IsUniversal() bool { return len(t.Triples) > 1 }

// OutputDirName is the directory under cargo's target dir that holds the final
// library for this slice: the triple itself, or the universal name.
func (t Target) OutputDirName() string {
	if t.IsUniversal() {
		return t.UniversalName
	}
	return t.Triples[0]
}

// TargetsFor expands platforms into their library slices, preserving order.
func TargetsFor(ids []ID) []Target {
	var out []Target
	for _, id := range ids {
		out = append(out, id.Targets()...)
	}
	return out
}
