// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// MacOS is the macOS platform (Apple Silicon and Intel).
	MacOS ID = "macos"
	// IOS is the iOS platform, including the simulator.
	IOS ID = "ios"
	// TvOS is the tvOS platform, including the simulator.
	TvOS ID = "tvos"
	// WatchOS is the watchOS platform, including the simulator.
	WatchOS ID = "watchos"
	// VisionOS is the visionOS platform, including the simulator.
	VisionOS ID = "visionos"

	// BaseToolsVersion is the swift-tools-version written when every
	// declared platform is available to it.
	BaseToolsVersion = "5.5"
)

var (
	// ErrInvalidID is the sentinel error wrapped by InvalidIDError.
	ErrInvalidID = errors.New("invalid platform")
	// ErrInvalidMinimumVersion is the sentinel error wrapped by InvalidMinimumVersionError.
	ErrInvalidMinimumVersion = errors.New("invalid minimum version")
	// ErrDuplicatePlatform is returned when a minimums list names a platform twice.
	ErrDuplicatePlatform = errors.New("duplicate platform")

	versionRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

	// members lists the enumerated PackageDescription versions of each
	// platform with the tools version that introduced them. Other versions
	// are written as strings.
	descriptors = map[ID]descriptor{
		MacOS: {
			display: "macOS", manifestName: "macOS", defaultMinimum: "10.15", since: BaseToolsVersion,
			members: members(
				span{BaseToolsVersion, []MinimumVersion{"10.10", "10.11", "10.12", "10.13", "10.14", "10.15", "11", "12"}},
				span{"5.7", majors(13, 13)},
				span{"5.9", majors(14, 14)},
				span{"6.0", majors(15, 15)},
			),
		},
		IOS: {
			display: "iOS", manifestName: "iOS", defaultMinimum: "13", since: BaseToolsVersion,
			members: members(span{BaseToolsVersion, majors(8, 15)}, span{"5.7", majors(16, 16)}, span{"5.9", majors(17, 17)}, span{"6.0", majors(18, 18)}),
		},
		TvOS: {
			display: "tvOS", manifestName: "tvOS", defaultMinimum: "13", since: BaseToolsVersion,
			members: members(span{BaseToolsVersion, majors(9, 15)}, span{"5.7", majors(16, 16)}, span{"5.9", majors(17, 17)}, span{"6.0", majors(18, 18)}),
		},
		WatchOS: {
			display: "watchOS", manifestName: "watchOS", defaultMinimum: "6", since: BaseToolsVersion,
			members: members(span{BaseToolsVersion, majors(2, 8)}, span{"5.7", majors(9, 9)}, span{"5.9", majors(10, 10)}, span{"6.0", majors(11, 11)}),
		},
		VisionOS: {
			display: "visionOS", manifestName: "visionOS", defaultMinimum: "1", since: "5.9",
			members: members(span{"5.9", majors(1, 1)}, span{"6.0", majors(2, 2)}),
		},
	}
)

type (
	// ID identifies an Apple platform by its lower-case CLI name.
	ID string

	// InvalidIDError is returned when an ID is not a known platform.
	InvalidIDError struct {
		Value ID
	}

	// MinimumVersion is a deployment target version, either "major" or
	// "major.minor" (e.g., "13", "10.15").
	MinimumVersion string

	// InvalidMinimumVersionError is returned when a MinimumVersion is malformed.
	InvalidMinimumVersionError struct {
		Value MinimumVersion
	}

	// Minimum pairs a platform with its minimum deployment version.
	Minimum struct {
		Platform ID
		Version  MinimumVersion
	}

	descriptor struct {
		display        string
		manifestName   string
		defaultMinimum MinimumVersion
		// since is the first tools version that knows the platform.
		since string
		// members maps enumerated versions to the tools version that added them.
		members map[MinimumVersion]string
	}

	span struct {
		tools    string
		versions []MinimumVersion
	}
)

// Error implements the error interface.
func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid platform %q (valid: %s)", e.Value, strings.Join(idStrings(), ", "))
}

// Unwrap returns ErrInvalidID for errors.Is() compatibility.
func (e *InvalidIDError) Unwrap() error { return ErrInvalidID }

// Error implements the error interface.
func (e *InvalidMinimumVersionError) Error() string {
	return fmt.Sprintf("invalid minimum version %q (expected \"major\" or \"major.minor\")", e.Value)
}

// Unwrap returns ErrInvalidMinimumVersion for errors.Is() compatibility.
func (e *InvalidMinimumVersionError) Unwrap() error { return ErrInvalidMinimumVersion }

// All returns every supported platform in a stable order.
func All() []ID {
	return []ID{MacOS, IOS, TvOS, WatchOS, VisionOS}
}

// ParseID parses a case-insensitive platform name.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if valid, errs := id.IsValid(); !valid {
		return "", errs[0]
	}
	return id, nil
}

// IsValid returns whether the ID names a supported platform.
func (id ID) IsValid() (bool, []error) {
	if _, ok := descriptors[id]; !ok {
		return false, []error{&InvalidIDError{Value: id}}
	}
	return true, nil
}

// String returns the string representation of the ID.
func (id ID) String() string { return string(id) }

// DisplayName returns the human-readable platform name (e.g., "macOS").
func (id ID) DisplayName() string { return descriptors[id].display }

// ManifestName returns the SwiftPM SupportedPlatform member (e.g., "macOS"
// for ".macOS(.v10_15)").
func (id ID) ManifestName() string { return descriptors[id].manifestName }

// DefaultMinimum returns the default minimum deployment version.
func (id ID) DefaultMinimum() Minimum {
	return Minimum{Platform: id, Version: descriptors[id].defaultMinimum}
}

// IsValid returns whether the MinimumVersion is "major" or "major.minor".
func (v MinimumVersion) IsValid() (bool, []error) {
	if !versionRegex.MatchString(string(v)) {
		return false, []error{&InvalidMinimumVersionError{Value: v}}
	}
	return true, nil
}

// ManifestLiteral returns the SwiftPM version member, e.g. ".v10_15" for "10.15".
func (v MinimumVersion) ManifestLiteral() string {
	return ".v" + strings.ReplaceAll(string(v), ".", "_")
}

// IsEnumerated reports whether PackageDescription declares a version member
// for m, such as .v10_15 for macOS 10.15.
func (m Minimum) IsEnumerated() bool {
	_, ok := descriptors[m.Platform].members[m.Version]
	return ok
}

// ToolsVersion returns the lowest swift-tools-version whose PackageDescription
// can declare m.
func (m Minimum) ToolsVersion() string {
	d := descriptors[m.Platform]
	if tools, ok := d.members[m.Version]; ok {
		return tools
	}
	if d.since == "" {
		return BaseToolsVersion
	}
	return d.since
}

// ToolsVersionFor returns the swift-tools-version a manifest declaring
// minimums needs: BaseToolsVersion unless an entry requires a newer one.
func ToolsVersionFor(minimums []Minimum) string {
	out := BaseToolsVersion
	for _, m := range minimums {
		if v := m.ToolsVersion(); semver.Compare("v"+v, "v"+out) > 0 {
			out = v
		}
	}
	return out
}

// IsValid returns whether both the platform and version are valid.
func (m Minimum) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := m.Platform.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := m.Version.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// ManifestEntry renders the minimum as a SwiftPM platforms entry, e.g.
// ".iOS(.v13)". Versions without a member are quoted, as in .iOS("13.4").
func (m Minimum) ManifestEntry() string {
	if !m.IsEnumerated() {
		return fmt.Sprintf(".%s(%q)", m.Platform.ManifestName(), string(m.Version))
	}
	return fmt.Sprintf(".%s(%s)", m.Platform.ManifestName(), m.Version.ManifestLiteral())
}

// ValidateMinimums checks every entry and rejects duplicate platforms.
// All problems are returned, not only the first.
func ValidateMinimums(minimums []Minimum) []error {
	var errs []error
	seen := make(map[ID]bool, len(minimums))
	for i, m := range minimums {
		if valid, fieldErrs := m.IsValid(); !valid {
			for _, e := range fieldErrs {
				errs = append(errs, fmt.Errorf("platforms[%d]: %w", i, e))
			}
		}
		if seen[m.Platform] {
			errs = append(errs, fmt.Errorf("platforms[%d]: %w %q", i, ErrDuplicatePlatform, m.Platform))
		}
		seen[m.Platform] = true
	}
	return errs
}

// DefaultMinimums returns the default minimums for ids, preserving order and
// dropping repeated ids.
func DefaultMinimums(ids []ID) []Minimum {
	seen := make(map[ID]bool, len(ids))
	out := make([]Minimum, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id.DefaultMinimum())
	}
	return out
}

func idStrings() []string {
	all := All()
	out := make([]string, len(all))
	for i, id := range all {
		out[i] = string(id)
	}
	return out
}

func members(spans ...span) map[MinimumVersion]string {
	out := make(map[MinimumVersion]string)
	for _, sp := range spans {
		for _, v := range sp.versions {
			out[v] = sp.tools
		}
	}
	return out
}

func majors(from, to int) []MinimumVersion {
	out := make([]MinimumVersion, 0, to-from+1)
	for v := from; v <= to; v++ {
		out = append(out, MinimumVersion(strconv.Itoa(v)))
	}
	return out
}
