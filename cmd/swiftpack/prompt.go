// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/swiftpack/swiftpack/internal/cargo"
	"github.com/swiftpack/swiftpack/pkg/naming"
	"github.com/swiftpack/swiftpack/pkg/platform"
)

// errNoPlatformSelected is returned when the platform prompt is submitted empty.
var errNoPlatformSelected = errors.New("select at least one platform")

// promptPlatforms asks which platforms to build. macOS is preselected.
func promptPlatforms(ctx context.Context) ([]platform.ID, error) {
	options := make([]huh.Option[platform.ID], 0, len(platform.All()))
	for _, id := range platform.All() {
		opt := huh.NewOption(id.DisplayName(), id)
		if id == platform.MacOS {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	var selected []platform.ID
	field := huh.NewMultiSelect[platform.ID]().
		Title("Which platforms do you want to build for?").
		Description("Tier 3 platforms (tvOS, watchOS, visionOS) need a nightly toolchain.").
		Options(options...).
		Validate(func(ids []platform.ID) error {
			if len(ids) == 0 {
				return errNoPlatformSelected
			}
			return nil
		}).
		Value(&selected)

	if err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx); err != nil {
		return nil, err
	}
	return selected, nil
}

// promptPackageName asks for the Swift package name, prefilled with the
// name derived from the project directory.
func promptPackageName(ctx context.Context, suggested naming.PackageName) (naming.PackageName, error) {
	name := string(suggested)
	field := huh.NewInput().
		Title("Swift package name").
		Value(&name).
		Validate(func(s string) error {
			if valid, errs := naming.PackageName(s).IsValid(); !valid {
				return errs[0]
			}
			return nil
		})

	if err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx); err != nil {
		return "", err
	}
	return naming.PackageName(name), nil
}

// promptLibType asks whether to build a static or dynamic library.
func promptLibType(ctx context.Context) (cargo.LibType, error) {
	libType := cargo.Static
	field := huh.NewSelect[cargo.LibType]().
		Title("Which library type should the crate build?").
		Options(
			huh.NewOption("static (recommended)", cargo.Static),
			huh.NewOption("dynamic", cargo.Dynamic),
		).
		Value(&libType)

	if err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx); err != nil {
		return "", err
	}
	return libType, nil
}
