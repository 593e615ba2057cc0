// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/swiftpack/swiftpack/pkg/layout"
	"github.com/swiftpack/swiftpack/pkg/naming"
	"github.com/swiftpack/swiftpack/pkg/platform"
	"github.com/swiftpack/swiftpack/pkg/swiftpkg"
)

var (
	// ErrWarningsFlagUnsupported is returned when disableWarnings is set for a
	// generation without a compiler-settings block.
	ErrWarningsFlagUnsupported = errors.New("disabling warnings is not supported by this manifest generation")
	// ErrFixedBinaryTarget is returned when a generation with a fixed binary
	// target name is given a different FFI module name.
	ErrFixedBinaryTarget = errors.New("binary target name is fixed by this manifest generation")

	// V1 is the first generation: fixed "RustFramework" binary target and macOS 10.10.
	V1 Renderer = &generation{
		version:         swiftpkg.SchemaV1,
		importTrailer:   ";",
		fixedBinary:     naming.LegacyFFIModuleName,
		defaultMinimums: []platform.Minimum{{Platform: platform.IOS, Version: "13"}, {Platform: platform.MacOS, Version: "10.10"}},
	}
	// V2 raises macOS to 10.15 and supports a SWIFT_PACKAGE_MANAGER define.
	V2 Renderer = &generation{
		version:         swiftpkg.SchemaV2,
		importTrailer:   ";",
		fixedBinary:     naming.LegacyFFIModuleName,
		defaultMinimums: []platform.Minimum{{Platform: platform.IOS, Version: "13"}, {Platform: platform.MacOS, Version: "10.15"}},
		settingsBlock:   `.define("SWIFT_PACKAGE_MANAGER")`,
	}
	// V3 names the binary target after the FFI module and suppresses warnings
	// with an unsafe compiler flag.
	V3 Renderer = &generation{
		version:         swiftpkg.SchemaV3,
		defaultMinimums: []platform.Minimum{{Platform: platform.IOS, Version: "13"}, {Platform: platform.MacOS, Version: "10.15"}},
		settingsBlock:   `.unsafeFlags(["-suppress-warnings"])`,
	}
)

type (
	// Renderer renders Package.swift for one manifest generation.
	Renderer interface {
		// SchemaVersion returns the generation this renderer implements.
		SchemaVersion() swiftpkg.SchemaVersion
		// Check reports whether cfg can be rendered, as a *swiftpkg.ConfigError.
		Check(cfg *swiftpkg.Configuration) error
		// Render returns the manifest text. It never mutates cfg and fails
		// closed with a *swiftpkg.ConfigError instead of emitting partial text.
		Render(cfg *swiftpkg.Configuration) (string, error)
		// DefaultMinimums returns the platforms declared when the configuration has none.
		DefaultMinimums() []platform.Minimum
		// DefaultMinimum returns the generation's default for one platform.
		DefaultMinimum(id platform.ID) platform.Minimum
	}

	// generation holds everything that differs between manifest generations.
	generation struct {
		version       swiftpkg.SchemaVersion
		importTrailer string
		// fixedBinary is the binary target name when it is not parameterized.
		fixedBinary     naming.FFIModuleName
		defaultMinimums []platform.Minimum
		// settingsBlock is the swiftSettings entry emitted when warnings are
		// disabled; empty when the generation has none.
		settingsBlock string
	}
)

// ForSchema returns the renderer for a manifest generation.
func ForSchema(v swiftpkg.SchemaVersion) (Renderer, error) {
	switch v {
	case swiftpkg.SchemaV1:
		return V1, nil
	case swiftpkg.SchemaV2:
		return V2, nil
	case swiftpkg.SchemaV3:
		return V3, nil
	default:
		return nil, swiftpkg.NewConfigError("", &swiftpkg.InvalidSchemaVersionError{Value: v})
	}
}

// Render renders cfg with the generation named by cfg.SchemaVersion().
func Render(cfg *swiftpkg.Configuration) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	r, err := ForSchema(cfg.SchemaVersion())
	if err != nil {
		return "", err
	}
	return r.Render(cfg)
}

// Check reports whether cfg can be rendered by its own generation.
func Check(cfg *swiftpkg.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r, err := ForSchema(cfg.SchemaVersion())
	if err != nil {
		return err
	}
	return r.Check(cfg)
}

func (g *generation) SchemaVersion() swiftpkg.SchemaVersion { return g.version }

func (g *generation) DefaultMinimums() []platform.Minimum {
	return append([]platform.Minimum(nil), g.defaultMinimums...)
}

func (g *generation) DefaultMinimum(id platform.ID) platform.Minimum {
	for _, m := range g.defaultMinimums {
		if m.Platform == id {
			return m
		}
	}
	return id.DefaultMinimum()
}

func (g *generation) Check(cfg *swiftpkg.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	source := "manifest schema " + g.version.String()
	var errs []error
	if g.fixedBinary != "" && cfg.FFIModuleName() != g.fixedBinary {
		errs = append(errs, fmt.Errorf("%w: want %q, got %q", ErrFixedBinaryTarget, g.fixedBinary, cfg.FFIModuleName()))
	}
	if g.settingsBlock == "" && cfg.DisableWarnings() {
		errs = append(errs, ErrWarningsFlagUnsupported)
	}
	if len(errs) > 0 {
		return swiftpkg.NewConfigError(source, errs...)
	}
	return nil
}

func (g *generation) Render(cfg *swiftpkg.Configuration) (string, error) {
	if err := g.Check(cfg); err != nil {
		return "", err
	}

	pkg := cfg.PackageName().String()
	// The binary target declaration and the library's dependency are both
	// written from binary.
	binary := cfg.FFIModuleName()
	bundlePath := layout.NewTree(".", cfg).XCFrameworkRelPath()

	minimums := cfg.PlatformMinimums()
	if len(minimums) == 0 {
		minimums = g.defaultMinimums
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "// swift-tools-version:%s\n", platform.ToolsVersionFor(minimums))
	sb.WriteString("// The swift-tools-version declares the minimum version of Swift required to build this package.\n")
	fmt.Fprintf(&sb, "// Swift Package: %s\n\n", pkg)
	fmt.Fprintf(&sb, "import PackageDescription%s\n\n", g.importTrailer)

	sb.WriteString("let package = Package(\n")
	fmt.Fprintf(&sb, "    name: %q,\n", pkg)
	sb.WriteString("    platforms: [\n")
	for i, m := range minimums {
		sb.WriteString("        ")
		sb.WriteString(m.ManifestEntry())
		if i < len(minimums)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("    ],\n")

	sb.WriteString("    products: [\n")
	sb.WriteString("        .library(\n")
	fmt.Fprintf(&sb, "            name: %q,\n", pkg)
	fmt.Fprintf(&sb, "            targets: [%q]\n", pkg)
	sb.WriteString("        )\n")
	sb.WriteString("    ],\n")
	sb.WriteString("    dependencies: [ ],\n")

	sb.WriteString("    targets: [\n")
	fmt.Fprintf(&sb, "        .binaryTarget(name: %q, path: %q),\n", binary, bundlePath)
	sb.WriteString("        .target(\n")
	fmt.Fprintf(&sb, "            name: %q,\n", pkg)
	sb.WriteString("            dependencies: [\n")
	fmt.Fprintf(&sb, "                .target(name: %q)\n", binary)
	if cfg.DisableWarnings() {
		sb.WriteString("            ],\n")
		sb.WriteString("            swiftSettings: [\n")
		fmt.Fprintf(&sb, "                %s\n", g.settingsBlock)
		sb.WriteString("            ]\n")
	} else {
		sb.WriteString("            ]\n")
	}
	sb.WriteString("        ),\n")
	sb.WriteString("    ]\n")
	sb.WriteString(")\n")

	return sb.String(), nil
}
