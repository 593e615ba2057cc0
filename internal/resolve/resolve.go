// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/swiftpack/swiftpack/internal/cargo"
	"github.com/swiftpack/swiftpack/internal/uniffi"
	"github.com/swiftpack/swiftpack/pkg/manifest"
	"github.com/swiftpack/swiftpack/pkg/naming"
	"github.com/swiftpack/swiftpack/pkg/platform"
	"github.com/swiftpack/swiftpack/pkg/swiftpkg"
)

// DeprecatedModuleNameFlag is the command line option superseded by
// ffi_module_name in uniffi.toml.
const DeprecatedModuleNameFlag = "--xcframework-name"

type (
	// Request carries everything the resolver reads besides the filesystem.
	Request struct {
		// Fs is the filesystem to read from; nil means the OS filesystem.
		Fs afero.Fs
		// ProjectDir is the crate root containing Cargo.toml.
		ProjectDir string
		// BindingConfigPath overrides <ProjectDir>/uniffi.toml.
		BindingConfigPath string
		// DeprecatedModuleName is the value of the deprecated module name flag.
		DeprecatedModuleName string
		// PackageName overrides the name derived from the project directory.
		PackageName string
		DisableWarnings bool
		// Platforms are the requested platforms, in manifest order; empty
		// selects the manifest generation's default platforms.
		Platforms []platform.ID
		// Minimums override the default minimum version of individual platforms.
		Minimums []platform.Minimum
		// ToolVersion selects the manifest generation the package was created
		// with; empty selects the current one.
		ToolVersion string
		// SchemaVersion forces a manifest generation and takes precedence over ToolVersion.
		SchemaVersion swiftpkg.SchemaVersion
	}

	// Resolution is a resolved configuration plus non-fatal warnings.
	Resolution struct {
		Config *swiftpkg.Configuration
		// Crate is the parsed Cargo.toml.
		Crate *cargo.Manifest
		// Warnings are reported to the user once; they never fail resolution.
		Warnings []error
	}

	// DeprecatedOptionWarning reports use of a deprecated option.
	DeprecatedOptionWarning struct {
		Option      string
		Replacement string
		// Ignored is set when the preferred mechanism also supplied a value,
		// which then took precedence.
		Ignored bool
	}

	// FixedModuleNameWarning reports that a manifest generation with a fixed
	// binary target name overrode the requested FFI module name.
	FixedModuleNameWarning struct {
		Requested naming.FFIModuleName
		Schema    swiftpkg.SchemaVersion
	}
)

// Error implements the error interface.
func (w *DeprecatedOptionWarning) Error() string {
	msg := fmt.Sprintf("%s is deprecated; %s", w.Option, w.Replacement)
	if w.Ignored {
		msg += " (the value from the config file is used)"
	}
	return msg
}

// Error implements the error interface.
func (w *FixedModuleNameWarning) Error() string {
	return fmt.Sprintf("manifest schema %s always names the binary target %q; ignoring %q",
		w.Schema, naming.LegacyFFIModuleName, w.Requested)
}

// Resolve reads project metadata and returns the configuration to render.
// Any missing or unparsable input yields a *swiftpkg.ConfigError; nothing is
// written to disk.
func Resolve(ctx context.Context, req Request) (*Resolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fsys := req.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	projectDir, err := filepath.Abs(req.ProjectDir)
	if err != nil {
		return nil, swiftpkg.NewConfigError(req.ProjectDir, err)
	}

	crate, err := cargo.ReadManifest(fsys, projectDir)
	if err != nil {
		return nil, swiftpkg.NewConfigError(filepath.Join(projectDir, cargo.ManifestFileName), err)
	}

	schema, err := schemaVersion(req)
	if err != nil {
		return nil, swiftpkg.NewConfigError("", err)
	}
	renderer, err := manifest.ForSchema(schema)
	if err != nil {
		return nil, err
	}

	bindingPath := req.BindingConfigPath
	if bindingPath == "" {
		bindingPath = uniffi.DefaultConfigPath(projectDir)
	}
	bindings, err := uniffi.LoadConfig(fsys, bindingPath)
	if err != nil {
		return nil, swiftpkg.NewConfigError(bindingPath, err)
	}

	res := &Resolution{Crate: crate}
	ffi := resolveFFIModuleName(bindings, req.DeprecatedModuleName, res)
	if schema != swiftpkg.SchemaV3 && !ffi.IsLegacy() {
		res.Warnings = append(res.Warnings, &FixedModuleNameWarning{Requested: ffi, Schema: schema})
		ffi = naming.LegacyFFIModuleName
	}

	packageName := naming.PackageName(req.PackageName)
	if packageName == "" {
		packageName = naming.DerivePackageName(filepath.Base(projectDir))
	}

	cfg, err := swiftpkg.NewConfiguration(swiftpkg.Options{
		PackageName:      packageName,
		LibFileBaseName:  naming.DeriveLibFileBaseName(crate.LibName()),
		FFIModuleName:    ffi,
		DisableWarnings:  req.DisableWarnings,
		SchemaVersion:    schema,
		PlatformMinimums: minimums(renderer, req.Platforms, req.Minimums),
	})
	if err != nil {
		return nil, err
	}
	if err := renderer.Check(cfg); err != nil {
		return nil, err
	}

	res.Config = cfg
	return res, nil
}

// resolveFFIModuleName applies the precedence binding config, deprecated
// flag, legacy default. The deprecated flag always records a warning.
func resolveFFIModuleName(bindings *uniffi.Config, deprecated string, res *Resolution) naming.FFIModuleName {
	fromConfig, ok := bindings.FFIModuleName()
	if deprecated != "" {
		res.Warnings = append(res.Warnings, &DeprecatedOptionWarning{
			Option:      DeprecatedModuleNameFlag,
			Replacement: "set ffi_module_name under [bindings.swift] in uniffi.toml",
			Ignored:     ok,
		})
	}

	switch {
	case ok:
		return fromConfig
	case deprecated != "":
		return naming.FFIModuleName(deprecated)
	default:
		return naming.LegacyFFIModuleName
	}
}

func schemaVersion(req Request) (swiftpkg.SchemaVersion, error) {
	if req.SchemaVersion != "" {
		if valid, errs := req.SchemaVersion.IsValid(); !valid {
			return "", errs[0]
		}
		return req.SchemaVersion, nil
	}
	return swiftpkg.SchemaVersionForTool(req.ToolVersion)
}

// minimums returns one entry per requested platform, in request order, using
// an explicit override when given and the generation's default otherwise.
// No requested platform selects the generation's default platforms.
func minimums(r manifest.Renderer, ids []platform.ID, overrides []platform.Minimum) []platform.Minimum {
	if len(ids) == 0 {
		for _, m := range r.DefaultMinimums() {
			ids = append(ids, m.Platform)
		}
	}

	override := make(map[platform.ID]platform.Minimum, len(overrides))
	for _, m := range overrides {
		override[m.Platform] = m
	}

	seen := make(map[platform.ID]bool, len(ids))
	out := make([]platform.Minimum, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if m, ok := override[id]; ok {
			out = append(out, m)
			continue
		}
		out = append(out, r.DefaultMinimum(id))
	}
	return out
}
