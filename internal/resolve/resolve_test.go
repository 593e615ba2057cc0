// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/swiftpack/swiftpack/internal/cargo"
	"github.com/swiftpack/swiftpack/internal/uniffi"
	"github.com/swiftpack/swiftpack/pkg/manifest"
	"github.com/swiftpack/swiftpack/pkg/naming"
	"github.com/swiftpack/swiftpack/pkg/platform"
	"github.com/swiftpack/swiftpack/pkg/swiftpkg"
)

const (
	projectDir = "/work/swift-project"
	cargoToml  = "[package]\nname = \"swift-project\"\nversion = \"0.1.0\"\n\n[lib]\ncrate-type = [\"staticlib\"]\n"
)

func newProject(t *testing.T, uniffiToml string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, projectDir+"/Cargo.toml", []byte(cargoToml), 0o644); err != nil {
		t.Fatal(err)
	}
	if uniffiToml != "" {
		if err := afero.WriteFile(fsys, projectDir+"/uniffi.toml", []byte(uniffiToml), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	res, err := Resolve(t.Context(), Request{
		Fs:         newProject(t, ""),
		ProjectDir: projectDir,
		Platforms:  []platform.ID{platform.MacOS, platform.IOS},
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	cfg := res.Config
	if cfg.PackageName() != "SwiftProject" {
		t.Errorf("PackageName() = %q, want SwiftProject", cfg.PackageName())
	}
	if cfg.LibFileBaseName() != "swift_project" {
		t.Errorf("LibFileBaseName() = %q, want swift_project", cfg.LibFileBaseName())
	}
	if cfg.FFIModuleName() != naming.LegacyFFIModuleName {
		t.Errorf("FFIModuleName() = %q, want legacy default", cfg.FFIModuleName())
	}
	if cfg.SchemaVersion() != swiftpkg.CurrentSchemaVersion {
		t.Errorf("SchemaVersion() = %q", cfg.SchemaVersion())
	}
	got := cfg.PlatformMinimums()
	if len(got) != 2 || got[0] != platform.MacOS.DefaultMinimum() || got[1] != platform.IOS.DefaultMinimum() {
		t.Errorf("PlatformMinimums() = %v", got)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if res.Crate.Package.Name != "swift-project" {
		t.Errorf("Crate.Package.Name = %q", res.Crate.Package.Name)
	}
}

func TestResolveModuleNamePrecedence(t *testing.T) {
	t.Parallel()

	const customConfig = "[bindings.swift]\nffi_module_name = \"CustomFFI\"\n"

	tests := []struct {
		name        string
		uniffi      string
		deprecated  string
		want        naming.FFIModuleName
		wantWarning bool
		wantIgnored bool
	}{
		{name: "binding config", uniffi: customConfig, want: "CustomFFI"},
		{name: "deprecated flag", deprecated: "MyFramework", want: "MyFramework", wantWarning: true},
		{name: "config beats flag", uniffi: customConfig, deprecated: "MyFramework", want: "CustomFFI", wantWarning: true, wantIgnored: true},
		{name: "legacy default", uniffi: "[bindings.kotlin]\n", want: naming.LegacyFFIModuleName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := Resolve(t.Context(), Request{
				Fs:                   newProject(t, tt.uniffi),
				ProjectDir:           projectDir,
				DeprecatedModuleName: tt.deprecated,
				Platforms:            []platform.ID{platform.IOS},
			})
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if res.Config.FFIModuleName() != tt.want {
				t.Errorf("FFIModuleName() = %q, want %q", res.Config.FFIModuleName(), tt.want)
			}

			if !tt.wantWarning {
				if len(res.Warnings) != 0 {
					t.Errorf("unexpected warnings: %v", res.Warnings)
				}
				return
			}
			if len(res.Warnings) != 1 {
				t.Fatalf("expected exactly one warning, got %v", res.Warnings)
			}
			var dep *DeprecatedOptionWarning
			if !errors.As(res.Warnings[0], &dep) {
				t.Fatalf("expected *DeprecatedOptionWarning, got %T", res.Warnings[0])
			}
			if dep.Option != DeprecatedModuleNameFlag || dep.Ignored != tt.wantIgnored {
				t.Errorf("warning = %+v", dep)
			}
		})
	}
}

func TestResolveOlderSchemaFixesModuleName(t *testing.T) {
	t.Parallel()

	res, err := Resolve(t.Context(), Request{
		Fs:          newProject(t, "[bindings.swift]\nffi_module_name = \"CustomFFI\"\n"),
		ProjectDir:  projectDir,
		ToolVersion: "0.5.0",
		Platforms:   []platform.ID{platform.IOS, platform.MacOS},
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Config.SchemaVersion() != swiftpkg.SchemaV2 {
		t.Errorf("SchemaVersion() = %q, want v2", res.Config.SchemaVersion())
	}
	if res.Config.FFIModuleName() != naming.LegacyFFIModuleName {
		t.Errorf("FFIModuleName() = %q, want legacy literal", res.Config.FFIModuleName())
	}
	var fixed *FixedModuleNameWarning
	if len(res.Warnings) != 1 || !errors.As(res.Warnings[0], &fixed) || fixed.Requested != "CustomFFI" {
		t.Errorf("expected FixedModuleNameWarning, got %v", res.Warnings)
	}
	if _, err := manifest.Render(res.Config); err != nil {
		t.Errorf("resolved configuration does not render: %v", err)
	}
}

func TestResolveUsesGenerationDefaults(t *testing.T) {
	t.Parallel()

	res, err := Resolve(t.Context(), Request{
		Fs:            newProject(t, ""),
		ProjectDir:    projectDir,
		SchemaVersion: swiftpkg.SchemaV1,
		ToolVersion:   "9.9.9",
		Platforms:     []platform.ID{platform.IOS, platform.MacOS, platform.IOS},
		Minimums:      []platform.Minimum{{Platform: platform.IOS, Version: "15"}},
	})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	got := res.Config.PlatformMinimums()
	want := []platform.Minimum{{Platform: platform.IOS, Version: "15"}, {Platform: platform.MacOS, Version: "10.10"}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("PlatformMinimums() = %v, want %v", got, want)
	}
}

func TestResolveWithoutPlatformsUsesGenerationPlatforms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		schema    swiftpkg.SchemaVersion
		overrides []platform.Minimum
		want      []platform.Minimum
	}{
		{
			name:   "first generation",
			schema: swiftpkg.SchemaV1,
			want:   []platform.Minimum{{Platform: platform.IOS, Version: "13"}, {Platform: platform.MacOS, Version: "10.10"}},
		},
		{
			name:   "current generation",
			schema: swiftpkg.SchemaV3,
			want:   []platform.Minimum{{Platform: platform.IOS, Version: "13"}, {Platform: platform.MacOS, Version: "10.15"}},
		},
		{
			name:      "override applies to default platforms",
			schema:    swiftpkg.SchemaV3,
			overrides: []platform.Minimum{{Platform: platform.MacOS, Version: "12"}, {Platform: platform.TvOS, Version: "15"}},
			want:      []platform.Minimum{{Platform: platform.IOS, Version: "13"}, {Platform: platform.MacOS, Version: "12"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := Resolve(t.Context(), Request{
				Fs:            newProject(t, ""),
				ProjectDir:    projectDir,
				SchemaVersion: tt.schema,
				Minimums:      tt.overrides,
			})
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			got := res.Config.PlatformMinimums()
			if len(got) != len(tt.want) {
				t.Fatalf("PlatformMinimums() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("PlatformMinimums()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fs       func(t *testing.T) afero.Fs
		req      Request
		sentinel error
	}{
		{
			name:     "missing Cargo.toml",
			fs:       func(*testing.T) afero.Fs { return afero.NewMemMapFs() },
			sentinel: cargo.ErrManifestNotFound,
		},
		{
			name: "unparsable Cargo.toml",
			fs: func(t *testing.T) afero.Fs {
				fsys := afero.NewMemMapFs()
				if err := afero.WriteFile(fsys, projectDir+"/Cargo.toml", []byte("[package"), 0o644); err != nil {
					t.Fatal(err)
				}
				return fsys
			},
			sentinel: cargo.ErrManifestInvalid,
		},
		{
			name:     "unparsable uniffi.toml",
			fs:       func(t *testing.T) afero.Fs { return newProject(t, "[bindings.swift\n") },
			sentinel: uniffi.ErrConfigInvalid,
		},
		{
			name:     "invalid package name",
			fs:       func(t *testing.T) afero.Fs { return newProject(t, "") },
			req:      Request{PackageName: "Swift/Project"},
			sentinel: naming.ErrInvalidPackageName,
		},
		{
			name:     "invalid module name in config",
			fs:       func(t *testing.T) afero.Fs { return newProject(t, "[bindings.swift]\nffi_module_name = \"../x\"\n") },
			sentinel: naming.ErrInvalidFFIModuleName,
		},
		{
			name:     "v1 cannot disable warnings",
			fs:       func(t *testing.T) afero.Fs { return newProject(t, "") },
			req:      Request{SchemaVersion: swiftpkg.SchemaV1, DisableWarnings: true},
			sentinel: manifest.ErrWarningsFlagUnsupported,
		},
		{
			name:     "bad tool version",
			fs:       func(t *testing.T) afero.Fs { return newProject(t, "") },
			req:      Request{ToolVersion: "not-a-version"},
			sentinel: swiftpkg.ErrInvalidToolVersion,
		},
		{
			name:     "unknown platform",
			fs:       func(t *testing.T) afero.Fs { return newProject(t, "") },
			req:      Request{Platforms: []platform.ID{"android"}},
			sentinel: platform.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := tt.req
			req.Fs = tt.fs(t)
			req.ProjectDir = projectDir
			_, err := Resolve(t.Context(), req)
			if !errors.Is(err, swiftpkg.ErrInvalidConfiguration) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v does not wrap %v", err, tt.sentinel)
			}
		})
	}
}

func TestResolveCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := Resolve(ctx, Request{Fs: newProject(t, ""), ProjectDir: projectDir}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
