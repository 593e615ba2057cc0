// SPDX-License-Identifier: MPL-2.0

package swiftpkg

import (
	"errors"
	"strings"
	"testing"

	"github.com/swiftpack/swiftpack/pkg/naming"
	"github.com/swiftpack/swiftpack/pkg/platform"
)

func validOptions() Options {
	return Options{
		PackageName:     "SwiftProject",
		LibFileBaseName: "swift_project",
		FFIModuleName:   "CustomFFI",
		SchemaVersion:   SchemaV3,
		PlatformMinimums: []platform.Minimum{
			{Platform: platform.IOS, Version: "13"},
			{Platform: platform.MacOS, Version: "10.15"},
		},
	}
}

func TestNewConfiguration(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfiguration(validOptions())
	if err != nil {
		t.Fatalf("NewConfiguration() error: %v", err)
	}
	if cfg.PackageName() != "SwiftProject" || cfg.LibFileBaseName() != "swift_project" {
		t.Errorf("unexpected names: %q %q", cfg.PackageName(), cfg.LibFileBaseName())
	}
	if cfg.FFIModuleName() != "CustomFFI" || cfg.SchemaVersion() != SchemaV3 {
		t.Errorf("unexpected module/schema: %q %q", cfg.FFIModuleName(), cfg.SchemaVersion())
	}
	if got := cfg.Platforms(); len(got) != 2 || got[0] != platform.IOS || got[1] != platform.MacOS {
		t.Errorf("Platforms() = %v", got)
	}
}

func TestConfigurationIsImmutable(t *testing.T) {
	t.Parallel()

	opts := validOptions()
	cfg, err := NewConfiguration(opts)
	if err != nil {
		t.Fatalf("NewConfiguration() error: %v", err)
	}

	opts.PlatformMinimums[0].Version = "99"
	if cfg.PlatformMinimums()[0].Version != "13" {
		t.Error("configuration shares the caller's minimums slice")
	}

	got := cfg.PlatformMinimums()
	got[0].Version = "42"
	if cfg.PlatformMinimums()[0].Version != "13" {
		t.Error("PlatformMinimums() must return a copy")
	}

	v1, err := cfg.WithSchemaVersion(SchemaV1)
	if err != nil {
		t.Fatalf("WithSchemaVersion() error: %v", err)
	}
	if v1.SchemaVersion() != SchemaV1 || cfg.SchemaVersion() != SchemaV3 {
		t.Error("WithSchemaVersion() must not modify the receiver")
	}
}

func TestNewConfigurationCollectsAllErrors(t *testing.T) {
	t.Parallel()

	opts := validOptions()
	opts.PackageName = "Swift/Project"
	opts.FFIModuleName = ""
	opts.SchemaVersion = "v9"
	opts.PlatformMinimums = append(opts.PlatformMinimums, platform.Minimum{Platform: platform.IOS, Version: "14"})

	_, err := NewConfiguration(opts)
	if err == nil {
		t.Fatal("expected error")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if len(cfgErr.Errs) != 4 {
		t.Errorf("expected 4 errors, got %d: %v", len(cfgErr.Errs), cfgErr.Errs)
	}

	for _, sentinel := range []error{
		ErrInvalidConfiguration,
		naming.ErrInvalidPackageName,
		naming.ErrInvalidFFIModuleName,
		ErrInvalidSchemaVersion,
		platform.ErrDuplicatePlatform,
	} {
		if !errors.Is(err, sentinel) {
			t.Errorf("errors.Is(err, %v) = false", sentinel)
		}
	}
	if !strings.Contains(err.Error(), "(4 errors)") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestZeroConfigurationIsInvalid(t *testing.T) {
	t.Parallel()

	if err := (&Configuration{}).Validate(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero Configuration should be invalid, got %v", err)
	}
	var nilCfg *Configuration
	if err := nilCfg.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("nil Configuration should be invalid, got %v", err)
	}
}

func TestConfigErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewConfigError("Cargo.toml", errors.New("missing [package] name"))
	if got := err.Error(); got != "invalid configuration in Cargo.toml: missing [package] name" {
		t.Errorf("Error() = %q", got)
	}
}
