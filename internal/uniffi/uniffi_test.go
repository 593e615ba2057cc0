// SPDX-License-Identifier: MPL-2.0

package uniffi

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	path := DefaultConfigPath("/crate")
	content := "[bindings.swift]\nffi_module_name = \"CustomFFI\"\nomit_argument_labels = true\n\n[bindings.kotlin]\npackage_name = \"x\"\n"
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(fsys, path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	name, ok := cfg.FFIModuleName()
	if !ok || name != "CustomFFI" {
		t.Errorf("FFIModuleName() = %q, %v", name, ok)
	}
	if !cfg.Bindings.Swift.OmitArgumentLabels {
		t.Error("omit_argument_labels not read")
	}
}

func TestLoadConfigAbsentOrEmpty(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	cfg, err := LoadConfig(fsys, "/crate/uniffi.toml")
	if err != nil || cfg != nil {
		t.Fatalf("missing file should give (nil, nil), got %v, %v", cfg, err)
	}
	if _, ok := cfg.FFIModuleName(); ok {
		t.Error("nil config should have no module name")
	}

	if err := afero.WriteFile(fsys, "/crate/uniffi.toml", []byte("[bindings.swift]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(fsys, "/crate/uniffi.toml")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if _, ok := cfg.FFIModuleName(); ok {
		t.Error("empty section should have no module name")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/crate/uniffi.toml", []byte("[bindings.swift\nffi_module_name ="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(fsys, "/crate/uniffi.toml"); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestArrange(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	dir := "/crate/generated"
	for _, name := range []string{"swift_project.swift", "CustomFFI.h", "CustomFFI.modulemap"} {
		if err := afero.WriteFile(fsys, filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	gen, err := Arrange(fsys, dir)
	if err != nil {
		t.Fatalf("Arrange() error: %v", err)
	}
	if !slices.Equal(gen.Sources, []string{"sources/swift_project.swift"}) {
		t.Errorf("Sources = %v", gen.Sources)
	}
	if !slices.Equal(gen.Headers, []string{"headers/CustomFFI.h", "headers/module.modulemap"}) {
		t.Errorf("Headers = %v", gen.Headers)
	}

	data, err := afero.ReadFile(fsys, filepath.Join(dir, HeadersDirName, ModuleMapName))
	if err != nil || string(data) != "CustomFFI.modulemap" {
		t.Errorf("module map not moved: %q, %v", data, err)
	}

	again, err := Arrange(fsys, dir)
	if err != nil {
		t.Fatalf("second Arrange() error: %v", err)
	}
	if !slices.Equal(again.Sources, gen.Sources) || !slices.Equal(again.Headers, gen.Headers) {
		t.Error("Arrange() is not idempotent")
	}
}

func TestArrangeWithoutBindings(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/crate/generated", 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Arrange(fsys, "/crate/generated"); !errors.Is(err, ErrNoBindings) {
		t.Errorf("expected ErrNoBindings, got %v", err)
	}
}

func TestBindgenArgs(t *testing.T) {
	t.Parallel()

	got := BindgenArgs("target/aarch64-apple-ios/debug/libx.a", "generated")
	want := []string{"generate", "--library", "target/aarch64-apple-ios/debug/libx.a", "--language", "swift", "--out-dir", "generated"}
	if !slices.Equal(got, want) {
		t.Errorf("BindgenArgs() = %v", got)
	}
}
