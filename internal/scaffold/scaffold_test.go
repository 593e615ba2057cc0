// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/afero"

	"github.com/swiftpack/swiftpack/internal/cargo"
)

func TestCreateMacroMode(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	project, err := Create(fsys, Options{CrateName: "example-project", ParentDir: "/work"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if project.Dir != filepath.Join("/work", "example-project") {
		t.Errorf("Dir = %q", project.Dir)
	}
	for _, name := range []string{"Cargo.toml", ".gitignore", "src/lib.rs"} {
		if ok, _ := afero.Exists(fsys, filepath.Join(project.Dir, name)); !ok {
			t.Errorf("%s not written", name)
		}
	}
	for _, name := range []string{"build.rs", "src/lib.udl"} {
		if ok, _ := afero.Exists(fsys, filepath.Join(project.Dir, name)); ok {
			t.Errorf("%s written in macro mode", name)
		}
	}

	lib, err := afero.ReadFile(fsys, filepath.Join(project.Dir, "src", "lib.rs"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(lib), "uniffi::setup_scaffolding!();") {
		t.Errorf("lib.rs does not set up scaffolding:\n%s", lib)
	}
	if !strings.Contains(string(lib), "#[uniffi::export]") {
		t.Errorf("lib.rs has no exported examples:\n%s", lib)
	}
}

func TestCreateUDLMode(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	project, err := Create(fsys, Options{CrateName: "example_udl", ParentDir: "/work", UDL: true})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	want := []string{"Cargo.toml", ".gitignore", "src/lib.rs", "src/bin/uniffi-bindgen.rs", "build.rs", "src/lib.udl"}
	if !slices.Equal(project.Files, want) {
		t.Errorf("Files = %v, want %v", project.Files, want)
	}

	udl, err := afero.ReadFile(fsys, filepath.Join(project.Dir, "src", "lib.udl"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(udl), "namespace example_udl {") {
		t.Errorf("lib.udl namespace:\n%s", udl)
	}

	lib, err := afero.ReadFile(fsys, filepath.Join(project.Dir, "src", "lib.rs"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(lib), `uniffi::include_scaffolding!("lib");`) {
		t.Errorf("lib.rs does not include UDL scaffolding:\n%s", lib)
	}
	if strings.Contains(string(lib), "#[uniffi::") {
		t.Errorf("lib.rs uses proc macros in UDL mode:\n%s", lib)
	}
}

func TestCreateCargoManifest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      Options
		crateType string
		buildDeps bool
	}{
		{name: "static macro", opts: Options{CrateName: "my-lib"}, crateType: "staticlib"},
		{name: "dynamic udl", opts: Options{CrateName: "my-lib", LibType: cargo.Dynamic, UDL: true}, crateType: "cdylib", buildDeps: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := afero.NewMemMapFs()
			tt.opts.ParentDir = "/work"
			project, err := Create(fsys, tt.opts)
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}

			m, err := cargo.ReadManifest(fsys, project.Dir)
			if err != nil {
				t.Fatalf("generated Cargo.toml does not parse: %v", err)
			}
			if m.Package.Name != "my-lib" || m.LibName() != "my_lib" {
				t.Errorf("package %q, lib %q", m.Package.Name, m.LibName())
			}
			if !slices.Equal(m.Lib.CrateType, []string{tt.crateType}) {
				t.Errorf("crate-type = %v, want [%s]", m.Lib.CrateType, tt.crateType)
			}

			raw, _ := afero.ReadFile(fsys, filepath.Join(project.Dir, cargo.ManifestFileName))
			if got := strings.Contains(string(raw), "[build-dependencies]"); got != tt.buildDeps {
				t.Errorf("build-dependencies present = %v, want %v", got, tt.buildDeps)
			}
		})
	}
}

func TestCreatePlain(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	project, err := Create(fsys, Options{CrateName: "plain", ParentDir: "/", UDL: true, Plain: true})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	lib, _ := afero.ReadFile(fsys, filepath.Join(project.Dir, "src", "lib.rs"))
	if strings.Contains(string(lib), "Greeter") {
		t.Errorf("plain lib.rs contains examples:\n%s", lib)
	}
	udl, _ := afero.ReadFile(fsys, filepath.Join(project.Dir, "src", "lib.udl"))
	if string(udl) != "namespace plain {\n};\n" {
		t.Errorf("plain lib.udl = %q", udl)
	}
}

func TestCreateErrors(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/work/taken", 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		opts     Options
		sentinel error
	}{
		{name: "existing directory", opts: Options{CrateName: "taken", ParentDir: "/work"}, sentinel: ErrProjectExists},
		{name: "path in name", opts: Options{CrateName: "a/b", ParentDir: "/work"}, sentinel: ErrInvalidCrateName},
		{name: "leading digit", opts: Options{CrateName: "1crate", ParentDir: "/work"}, sentinel: ErrInvalidCrateName},
		{name: "bad lib type", opts: Options{CrateName: "ok", ParentDir: "/work", LibType: "shared"}, sentinel: cargo.ErrInvalidLibType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Create(fsys, tt.opts); !errors.Is(err, tt.sentinel) {
				t.Errorf("Create() error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestParseVcs(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"git", "GIT", "none"} {
		if _, err := ParseVcs(in); err != nil {
			t.Errorf("ParseVcs(%q) error: %v", in, err)
		}
	}
	if _, err := ParseVcs("hg"); !errors.Is(err, ErrInvalidVcs) {
		t.Errorf("ParseVcs(hg) error = %v", err)
	}
}

func TestInitRepository(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "crate")
	project, err := Create(afero.NewOsFs(), Options{CrateName: "crate", ParentDir: filepath.Dir(dir)})
	if err != nil {
		t.Fatal(err)
	}

	created, err := InitRepository(project.Dir)
	if err != nil {
		t.Fatalf("InitRepository() error: %v", err)
	}
	if !created {
		t.Fatal("expected a new repository")
	}

	repo, err := git.PlainOpen(project.Dir)
	if err != nil {
		t.Fatalf("opening repository: %v", err)
	}
	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		t.Fatal(err)
	}
	if head.Target() != plumbing.NewBranchReferenceName(DefaultBranch) {
		t.Errorf("HEAD -> %s, want %s", head.Target(), DefaultBranch)
	}
}

func TestInitRepositoryInsideExisting(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	if _, err := git.PlainInit(outer, false); err != nil {
		t.Fatal(err)
	}
	project, err := Create(afero.NewOsFs(), Options{CrateName: "nested", ParentDir: outer})
	if err != nil {
		t.Fatal(err)
	}

	created, err := InitRepository(project.Dir)
	if err != nil {
		t.Fatalf("InitRepository() error: %v", err)
	}
	if created {
		t.Error("repository created inside an existing work tree")
	}
	if ok, _ := afero.DirExists(afero.NewOsFs(), filepath.Join(project.Dir, ".git")); ok {
		t.Error(".git directory written")
	}
}
