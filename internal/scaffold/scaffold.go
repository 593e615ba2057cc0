// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/swiftpack/swiftpack/internal/cargo"
)

// UniffiVersion is the uniffi release new crates depend on.
const UniffiVersion = "0.28"

const (
	// VcsGit initializes a git repository on branch main.
	VcsGit Vcs = "git"
	// VcsNone leaves version control alone.
	VcsNone Vcs = "none"
)

var (
	//go:embed templates/*.tmpl
	templateFS embed.FS

	templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

	crateNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

	// ErrProjectExists is returned when the target directory already exists.
	ErrProjectExists = errors.New("project directory already exists")
	// ErrInvalidCrateName is the sentinel for InvalidCrateNameError.
	ErrInvalidCrateName = errors.New("invalid crate name")
	// ErrInvalidVcs is the sentinel for InvalidVcsError.
	ErrInvalidVcs = errors.New("invalid version control system")
)

type (
	// Vcs selects the version control system set up for a new crate.
	Vcs string

	// InvalidVcsError is returned for an unknown Vcs value.
	InvalidVcsError struct {
		Value Vcs
	}

	// InvalidCrateNameError is returned when a crate name is not a valid cargo package name.
	InvalidCrateNameError struct {
		Value string
	}

	// Options describes the crate to create.
	Options struct {
		// CrateName is the cargo package name and the name of the new directory.
		CrateName string
		// ParentDir is where the crate directory is created.
		ParentDir string
		LibType   cargo.LibType
		// UDL selects interface-description mode (build.rs plus src/lib.udl)
		// instead of proc-macro mode.
		UDL bool
		// Plain omits the example functions from the generated sources.
		Plain bool
	}

	// Project lists what Create wrote.
	Project struct {
		// Dir is the crate root.
		Dir string
		// Files are the written files relative to Dir, in write order.
		Files []string
	}

	templateData struct {
		CrateName     string
		Namespace     string
		CrateType     string
		UniffiVersion string
		UDL           bool
		Plain         bool
	}

	projectFile struct {
		path     string
		template string
	}
)

// Error implements the error interface.
func (e *InvalidVcsError) Error() string {
	return fmt.Sprintf("invalid vcs %q (expected git or none)", e.Value)
}

// Unwrap returns ErrInvalidVcs.
func (e *InvalidVcsError) Unwrap() error { return ErrInvalidVcs }

// Error implements the error interface.
func (e *InvalidCrateNameError) Error() string {
	return fmt.Sprintf("invalid crate name %q: must start with a letter and contain only letters, digits, '-' and '_'", e.Value)
}

// Unwrap returns ErrInvalidCrateName.
func (e *InvalidCrateNameError) Unwrap() error { return ErrInvalidCrateName }

// ParseVcs parses "git" or "none".
func ParseVcs(s string) (Vcs, error) {
	v := Vcs(strings.ToLower(s))
	if valid, errs := v.IsValid(); !valid {
		return "", errs[0]
	}
	return v, nil
}

// IsValid returns whether the Vcs is known, and a list of validation errors if not.
func (v Vcs) IsValid() (bool, []error) {
	switch v {
	case VcsGit, VcsNone:
		return true, nil
	default:
		return false, []error{&InvalidVcsError{Value: v}}
	}
}

// String returns the string representation of the Vcs.
func (v Vcs) String() string { return string(v) }

// Namespace returns the Rust identifier of a crate name.
func Namespace(crateName string) string {
	return strings.ReplaceAll(crateName, "-", "_")
}

// Create writes a new crate ready for packaging. The crate directory must not exist.
func Create(fsys afero.Fs, opts Options) (*Project, error) {
	if !crateNamePattern.MatchString(opts.CrateName) {
		return nil, &InvalidCrateNameError{Value: opts.CrateName}
	}
	libType := opts.LibType
	if libType == "" {
		libType = cargo.Static
	}
	if valid, errs := libType.IsValid(); !valid {
		return nil, errs[0]
	}

	dir := filepath.Join(opts.ParentDir, opts.CrateName)
	if _, err := fsys.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, dir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", dir, err)
	}

	data := templateData{
		CrateName:     opts.CrateName,
		Namespace:     Namespace(opts.CrateName),
		CrateType:     libType.CrateType(),
		UniffiVersion: UniffiVersion,
		UDL:           opts.UDL,
		Plain:         opts.Plain,
	}

	project := &Project{Dir: dir}
	for _, f := range projectFiles(opts.UDL) {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, f.template, data); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", f.path, err)
		}
		target := filepath.Join(dir, filepath.FromSlash(f.path))
		if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}
		if err := afero.WriteFile(fsys, target, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.path, err)
		}
		project.Files = append(project.Files, f.path)
	}
	return project, nil
}

func projectFiles(udl bool) []projectFile {
	files := []projectFile{
		{path: cargo.ManifestFileName, template: "Cargo.toml.tmpl"},
		{path: ".gitignore", template: "gitignore.tmpl"},
		{path: "src/lib.rs", template: "lib.rs.tmpl"},
		{path: "src/bin/uniffi-bindgen.rs", template: "uniffi-bindgen.rs.tmpl"},
	}
	if udl {
		files = append(files,
			projectFile{path: "build.rs", template: "build.rs.tmpl"},
			projectFile{path: "src/lib.udl", template: "lib.udl.tmpl"},
		)
	}
	return files
}
