// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/swiftpack/swiftpack/pkg/swiftpkg"
)

const (
	// ReasonMissing means no entry with the expected name exists, in any case.
	ReasonMissing Reason = "missing"
	// ReasonWrongCase means an entry exists whose name differs only in case.
	ReasonWrongCase Reason = "wrong-case"
	// ReasonUnexpectedType means the entry is a file where a directory is expected, or vice versa.
	ReasonUnexpectedType Reason = "unexpected-type"
)

// ErrLayoutMismatch is the sentinel error wrapped by MismatchError.
var ErrLayoutMismatch = errors.New("package layout mismatch")

type (
	// Reason classifies a Violation.
	Reason string

	// Violation is one required path that does not match the package layout.
	Violation struct {
		// Path is the expected path, rooted at the validated root.
		Path string
		// Reason is the violation class.
		Reason Reason
		// Detail is a human-readable explanation (e.g., the name actually found).
		Detail string
	}

	// MismatchError reports every violation found under one package root.
	MismatchError struct {
		Root       string
		Violations []Violation
	}

	nodeKind int
)

const (
	fileNode nodeKind = iota
	dirNode
)

// String renders the violation as "<path>: <reason> (<detail>)".
func (v Violation) String() string {
	if v.Detail == "" {
		return fmt.Sprintf("%s: %s", v.Path, v.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", v.Path, v.Reason, v.Detail)
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "package layout mismatch at %s: %d violation(s)", e.Root, len(e.Violations))
	for _, v := range e.Violations {
		sb.WriteString("\n  - ")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// Unwrap returns ErrLayoutMismatch for errors.Is() compatibility.
func (e *MismatchError) Unwrap() error { return ErrLayoutMismatch }

// Markdown renders the violations as a Markdown table.
func (e *MismatchError) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Layout violations in `%s`\n\n", e.Root)
	sb.WriteString("| Path | Reason | Detail |\n|---|---|---|\n")
	for _, v := range e.Violations {
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", v.Path, v.Reason, v.Detail)
	}
	return sb.String()
}

// Check validates the configuration and the package directory. It returns a
// *swiftpkg.ConfigError for an invalid configuration, a *MismatchError when
// the layout has violations, and nil otherwise.
func Check(fsys afero.Fs, root string, cfg *swiftpkg.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if violations := Validate(fsys, root, cfg); len(violations) > 0 {
		return &MismatchError{Root: root, Violations: violations}
	}
	return nil
}

// Validate walks the package layout under root top-down and returns every
// violation; an empty result means the package is well formed. Names are
// matched exactly by listing the parent directory, so case differences are
// reported even on case-insensitive filesystems. Nodes below a failed node are
// not checked, which keeps a single defect from producing follow-on violations.
// cfg must be valid (see Check).
func Validate(fsys afero.Fs, root string, cfg *swiftpkg.Configuration) []Violation {
	tree := NewTree(root, cfg)
	v := &validator{fsys: fsys}

	info, err := fsys.Stat(root)
	switch {
	case err != nil:
		v.add(root, ReasonMissing, "package root does not exist")
		return v.violations
	case !info.IsDir():
		v.add(root, ReasonUnexpectedType, "package root is not a directory")
		return v.violations
	}

	v.check(tree.Manifest(), fileNode)

	if v.check(tree.XCFramework(), dirNode) {
		v.checkSubframeworks(tree)
	}

	if v.check(tree.SourcesRoot(), dirNode) && v.check(tree.SourcesDir(), dirNode) {
		v.check(tree.BindingSource(), fileNode)
	}

	return v.violations
}

type validator struct {
	fsys       afero.Fs
	violations []Violation
}

func (v *validator) add(path string, reason Reason, detail string) {
	v.violations = append(v.violations, Violation{Path: path, Reason: reason, Detail: detail})
}

func (v *validator) checkSubframeworks(tree Tree) {
	entries, err := afero.ReadDir(v.fsys, tree.XCFramework())
	if err != nil {
		v.add(tree.XCFramework(), ReasonMissing, fmt.Sprintf("cannot list bundle: %v", err))
		return
	}

	found := 0
	for _, entry := range entries {
		if !entry.IsDir() || !IsSubframeworkEntry(entry.Name()) {
			continue
		}
		found++
		sub := entry.Name()
		if v.check(tree.HeadersRoot(sub), dirNode) && v.check(tree.HeadersDir(sub), dirNode) {
			v.check(tree.Header(sub), fileNode)
		}
	}

	if found == 0 {
		v.add(filepath.Join(tree.XCFramework(), "*"), ReasonMissing, "bundle contains no subframework directories")
	}
}

// check verifies that path exists with its exact name and kind, records a
// violation otherwise, and reports whether the node is usable.
func (v *validator) check(path string, kind nodeKind) bool {
	parent, name := filepath.Dir(path), filepath.Base(path)
	entries, err := afero.ReadDir(v.fsys, parent)
	if err != nil {
		v.add(path, ReasonMissing, "")
		return false
	}

	var folded os.FileInfo
	for _, entry := range entries {
		if entry.Name() == name {
			return v.checkKind(path, entry, kind)
		}
		if folded == nil && strings.EqualFold(entry.Name(), name) {
			folded = entry
		}
	}

	if folded != nil {
		v.add(path, ReasonWrongCase, fmt.Sprintf("found %q", folded.Name()))
		return false
	}
	v.add(path, ReasonMissing, "")
	return false
}

func (v *validator) checkKind(path string, info os.FileInfo, kind nodeKind) bool {
	switch {
	case kind == dirNode && !info.IsDir():
		v.add(path, ReasonUnexpectedType, "expected a directory, found a file")
		return false
	case kind == fileNode && info.IsDir():
		v.add(path, ReasonUnexpectedType, "expected a file, found a directory")
		return false
	default:
		return true
	}
}
