// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"path/filepath"

	"github.com/swiftpack/swiftpack/pkg/naming"
	"github.com/swiftpack/swiftpack/pkg/swiftpkg"
)

const (
	// ManifestFileName is the package manifest at the package root.
	ManifestFileName = "Package.swift"
	// SourcesDirName holds one directory per Swift target.
	SourcesDirName = "Sources"
	// HeadersDirName is the header directory inside every subframework.
	HeadersDirName = "Headers"
	// InfoPlistName is the XCFramework metadata file, which is not a subframework.
	InfoPlistName = "Info.plist"

	xcframeworkExt = ".xcframework"
	headerExt      = ".h"
	swiftExt       = ".swift"
)

// Tree builds every path of a package directory from a Configuration. All
// code that reads or writes package artifacts goes through it.
type Tree struct {
	root            string
	packageName     naming.PackageName
	libFileBaseName naming.LibFileBaseName
	ffiModuleName   naming.FFIModuleName
}

// NewTree returns the path builder for the package rooted at root.
func NewTree(root string, cfg *swiftpkg.Configuration) Tree {
	return Tree{
		root:            root,
		packageName:     cfg.PackageName(),
		libFileBaseName: cfg.LibFileBaseName(),
		ffiModuleName:   cfg.FFIModuleName(),
	}
}

// XCFrameworkDirName returns the bundle directory name for an FFI module,
// e.g. "CustomFFI.xcframework".
func XCFrameworkDirName(ffi naming.FFIModuleName) string {
	return string(ffi) + xcframeworkExt
}

// HeaderFileName returns the umbrella header name for an FFI module.
func HeaderFileName(ffi naming.FFIModuleName) string {
	return string(ffi) + headerExt
}

// Root returns the package root.
func (t Tree) Root() string { return t.root }

// FFIModuleName returns the module name the bundle and headers are named after.
func (t Tree) FFIModuleName() naming.FFIModuleName { return t.ffiModuleName }

// Manifest returns <root>/Package.swift.
func (t Tree) Manifest() string {
	return filepath.Join(t.root, ManifestFileName)
}

// XCFramework returns <root>/<ffi>.xcframework.
func (t Tree) XCFramework() string {
	return filepath.Join(t.root, XCFrameworkDirName(t.ffiModuleName))
}

// XCFrameworkRelPath returns the bundle path relative to the root, as
// referenced from the manifest ("./<ffi>.xcframework").
func (t Tree) XCFrameworkRelPath() string {
	return "./" + XCFrameworkDirName(t.ffiModuleName)
}

// Subframework returns <root>/<ffi>.xcframework/<name>.
func (t Tree) Subframework(name string) string {
	return filepath.Join(t.XCFramework(), name)
}

// HeadersRoot returns <subframework>/Headers.
func (t Tree) HeadersRoot(subframework string) string {
	return filepath.Join(t.Subframework(subframework), HeadersDirName)
}

// HeadersDir returns <subframework>/Headers/<ffi>.
func (t Tree) HeadersDir(subframework string) string {
	return filepath.Join(t.HeadersRoot(subframework), string(t.ffiModuleName))
}

// Header returns <subframework>/Headers/<ffi>/<ffi>.h.
func (t Tree) Header(subframework string) string {
	return filepath.Join(t.HeadersDir(subframework), HeaderFileName(t.ffiModuleName))
}

// SourcesRoot returns <root>/Sources.
func (t Tree) SourcesRoot() string {
	return filepath.Join(t.root, SourcesDirName)
}

// SourcesDir returns <root>/Sources/<package>.
func (t Tree) SourcesDir() string {
	return filepath.Join(t.SourcesRoot(), string(t.packageName))
}

// BindingSource returns <root>/Sources/<package>/<lib>.swift.
func (t Tree) BindingSource() string {
	return filepath.Join(t.SourcesDir(), string(t.libFileBaseName)+swiftExt)
}

// IsSubframeworkEntry reports whether a directory entry name inside an
// XCFramework can be a subframework. Dotfiles and Info.plist are bundle metadata.
func IsSubframeworkEntry(name string) bool {
	return name != "" && name[0] != '.' && name != InfoPlistName
}
