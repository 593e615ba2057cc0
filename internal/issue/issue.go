// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	// CrateManifestNotFoundId is raised when no Cargo.toml exists in the project directory.
	CrateManifestNotFoundId Id = iota + 1
	// CrateManifestInvalidId is raised when Cargo.toml cannot be parsed.
	CrateManifestInvalidId
	// BindingConfigInvalidId is raised when uniffi.toml cannot be parsed.
	BindingConfigInvalidId
	// InvalidConfigurationId is raised when the resolved names or platforms are invalid.
	InvalidConfigurationId
	// ToolNotFoundId is raised when cargo, xcodebuild or swift is not on PATH.
	ToolNotFoundId
	// ProcessFailedId is raised when an external build step exits non-zero.
	ProcessFailedId
	// LayoutMismatchId is raised when the package directory does not match the expected layout.
	LayoutMismatchId
	// ConfigLoadFailedId is raised when the swiftpack config file cannot be loaded.
	ConfigLoadFailedId
	// ProjectExistsId is raised when init targets a directory that already exists.
	ProjectExistsId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of a catalog entry.
	MarkdownMsg string

	// HttpLink is a documentation URL shown under "See also".
	HttpLink string

	// Issue is a catalog entry: a Markdown help page for one class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	crateManifestNotFoundIssue = &Issue{
		id: CrateManifestNotFoundId,
		mdMsg: `
# No Cargo.toml found!

swiftpack reads the crate name and library name from Cargo.toml in the
current directory.

## Things you can try:
- Run swiftpack from the root of your crate
- Create a new crate ready for packaging:
~~~
$ swiftpack init my-crate
~~~`,
		extLinks: []HttpLink{"https://doc.rust-lang.org/cargo/reference/manifest.html"},
	}

	crateManifestInvalidIssue = &Issue{
		id: CrateManifestInvalidId,
		mdMsg: `
# Cargo.toml could not be parsed!

## Things you can try:
- Check the TOML syntax reported above
- Make sure the manifest has a [package] section with a name
- Validate it with cargo:
~~~
$ cargo metadata --no-deps
~~~`,
		extLinks: []HttpLink{"https://doc.rust-lang.org/cargo/reference/manifest.html"},
	}

	bindingConfigInvalidIssue = &Issue{
		id: BindingConfigInvalidId,
		mdMsg: `
# uniffi.toml could not be parsed!

The FFI module name is read from the bindings config:

~~~toml
[bindings.swift]
ffi_module_name = "MyCrateFFI"
~~~

## Things you can try:
- Fix the TOML syntax reported above
- Remove the file to fall back to the default module name`,
		extLinks: []HttpLink{"https://mozilla.github.io/uniffi-rs/latest/swift/configuration.html"},
	}

	invalidConfigurationIssue = &Issue{
		id: InvalidConfigurationId,
		mdMsg: `
# Invalid package configuration!

Package, library and FFI module names must be identifiers: a letter or
underscore followed by letters, digits and underscores, without path
separators.

## Things you can try:
- Pass a valid package name with ` + "`--name`" + `
- Rename the crate or the ` + "`[lib] name`" + ` in Cargo.toml
- Check ` + "`ffi_module_name`" + ` in uniffi.toml`,
	}

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# Required tool not found!

Packaging needs the Rust toolchain and the Xcode command line tools.

## Things you can try:
- Install Rust with rustup and add the Apple targets:
~~~
$ rustup target add aarch64-apple-ios aarch64-apple-ios-sim x86_64-apple-ios
~~~
- Install the Xcode command line tools:
~~~
$ xcode-select --install
~~~
- Point swiftpack at custom binaries in the tools section of your config`,
	}

	processFailedIssue = &Issue{
		id: ProcessFailedId,
		mdMsg: `
# A build step failed!

The command shown above exited with a non-zero status. Its output is
printed above this message.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see every command swiftpack runs
- Run the failing command yourself from the crate directory
- Make sure every requested platform target is installed with rustup`,
	}

	layoutMismatchIssue = &Issue{
		id: LayoutMismatchId,
		mdMsg: `
# Package layout does not match Package.swift!

Every subframework of the XCFramework must contain
` + "`Headers/<FFI module>/<FFI module>.h`" + ` and the generated bindings must
live in ` + "`Sources/<package>/<library>.swift`" + `. Names are case-sensitive.

## Things you can try:
- Re-run ` + "`swiftpack package`" + `; the package directory is recreated
- Check that ` + "`ffi_module_name`" + ` in uniffi.toml matches the generated header`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the CUE syntax of your config file
- Show where swiftpack looks for it:
~~~
$ swiftpack config path
~~~
- Create a default config:
~~~
$ swiftpack config init
~~~`,
	}

	projectExistsIssue = &Issue{
		id: ProjectExistsId,
		mdMsg: `
# Directory already exists!

swiftpack init never overwrites an existing directory.

## Things you can try:
- Choose another crate name
- Remove or rename the existing directory`,
	}

	issues = map[Id]*Issue{
		crateManifestNotFoundIssue.Id(): crateManifestNotFoundIssue,
		crateManifestInvalidIssue.Id():  crateManifestInvalidIssue,
		bindingConfigInvalidIssue.Id():  bindingConfigInvalidIssue,
		invalidConfigurationIssue.Id():  invalidConfigurationIssue,
		toolNotFoundIssue.Id():          toolNotFoundIssue,
		processFailedIssue.Id():         processFailedIssue,
		layoutMismatchIssue.Id():        layoutMismatchIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		projectExistsIssue.Id():         projectExistsIssue,
	}
)

// Id returns the catalog ID.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the body with a "See also" list appended when links exist.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also:\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			sb.WriteString("- <")
			sb.WriteString(string(link))
			sb.WriteString(">\n")
		}
	}
	return sb.String()
}

// Render renders the entry for the terminal with the given glamour style
// ("dark", "light", "notty", or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

// Values returns every catalog entry ordered by ID.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, v := range issues {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// RenderMarkdown renders arbitrary Markdown with the given glamour style.
// Used for reports that are built at runtime, such as layout violations.
func RenderMarkdown(md, stylePath string) (string, error) {
	return render(md, stylePath)
}
