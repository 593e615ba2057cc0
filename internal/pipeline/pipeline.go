// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/swiftpack/swiftpack/internal/cargo"
	"github.com/swiftpack/swiftpack/internal/process"
	"github.com/swiftpack/swiftpack/internal/uniffi"
	"github.com/swiftpack/swiftpack/internal/xcframework"
	"github.com/swiftpack/swiftpack/pkg/layout"
	"github.com/swiftpack/swiftpack/pkg/manifest"
	"github.com/swiftpack/swiftpack/pkg/platform"
	"github.com/swiftpack/swiftpack/pkg/swiftpkg"
)

const (
	// StageBuild compiles the crate for every target triple.
	StageBuild Stage = "build"
	// StageMerge merges multi-architecture targets with lipo.
	StageMerge Stage = "merge"
	// StageBindings generates the Swift bindings and C header.
	StageBindings Stage = "bindings"
	// StageBundle assembles and patches the XCFramework.
	StageBundle Stage = "bundle"
	// StageRender writes Package.swift and the Swift sources.
	StageRender Stage = "render"
	// StageValidate checks the package layout.
	StageValidate Stage = "validate"
	// StageSwiftBuild builds the finished package with swift build.
	StageSwiftBuild Stage = "swift-build"
)

var (
	// ErrUnsupportedLibType is returned when Cargo.toml does not declare the
	// crate-type needed for the requested library type.
	ErrUnsupportedLibType = errors.New("crate does not build the requested library type")
	// ErrNoPlatforms is returned when the configuration selects no platform.
	ErrNoPlatforms = errors.New("no platform selected")
	// ErrNoBindgen is returned when no uniffi-bindgen command is configured.
	ErrNoBindgen = errors.New("no uniffi-bindgen command configured")
	// ErrNoCrate is returned when Options carries no parsed Cargo.toml.
	ErrNoCrate = errors.New("crate manifest not loaded")
)

type (
	// Stage names one step of the pipeline.
	Stage string

	// Tools names the external programs the pipeline runs.
	Tools struct {
		Cargo      string
		Xcodebuild string
		Lipo       string
		Swift      string
		// Bindgen is the uniffi-bindgen command line; generate arguments are appended.
		Bindgen []string
	}

	// Options describes one packaging run.
	Options struct {
		// ProjectDir is the crate root. The package is written to <ProjectDir>/<PackageName>.
		ProjectDir string
		// Config is the resolved configuration that is rendered and validated.
		Config *swiftpkg.Configuration
		// Crate is the parsed Cargo.toml.
		Crate   *cargo.Manifest
		LibType cargo.LibType
		Release bool
		// Parallel caps concurrent cargo builds; 0 means no limit.
		Parallel int
		// SwiftBuild runs "swift build" on the finished package.
		SwiftBuild bool
		Tools      Tools
	}

	// Result describes the written package.
	Result struct {
		Tree     layout.Tree
		Manifest string
		// Libraries are the per-slice libraries bundled into the XCFramework.
		Libraries []string
	}

	stageFunc struct {
		stage Stage
		run   func(context.Context) error
	}

	// StageError reports the stage a failure happened in.
	StageError struct {
		Stage Stage
		Err   error
	}

	// Pipeline runs the packaging stages in order. External programs go
	// through the runner and file work goes through the filesystem, so both can
	// be replaced in tests.
	Pipeline struct {
		runner process.Runner
		fs     afero.Fs
		logger *log.Logger
		// output receives the output of external programs as they run; nil discards it.
		output io.Writer
	}
)

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error { return e.Err }

// New creates a pipeline. A nil logger discards log output.
func New(runner process.Runner, fsys afero.Fs, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{runner: runner, fs: fsys, logger: logger}
}

// WithOutput streams the output of external programs to w.
func (p *Pipeline) WithOutput(w io.Writer) *Pipeline {
	p.output = w
	return p
}

// Run packages the crate. Stages run strictly in order and the first failure
// stops the run; artifacts written so far stay on disk. Running again
// replaces the previous package directory.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	libType := opts.LibType
	if libType == "" {
		libType = cargo.Static
	}
	if len(cfg.Platforms()) == 0 {
		return nil, swiftpkg.NewConfigError("", ErrNoPlatforms)
	}
	if len(opts.Tools.Bindgen) == 0 {
		return nil, swiftpkg.NewConfigError("", ErrNoBindgen)
	}
	if opts.Crate == nil {
		return nil, swiftpkg.NewConfigError(filepath.Join(opts.ProjectDir, cargo.ManifestFileName), ErrNoCrate)
	}
	if !opts.Crate.SupportsLibType(libType) {
		return nil, swiftpkg.NewConfigError(filepath.Join(opts.ProjectDir, cargo.ManifestFileName),
			fmt.Errorf("%w: add %q to [lib] crate-type", ErrUnsupportedLibType, libType.CrateType()))
	}

	b := &build{
		Pipeline:  p,
		opts:      opts,
		libType:   libType,
		mode:      cargo.ModeFor(opts.Release),
		libName:   opts.Crate.LibName(),
		targetDir: filepath.Join(opts.ProjectDir, cargo.TargetDirName),
		targets:   platform.TargetsFor(cfg.Platforms()),
		tree:      layout.NewTree(filepath.Join(opts.ProjectDir, string(cfg.PackageName())), cfg),
	}

	stages := []stageFunc{
		{StageBuild, b.compile},
		{StageMerge, b.merge},
		{StageBindings, b.bindings},
		{StageBundle, b.bundle},
		{StageRender, b.render},
		{StageValidate, b.validate},
	}
	if opts.SwiftBuild {
		stages = append(stages, stageFunc{StageSwiftBuild, b.swiftBuild})
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.logger.Debug("stage started", "stage", s.stage)
		if err := s.run(ctx); err != nil {
			return nil, &StageError{Stage: s.stage, Err: err}
		}
	}

	p.logger.Info("package ready", "path", b.tree.Root())
	return &Result{Tree: b.tree, Manifest: b.manifest, Libraries: b.libraries()}, nil
}

// exec runs one external program and logs its command line.
func (p *Pipeline) exec(ctx context.Context, dir, name string, args ...string) error {
	cmd := process.Command{Name: name, Args: args, Dir: dir, Stdout: p.output, Stderr: p.output}
	p.logger.Debug("running", "cmd", cmd.String())
	_, err := p.runner.Run(ctx, cmd)
	return err
}

// build carries the values shared by the stages of one run.
type build struct {
	*Pipeline
	opts      Options
	libType   cargo.LibType
	mode      cargo.Mode
	libName   string
	targetDir string
	targets   []platform.Target
	tree      layout.Tree
	generated *uniffi.Generated
	manifest  string
}

// compile builds every triple of every target. Legs run concurrently and
// the stage only returns once all of them have finished.
func (b *build) compile(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if b.opts.Parallel > 0 {
		g.SetLimit(b.opts.Parallel)
	}

	seen := make(map[string]bool)
	for _, t := range b.targets {
		for _, triple := range t.Triples {
			if seen[triple] {
				continue
			}
			seen[triple] = true
			nightly := t.NightlyOnly
			b.logger.Info("building", "target", triple, "platform", t.DisplayName)
			g.Go(func() error {
				return b.exec(ctx, b.opts.ProjectDir, b.opts.Tools.Cargo, cargo.BuildArgs(triple, b.mode, nightly)...)
			})
		}
	}
	return g.Wait()
}

// merge creates one universal library per multi-architecture target.
func (b *build) merge(ctx context.Context) error {
	for _, t := range b.targets {
		if !t.IsUniversal() {
			continue
		}
		out := cargo.LibraryPath(b.targetDir, t, b.libName, b.mode, b.libType)
		if err := b.fs.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(out), err)
		}

		args := []string{"-create"}
		for _, triple := range t.Triples {
			args = append(args, cargo.TripleLibraryPath(b.targetDir, triple, b.libName, b.mode, b.libType))
		}
		args = append(args, "-output", out)

		b.logger.Info("merging", "platform", t.DisplayName, "output", t.UniversalName)
		if err := b.exec(ctx, b.opts.ProjectDir, b.opts.Tools.Lipo, args...); err != nil {
			return err
		}
	}
	return nil
}

// bindings regenerates the Swift bindings from the first built library.
func (b *build) bindings(ctx context.Context) error {
	outDir := filepath.Join(b.opts.ProjectDir, uniffi.GeneratedDirName)
	if err := b.fs.RemoveAll(outDir); err != nil {
		return fmt.Errorf("removing old bindings: %w", err)
	}
	if err := b.fs.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	lib := b.libraries()[0]
	bindgen := b.opts.Tools.Bindgen
	args := append(append([]string{}, bindgen[1:]...), uniffi.BindgenArgs(lib, outDir)...)
	b.logger.Info("generating bindings", "library", filepath.Base(lib))
	if err := b.exec(ctx, b.opts.ProjectDir, bindgen[0], args...); err != nil {
		return err
	}

	generated, err := uniffi.Arrange(b.fs, outDir)
	if err != nil {
		return err
	}
	b.generated = generated
	return nil
}

// bundle recreates the package directory, assembles the XCFramework into it
// and installs the headers under Headers/<ffi>/.
func (b *build) bundle(ctx context.Context) error {
	if err := b.fs.RemoveAll(b.tree.Root()); err != nil {
		return fmt.Errorf("removing previous package: %w", err)
	}
	if err := b.fs.MkdirAll(b.tree.Root(), 0o755); err != nil {
		return fmt.Errorf("creating package directory: %w", err)
	}

	headers := filepath.Join(b.generated.Dir, uniffi.HeadersDirName)
	b.logger.Info("assembling", "xcframework", filepath.Base(b.tree.XCFramework()))
	args := xcframework.CreateArgs(b.libraries(), headers, b.tree.XCFramework())
	if err := b.exec(ctx, b.opts.ProjectDir, b.opts.Tools.Xcodebuild, args...); err != nil {
		return err
	}
	return xcframework.Patch(b.fs, b.tree, headers)
}

// render copies the generated Swift sources and writes Package.swift.
func (b *build) render(context.Context) error {
	if err := b.fs.MkdirAll(b.tree.SourcesDir(), 0o755); err != nil {
		return fmt.Errorf("creating sources directory: %w", err)
	}
	for _, src := range b.generated.Sources {
		data, err := afero.ReadFile(b.fs, filepath.Join(b.generated.Dir, filepath.FromSlash(src)))
		if err != nil {
			return fmt.Errorf("reading %s: %w", src, err)
		}
		dest := filepath.Join(b.tree.SourcesDir(), filepath.Base(src))
		if err := afero.WriteFile(b.fs, dest, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
	}

	text, err := manifest.Render(b.opts.Config)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(b.fs, b.tree.Manifest(), []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", layout.ManifestFileName, err)
	}
	b.manifest = text
	return nil
}

func (b *build) validate(context.Context) error {
	return layout.Check(b.fs, b.tree.Root(), b.opts.Config)
}

func (b *build) swiftBuild(ctx context.Context) error {
	b.logger.Info("building Swift package")
	return b.exec(ctx, b.tree.Root(), b.opts.Tools.Swift, "build")
}

// libraries returns the final library of every target, in target order.
func (b *build) libraries() []string {
	libs := make([]string, len(b.targets))
	for i, t := range b.targets {
		libs[i] = cargo.LibraryPath(b.targetDir, t, b.libName, b.mode, b.libType)
	}
	return libs
}
