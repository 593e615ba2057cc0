// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swiftpack/swiftpack/internal/cargo"
	"github.com/swiftpack/swiftpack/internal/pipeline"
	"github.com/swiftpack/swiftpack/internal/resolve"
	"github.com/swiftpack/swiftpack/pkg/naming"
	"github.com/swiftpack/swiftpack/pkg/platform"
)

type packageOptions struct {
	platforms       []string
	name            string
	xcframeworkName string
	disableWarnings bool
	release         bool
	libType         string
	swiftBuild      bool
	yes             bool
}

// newPackageCommand creates the `swiftpack package` command.
func newPackageCommand(app *App) *cobra.Command {
	var opts packageOptions

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Build the crate and write a Swift package",
		Long: `Build the crate for the selected platforms and write a Swift package.

The crate is compiled for every target of every platform, multi-architecture
targets are merged with lipo, Swift bindings are generated with uniffi-bindgen
and the libraries are bundled into an XCFramework. The package is written to
a directory named after it inside the crate and its layout is validated.

Without -p, the platforms from the config file are used; when none are
configured you are asked, or the manifest's default platforms (iOS and
macOS) are built with -y.

Examples:
  swiftpack package -p ios -p macos              Debug build for iOS and macOS
  swiftpack package -p ios --release -n MathKit  Release build named MathKit
  swiftpack package --swift-build                Also run swift build on the result`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runPackage(cmd, app, opts))
		},
	}

	cmd.Flags().StringSliceVarP(&opts.platforms, "platform", "p", nil, "platform to build (macos, ios, tvos, watchos, visionos); repeatable")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Swift package name (default derived from the directory name)")
	cmd.Flags().StringVar(&opts.xcframeworkName, "xcframework-name", "", "FFI module name (deprecated: set ffi_module_name in uniffi.toml)")
	cmd.Flags().BoolVar(&opts.disableWarnings, "disable-warnings", false, "suppress compiler warnings for the generated bindings")
	cmd.Flags().BoolVar(&opts.release, "release", false, "build in release mode")
	cmd.Flags().StringVar(&opts.libType, "lib-type", "", "library type to bundle (static, dynamic)")
	cmd.Flags().BoolVar(&opts.swiftBuild, "swift-build", false, "run swift build on the finished package")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "do not prompt; use defaults for unset options")

	return cmd
}

func runPackage(cmd *cobra.Command, app *App, opts packageOptions) error {
	ctx := cmd.Context()
	settings := app.cfg.Packaging

	projectDir, err := app.projectDir()
	if err != nil {
		return err
	}

	ids, err := app.choosePlatforms(ctx, opts.platforms, settings.Platforms, opts.yes)
	if err != nil {
		return err
	}

	name := naming.PackageName(opts.name)
	if name == "" && app.canPrompt(opts.yes) {
		if name, err = promptPackageName(ctx, naming.DerivePackageName(filepath.Base(projectDir))); err != nil {
			return err
		}
	}

	libType := settings.LibType
	if opts.libType != "" {
		if libType, err = cargo.ParseLibType(opts.libType); err != nil {
			return err
		}
	}

	res, err := resolve.Resolve(ctx, resolve.Request{
		Fs:                   app.Fs,
		ProjectDir:           projectDir,
		DeprecatedModuleName: opts.xcframeworkName,
		PackageName:          string(name),
		DisableWarnings:      opts.disableWarnings || settings.DisableWarnings,
		Platforms:            ids,
		Minimums:             settings.MinimumOverrides(),
	})
	if err != nil {
		return err
	}
	app.reportWarnings(res.Warnings)

	if !platform.CurrentHostCanBuild() {
		app.logger.Warn("xcodebuild and lipo are only available on macOS; the build is likely to fail")
	}

	runner, tools, err := newToolchain(app.Runner, app.cfg.Tools)
	if err != nil {
		return err
	}

	p := pipeline.New(runner, app.Fs, app.logger)
	if app.flags.verbose {
		p.WithOutput(app.stderr)
	}

	result, err := p.Run(ctx, pipeline.Options{
		ProjectDir: projectDir,
		Config:     res.Config,
		Crate:      res.Crate,
		LibType:    libType,
		Release:    opts.release || settings.Release,
		Parallel:   settings.ParallelBuilds,
		SwiftBuild: opts.swiftBuild || settings.SwiftBuild,
		Tools:      tools,
	})
	if err != nil {
		return err
	}

	if !app.flags.silent {
		fmt.Fprintf(app.stdout, "%s Swift package %s written to %s\n",
			SuccessStyle.Render("✓"), TitleStyle.Render(string(res.Config.PackageName())), CmdStyle.Render(result.Tree.Root()))
	}
	return nil
}

// choosePlatforms returns the platforms to build: the -p flags, else the
// configured list, else a prompt. Nil leaves the choice to the manifest
// generation's default platforms.
func (a *App) choosePlatforms(ctx context.Context, flagValues []string, configured []platform.ID, yes bool) ([]platform.ID, error) {
	if len(flagValues) > 0 {
		ids := make([]platform.ID, 0, len(flagValues))
		for _, v := range flagValues {
			id, err := platform.ParseID(v)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	if len(configured) > 0 {
		return configured, nil
	}
	if a.canPrompt(yes) {
		return promptPlatforms(ctx)
	}
	return nil, nil
}
