// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swiftpack/swiftpack/internal/resolve"
	"github.com/swiftpack/swiftpack/pkg/manifest"
	"github.com/swiftpack/swiftpack/pkg/swiftpkg"
)

type manifestOptions struct {
	schema          string
	toolVersion     string
	name            string
	disableWarnings bool
	platforms       []string
}

// newManifestCommand creates the `swiftpack manifest` command.
func newManifestCommand(app *App) *cobra.Command {
	var opts manifestOptions

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the Package.swift for the current crate",
		Long: `Print the Package.swift that swiftpack package would write, without building.

The manifest generation follows the current release unless --schema or
--tool-version selects the layout of a package created by an older release.

Examples:
  swiftpack manifest -p ios -p macos           Current manifest for iOS and macOS
  swiftpack manifest --tool-version 0.3.2      Manifest as written by release 0.3.2
  swiftpack manifest --schema v2 > Package.swift`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runManifest(cmd, app, opts))
		},
	}

	cmd.Flags().StringVar(&opts.schema, "schema", "", "manifest generation (v1, v2, v3)")
	cmd.Flags().StringVar(&opts.toolVersion, "tool-version", "", "release the package was created with, e.g. 0.5.1")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Swift package name (default derived from the directory name)")
	cmd.Flags().BoolVar(&opts.disableWarnings, "disable-warnings", false, "suppress compiler warnings for the generated bindings")
	cmd.Flags().StringSliceVarP(&opts.platforms, "platform", "p", nil, "platform to include (macos, ios, tvos, watchos, visionos); repeatable")
	cmd.MarkFlagsMutuallyExclusive("schema", "tool-version")

	return cmd
}

func runManifest(cmd *cobra.Command, app *App, opts manifestOptions) error {
	var schema swiftpkg.SchemaVersion
	if opts.schema != "" {
		v, err := swiftpkg.ParseSchemaVersion(opts.schema)
		if err != nil {
			return err
		}
		schema = v
	}

	projectDir, err := app.projectDir()
	if err != nil {
		return err
	}

	ids, err := app.choosePlatforms(cmd.Context(), opts.platforms, app.cfg.Packaging.Platforms, true)
	if err != nil {
		return err
	}

	res, err := resolve.Resolve(cmd.Context(), resolve.Request{
		Fs:              app.Fs,
		ProjectDir:      projectDir,
		PackageName:     opts.name,
		DisableWarnings: opts.disableWarnings || app.cfg.Packaging.DisableWarnings,
		Platforms:       ids,
		Minimums:        app.cfg.Packaging.MinimumOverrides(),
		ToolVersion:     opts.toolVersion,
		SchemaVersion:   schema,
	})
	if err != nil {
		return err
	}
	app.reportWarnings(res.Warnings)

	text, err := manifest.Render(res.Config)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(app.stdout, text)
	return err
}
