// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/swiftpack/swiftpack/internal/resolve"
	"github.com/swiftpack/swiftpack/pkg/layout"
)

type validateOptions struct {
	name        string
	toolVersion string
}

// newValidateCommand creates the `swiftpack validate` command.
// Without arguments it checks the package directory inside the project;
// a path argument checks that directory instead.
func newValidateCommand(app *App) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate [package-dir]",
		Short: "Check the layout of a generated Swift package",
		Long: `Check that a package directory matches the layout swiftpack produces.

Names are resolved from the current crate (Cargo.toml and uniffi.toml), so
the command runs from the crate root. Every violation is reported: missing
files, names that differ only in case, and files where directories belong.

Examples:
  swiftpack validate                     Check ./<PackageName>
  swiftpack validate ../ios/MathKit      Check another directory
  swiftpack validate --tool-version 0.3  Check a package from an older release`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runValidate(cmd, app, args, opts))
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Swift package name (default derived from the directory name)")
	cmd.Flags().StringVar(&opts.toolVersion, "tool-version", "", "release the package was created with")

	return cmd
}

func runValidate(cmd *cobra.Command, app *App, args []string, opts validateOptions) error {
	projectDir, err := app.projectDir()
	if err != nil {
		return err
	}

	res, err := resolve.Resolve(cmd.Context(), resolve.Request{
		Fs:          app.Fs,
		ProjectDir:  projectDir,
		PackageName: opts.name,
		Minimums:    app.cfg.Packaging.MinimumOverrides(),
		ToolVersion: opts.toolVersion,
	})
	if err != nil {
		return err
	}
	app.reportWarnings(res.Warnings)

	root := filepath.Join(projectDir, string(res.Config.PackageName()))
	if len(args) == 1 {
		if root, err = filepath.Abs(args[0]); err != nil {
			return err
		}
	}

	if err := layout.Check(app.Fs, root, res.Config); err != nil {
		return err
	}

	if !app.flags.silent {
		fmt.Fprintf(app.stdout, "%s %s matches the expected layout\n", SuccessStyle.Render("✓"), CmdStyle.Render(root))
	}
	return nil
}
