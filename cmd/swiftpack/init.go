// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swiftpack/swiftpack/internal/cargo"
	"github.com/swiftpack/swiftpack/internal/scaffold"
)

type initOptions struct {
	udl     bool
	libType string
	vcs     string
	plain   bool
	yes     bool
}

// newInitCommand creates the `swiftpack init` command.
func newInitCommand(app *App) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init <crate-name>",
		Short: "Create a new Rust crate ready for packaging",
		Long: `Create a new Rust library crate set up for UniFFI.

The crate is created in a new directory named after it. By default the
interface is declared with proc-macros; --udl uses an interface definition
file and a build script instead.

Examples:
  swiftpack init math-core                   Proc-macro crate with examples
  swiftpack init math-core --udl --plain     UDL crate without examples
  swiftpack init math-core --vcs none        Skip git initialization`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runInit(cmd, app, args[0], opts))
		},
	}

	cmd.Flags().BoolVar(&opts.udl, "udl", false, "declare the interface in src/lib.udl")
	cmd.Flags().StringVar(&opts.libType, "lib-type", string(cargo.Static), "library type to build (static, dynamic)")
	cmd.Flags().StringVar(&opts.vcs, "vcs", string(scaffold.VcsGit), "version control to initialize (git, none)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "omit the example functions")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "do not prompt; use defaults for unset options")

	return cmd
}

func runInit(cmd *cobra.Command, app *App, crateName string, opts initOptions) error {
	ctx := cmd.Context()

	vcs, err := scaffold.ParseVcs(opts.vcs)
	if err != nil {
		return err
	}

	libType, err := cargo.ParseLibType(opts.libType)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("lib-type") && app.canPrompt(opts.yes) {
		if libType, err = promptLibType(ctx); err != nil {
			return err
		}
	}

	parent, err := app.projectDir()
	if err != nil {
		return err
	}

	project, err := scaffold.Create(app.Fs, scaffold.Options{
		CrateName: crateName,
		ParentDir: parent,
		LibType:   libType,
		UDL:       opts.udl,
		Plain:     opts.plain,
	})
	if err != nil {
		return err
	}
	for _, f := range project.Files {
		app.logger.Debug("created", "file", f)
	}

	if vcs == scaffold.VcsGit {
		created, err := scaffold.InitRepository(project.Dir)
		if err != nil {
			return err
		}
		if !created {
			app.logger.Info("already inside a git repository, skipping git init")
		}
	}

	if !app.flags.silent {
		fmt.Fprintf(app.stdout, "%s Created crate %s in %s\n",
			SuccessStyle.Render("✓"), TitleStyle.Render(crateName), CmdStyle.Render(project.Dir))
		fmt.Fprintf(app.stdout, "%s\n", SubtitleStyle.Render("Next: cd "+crateName+" && swiftpack package"))
	}
	return nil
}
