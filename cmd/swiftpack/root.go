// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// skipConfigAnnotation marks commands that must work without a loadable config file.
const skipConfigAnnotation = "swiftpack/skip-config"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swiftpack",
		Short: "Package Rust crates as Swift packages",
		Long: TitleStyle.Render("swiftpack") + SubtitleStyle.Render(" - Package Rust crates as Swift packages") + `

swiftpack builds a Rust crate for Apple platforms, generates Swift bindings
with UniFFI, bundles the libraries into an XCFramework and writes a Swift
package around it.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a crate with: swiftpack init my-crate
  2. Change into it and run: swiftpack package -p ios -p macos
  3. Add the generated package directory to your Xcode project

` + SubtitleStyle.Render("Examples:") + `
  swiftpack package -p ios          Build an iOS package
  swiftpack manifest --schema v2    Print the manifest for an older layout
  swiftpack validate                Check an existing package directory
  swiftpack config show             Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, skip := cmd.Annotations[skipConfigAnnotation]; skip {
				app.logger = newLogger(app.stderr, app.flags.verbose, app.flags.silent)
				return nil
			}
			flags := cmd.Flags()
			if err := app.setup(cmd.Context(), flags.Changed("verbose"), flags.Changed("silent")); err != nil {
				return app.fail(err)
			}
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output and print every command line")
	flags.BoolVar(&app.flags.silent, "silent", false, "only print errors")
	flags.StringVar(&app.flags.configFile, "config", "", "config file (default is $HOME/.config/swiftpack/config.cue)")
	flags.StringVarP(&app.flags.projectDir, "project-dir", "C", ".", "crate directory to work in")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "silent")

	rootCmd.AddCommand(newInitCommand(app))
	rootCmd.AddCommand(newPackageCommand(app))
	rootCmd.AddCommand(newManifestCommand(app))
	rootCmd.AddCommand(newValidateCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// Execute runs the CLI and exits with the propagated exit code on failure.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
