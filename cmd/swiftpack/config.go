// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swiftpack/swiftpack/internal/config"
)

// newConfigCommand creates the `swiftpack config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage swiftpack configuration",
		Long: `Manage swiftpack configuration.

Configuration is stored in:
  - Linux: ~/.config/swiftpack/config.cue
  - macOS: ~/Library/Application Support/swiftpack/config.cue
  - Windows: %APPDATA%\swiftpack\config.cue

A config.cue in the crate directory is used when the user file does not exist.
Any value can be overridden with SWIFTPACK_* environment variables, for
example SWIFTPACK_PACKAGING_RELEASE=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(showConfig(app))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "init",
		Short:       "Create default configuration file",
		Annotations: map[string]string{skipConfigAnnotation: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(initConfig(app))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Show configuration file path",
		Annotations: map[string]string{skipConfigAnnotation: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(showConfigPath(app))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
			return err
		},
	})

	return cfgCmd
}

func showConfig(app *App) error {
	cfg := app.cfg
	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, err := app.Config.Path(app.loadOptions())
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(w)

	platforms := make([]string, len(cfg.Packaging.Platforms))
	for i, id := range cfg.Packaging.Platforms {
		platforms[i] = id.String()
	}
	platformList := strings.Join(platforms, ", ")
	if platformList == "" {
		platformList = "(prompt, or ios, macos)"
	}

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("packaging"))
	fmt.Fprintf(w, "  platforms: %s\n", valueStyle.Render(platformList))
	minimums := make([]string, 0, len(cfg.Packaging.Minimums))
	for _, m := range cfg.Packaging.MinimumOverrides() {
		minimums = append(minimums, fmt.Sprintf("%s %s", m.Platform, m.Version))
	}
	minimumList := strings.Join(minimums, ", ")
	if minimumList == "" {
		minimumList = "(manifest defaults)"
	}
	fmt.Fprintf(w, "  minimums: %s\n", valueStyle.Render(minimumList))
	fmt.Fprintf(w, "  lib_type: %s\n", valueStyle.Render(cfg.Packaging.LibType.String()))
	fmt.Fprintf(w, "  release: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Packaging.Release)))
	fmt.Fprintf(w, "  disable_warnings: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Packaging.DisableWarnings)))
	fmt.Fprintf(w, "  swift_build: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Packaging.SwiftBuild)))
	fmt.Fprintf(w, "  parallel_builds: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Packaging.ParallelBuilds)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("tools"))
	fmt.Fprintf(w, "  cargo: %s\n", valueStyle.Render(cfg.Tools.Cargo))
	fmt.Fprintf(w, "  xcodebuild: %s\n", valueStyle.Render(cfg.Tools.Xcodebuild))
	fmt.Fprintf(w, "  lipo: %s\n", valueStyle.Render(cfg.Tools.Lipo))
	fmt.Fprintf(w, "  swift: %s\n", valueStyle.Render(cfg.Tools.Swift))
	fmt.Fprintf(w, "  bindgen: %s\n", valueStyle.Render(strings.Join(cfg.Tools.Bindgen, " ")))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(w, "  silent: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Silent)))

	return nil
}

func initConfig(app *App) error {
	dir, err := app.userConfigDir()
	if err != nil {
		return err
	}

	path, written, err := config.CreateDefaultConfig(dir)
	if err != nil {
		return err
	}

	if written {
		fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	} else {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", SubtitleStyle.Render("•"), path)
	}
	return nil
}

func showConfigPath(app *App) error {
	dir, err := app.userConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", dir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", config.ConfigPath(dir))

	active, err := app.Config.Path(app.loadOptions())
	if err == nil && active != "" && active != config.ConfigPath(dir) {
		fmt.Fprintf(app.stdout, "Active file: %s\n", active)
	}
	return nil
}

// userConfigDir returns the config directory, honoring the test override.
func (a *App) userConfigDir() (string, error) {
	if a.configDir != "" {
		return a.configDir, nil
	}
	return config.ConfigDir()
}
