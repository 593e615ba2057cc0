// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"

	"github.com/swiftpack/swiftpack/internal/issue"
	"github.com/swiftpack/swiftpack/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "swiftpack"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. SWIFTPACK_PACKAGING_RELEASE.
	EnvPrefix = "SWIFTPACK"

	// maxFileSize bounds config files read into memory.
	maxFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the swiftpack configuration directory using platform-specific
// conventions: macOS uses ~/Library/Application Support, Windows uses %APPDATA%,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case platform.HostWindows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.HostDarwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", issue.WrapWithOperation(err, "locate home directory")
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", issue.WrapWithOperation(err, "locate home directory")
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigPath returns the path of the config file in dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the config and the file it was read from
// ("" when only defaults and the environment apply).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := findConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'swiftpack config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", issue.WrapWithContext(err, "parse configuration", resolvedPath)
	}
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Fix the values reported above or remove them to use the defaults").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// findConfigFile returns the config file to load. An explicit file must
// exist; otherwise the config directory is searched first and then the base
// directory. No file at all is not an error.
func findConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'swiftpack config init' to create a default config file").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if path := ConfigPath(cfgDir); fileExists(path) {
		return path, nil
	}
	if path := ConfigPath(opts.BaseDir); fileExists(path) {
		return path, nil
	}
	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("packaging.platforms", defaults.Packaging.Platforms)
	v.SetDefault("packaging.lib_type", defaults.Packaging.LibType)
	v.SetDefault("packaging.release", defaults.Packaging.Release)
	v.SetDefault("packaging.disable_warnings", defaults.Packaging.DisableWarnings)
	v.SetDefault("packaging.swift_build", defaults.Packaging.SwiftBuild)
	v.SetDefault("packaging.parallel_builds", defaults.Packaging.ParallelBuilds)
	v.SetDefault("tools.cargo", defaults.Tools.Cargo)
	v.SetDefault("tools.xcodebuild", defaults.Tools.Xcodebuild)
	v.SetDefault("tools.lipo", defaults.Tools.Lipo)
	v.SetDefault("tools.swift", defaults.Tools.Swift)
	v.SetDefault("tools.bindgen", defaults.Tools.Bindgen)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.silent", defaults.UI.Silent)
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxFileSize)
	}

	configMap, err := decodeCUE(data, path)
	if err != nil {
		return err
	}

	// Merging keeps defaults for every key the file leaves out.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// decodeCUE unifies data with #Config and decodes it into a map for Viper.
func decodeCUE(data []byte, path string) (map[string]any, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, formatCUEError(err, path)
	}
	return configMap, nil
}

// formatCUEError flattens CUE errors into one "path: message" line each.
func formatCUEError(err error, filePath string) error {
	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(cueErrs))
	for _, e := range cueErrs {
		msg := e.Error()
		if path := strings.Join(cueerrors.Path(e), "."); path != "" && !strings.HasPrefix(msg, path) {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}
	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config file into dir unless one
// exists. It returns the file path and whether it was written.
func CreateDefaultConfig(dir string) (string, bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, issue.WrapWithContext(err, "create config directory", dir)
	}

	cfgPath := ConfigPath(dir)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, issue.WrapWithContext(err, "write config file", cfgPath)
	}
	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// swiftpack configuration file\n")
	sb.WriteString("// Command line flags take precedence over these values.\n\n")

	sb.WriteString("packaging: {\n")
	if len(cfg.Packaging.Platforms) > 0 {
		quoted := make([]string, len(cfg.Packaging.Platforms))
		for i, id := range cfg.Packaging.Platforms {
			quoted[i] = fmt.Sprintf("%q", id)
		}
		fmt.Fprintf(&sb, "\tplatforms: [%s]\n", strings.Join(quoted, ", "))
	}
	if overrides := cfg.Packaging.MinimumOverrides(); len(overrides) > 0 {
		entries := make([]string, len(overrides))
		for i, m := range overrides {
			entries[i] = fmt.Sprintf("%s: %q", m.Platform, m.Version)
		}
		fmt.Fprintf(&sb, "\tminimums: {%s}\n", strings.Join(entries, ", "))
	}
	fmt.Fprintf(&sb, "\tlib_type: %q\n", cfg.Packaging.LibType)
	fmt.Fprintf(&sb, "\trelease: %v\n", cfg.Packaging.Release)
	fmt.Fprintf(&sb, "\tdisable_warnings: %v\n", cfg.Packaging.DisableWarnings)
	fmt.Fprintf(&sb, "\tswift_build: %v\n", cfg.Packaging.SwiftBuild)
	fmt.Fprintf(&sb, "\tparallel_builds: %d\n", cfg.Packaging.ParallelBuilds)
	sb.WriteString("}\n")

	sb.WriteString("\ntools: {\n")
	fmt.Fprintf(&sb, "\tcargo: %q\n", cfg.Tools.Cargo)
	fmt.Fprintf(&sb, "\txcodebuild: %q\n", cfg.Tools.Xcodebuild)
	fmt.Fprintf(&sb, "\tlipo: %q\n", cfg.Tools.Lipo)
	fmt.Fprintf(&sb, "\tswift: %q\n", cfg.Tools.Swift)
	bindgen := make([]string, len(cfg.Tools.Bindgen))
	for i, arg := range cfg.Tools.Bindgen {
		bindgen[i] = fmt.Sprintf("%q", arg)
	}
	fmt.Fprintf(&sb, "\tbindgen: [%s]\n", strings.Join(bindgen, ", "))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tsilent: %v\n", cfg.UI.Silent)
	sb.WriteString("}\n")

	return sb.String()
}
