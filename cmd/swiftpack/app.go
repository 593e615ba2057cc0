// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/swiftpack/swiftpack/internal/config"
	"github.com/swiftpack/swiftpack/internal/process"
)

var errConfigLoad = errors.New("configuration could not be loaded")

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config ConfigProvider
		Runner process.Runner
		Fs     afero.Fs

		stdout      io.Writer
		stderr      io.Writer
		interactive func() bool
		configDir   string

		// Set by the root command's flags and by setup.
		flags  globalFlags
		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Runner process.Runner
		Fs     afero.Fs
		Stdout io.Writer
		Stderr io.Writer
		// IsTerminal reports whether prompts can be shown. Defaults to
		// checking whether stdin is a terminal.
		IsTerminal func() bool
		// ConfigDir overrides the platform config directory.
		ConfigDir string
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Path(opts config.LoadOptions) (string, error)
	}

	globalFlags struct {
		verbose    bool
		silent     bool
		configFile string
		projectDir string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = process.ExecRunner{}
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	}

	return &App{
		Config:      deps.Config,
		Runner:      deps.Runner,
		Fs:          deps.Fs,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		interactive: deps.IsTerminal,
		configDir:   deps.ConfigDir,
		logger:      log.New(io.Discard),
		cfg:         config.DefaultConfig(),
	}
}

// loadOptions returns the config lookup derived from the global flags.
func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: a.flags.configFile,
		ConfigDirPath:  a.configDir,
		BaseDir:        a.flags.projectDir,
	}
}

// setup loads the configuration and builds the logger. Flags given on the
// command line win over the config file.
func (a *App) setup(ctx context.Context, verboseSet, silentSet bool) error {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return errors.Join(errConfigLoad, err)
	}
	a.cfg = cfg

	if !verboseSet {
		a.flags.verbose = cfg.UI.Verbose
	}
	if !silentSet {
		a.flags.silent = cfg.UI.Silent
	}

	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}

	a.logger = newLogger(a.stderr, a.flags.verbose, a.flags.silent)
	return nil
}

// newLogger returns the CLI logger. Silent keeps errors only; verbose shows
// every command line.
func newLogger(w io.Writer, verbose, silent bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: config.AppName})
	switch {
	case silent:
		logger.SetLevel(log.ErrorLevel)
	case verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// projectDir returns the absolute project directory.
func (a *App) projectDir() (string, error) {
	dir := a.flags.projectDir
	if dir == "" {
		dir = "."
	}
	return filepath.Abs(dir)
}

// canPrompt reports whether interactive prompts may be shown.
func (a *App) canPrompt(yes bool) bool {
	return !yes && !a.flags.silent && a.interactive()
}

// glamourStyle picks the Markdown style for reports written to stderr.
func (a *App) glamourStyle() string {
	if f, ok := a.stderr.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return "notty"
	}
	switch a.cfg.UI.ColorScheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
