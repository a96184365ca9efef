// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the argtree CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/invowk/argtree/internal/config"
	"github.com/invowk/argtree/internal/issue"
	"github.com/invowk/argtree/internal/store"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// App wires the CLI to its configuration and output streams. Every
	// command handler receives the App.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer

		configPath string
		stateDir   string
		verbose    bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp returns an App with defaults for every nil dependency.
func NewApp(deps Dependencies) *App {
	app := &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// NewRootCommand builds the argtree command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "argtree",
		Short: "Declare typed argument trees and collect their values",
		Long: TitleStyle.Render("argtree") + SubtitleStyle.Render(" - typed argument trees from the command line, a form or code") + `

argtree collects validated values for a tree of commands from command-line
tokens, an interactive form, or values supplied by a program, and remembers
the last values used for each command.

` + SubtitleStyle.Render("Examples:") + `
  argtree demo -- build --target web     Parse a command line
  argtree demo --mode gui                Fill in a form
  argtree demo --set build.jobs=2        Supply values directly
  argtree state show                     Show remembered values
  argtree config show                    Show current configuration`,
		SilenceUsage: true,
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is <config dir>/argtree/config.cue)")
	root.PersistentFlags().StringVar(&app.stateDir, "state-dir", "", "directory for remembered values (overrides state_dir)")

	root.AddCommand(newConfigCommand(app))
	root.AddCommand(newStateCommand(app))
	root.AddCommand(newDemoCommand(app))
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// Execute runs the CLI and exits with its exit code.
func Execute() {
	os.Exit(Main())
}

func (app *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: app.configPath,
		Verbose:        app.verbose,
		StateDir:       app.stateDir,
	}
}

// loadConfig loads the configuration with the persistent flags applied.
func (app *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return app.Config.Load(ctx, app.loadOptions())
}

// newLogger returns the CLI logger: warnings by default, debug when verbose.
func (app *App) newLogger(cfg *config.Config) *log.Logger {
	level := log.WarnLevel
	if cfg.UI.Verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(app.stderr, log.Options{Prefix: "argtree", Level: level})
}

// openStore opens the snapshot store configured by cfg.
func (app *App) openStore(cfg *config.Config) (*store.Store, error) {
	dir, err := cfg.ResolveStateDir()
	if err != nil {
		return nil, err
	}
	return store.New(dir, store.WithLogger(app.newLogger(cfg))), nil
}

// fail prints err with its issue help and returns an ExitError so fang does
// not print it again.
func (app *App) fail(cmd *cobra.Command, err error) error {
	fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.verbose))
	if known := issue.Classify(err); known != nil {
		if rendered, renderErr := known.Render(markdownStyle(app.stderr)); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: err}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// markdownStyle picks the glamour style: colors on a terminal, plain text
// otherwise.
func markdownStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}
