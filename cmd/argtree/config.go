// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/argtree/internal/config"
)

// newConfigCommand creates the `argtree config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage argtree configuration",
		Long: `Manage argtree configuration.

Configuration is stored in:
  - Linux: ~/.config/argtree/config.cue
  - macOS: ~/Library/Application Support/argtree/config.cue
  - Windows: %APPDATA%\argtree\config.cue

Any key can be overridden with an ARGTREE_ environment variable,
e.g. ARGTREE_UI_THEME=dracula.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(app.loadOptions())
			if err != nil {
				return app.fail(cmd, err)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(app.loadOptions())
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, source, err := config.LoadWithSource(cmd.Context(), app.loadOptions())
	if err != nil {
		return app.fail(cmd, err)
	}
	stateDir, err := cfg.ResolveStateDir()
	if err != nil {
		return app.fail(cmd, err)
	}

	out := app.stdout
	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)
	if source == "" {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), source)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("default_run_mode"), SuccessStyle.Render(cfg.DefaultRunMode.String()))
	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("state_dir"), SuccessStyle.Render(stateDir))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(out, "  theme: %s\n", SuccessStyle.Render(cfg.UI.Theme.String()))
	fmt.Fprintf(out, "  accessible: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.UI.Accessible)))
	fmt.Fprintf(out, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	return nil
}
