// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/invowk/argtree/internal/store"
)

const (
	formatTOML = "toml"
	formatYAML = "yaml"
)

// newStateCommand creates the `argtree state` command tree.
func newStateCommand(app *App) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect remembered values",
		Long: `Inspect the values remembered from the last successful run of each command.

The form starts from these values, so clearing them resets every form to
its defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show [command-path]",
		Short: "Show remembered values, e.g. 'state show demo.build'",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTOML && format != formatYAML {
				return app.fail(cmd, fmt.Errorf("invalid format %q (valid: toml, yaml)", format))
			}
			s, err := app.stateStore(cmd)
			if err != nil {
				return app.fail(cmd, err)
			}
			if len(args) == 1 {
				err = showSnapshot(app, s, args[0], format)
			} else {
				err = showAllSnapshots(app, s, format)
			}
			if err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	showCmd.Flags().StringVar(&format, "format", formatTOML, "output format (toml, yaml)")
	stateCmd.AddCommand(showCmd)

	stateCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the state directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.stateStore(cmd)
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, s.Dir())
			return nil
		},
	})

	stateCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all remembered values",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.stateStore(cmd)
			if err != nil {
				return app.fail(cmd, err)
			}
			n, err := s.Clear()
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "%s Removed %d snapshot(s)\n", SuccessStyle.Render("✓"), n)
			return nil
		},
	})

	return stateCmd
}

func (app *App) stateStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return nil, err
	}
	return app.openStore(cfg)
}

func showSnapshot(app *App, s *store.Store, path, format string) error {
	parts := strings.Split(path, ".")
	if format == formatTOML {
		data, err := os.ReadFile(s.Path(parts))
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no remembered values for %q", path)
		}
		if err != nil {
			return err
		}
		_, err = app.stdout.Write(data)
		return err
	}
	ns, err := s.Load(parts)
	if err != nil {
		return err
	}
	if ns == nil {
		return fmt.Errorf("no remembered values for %q", path)
	}
	data, err := yaml.Marshal(map[string]any(ns))
	if err != nil {
		return err
	}
	_, err = app.stdout.Write(data)
	return err
}

func showAllSnapshots(app *App, s *store.Store, format string) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no remembered values)"))
		return nil
	}
	if format == formatYAML {
		doc := make(map[string]any, len(entries))
		for _, e := range entries {
			doc[e.Path] = map[string]any(e.Namespace)
		}
		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = app.stdout.Write(data)
		return err
	}
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(app.stdout)
		}
		fmt.Fprintf(app.stdout, "%s %s\n", KeyStyle.Render("#"), KeyStyle.Render(e.Path))
		data, err := os.ReadFile(e.File)
		if err != nil {
			return err
		}
		if _, err := app.stdout.Write(data); err != nil {
			return err
		}
	}
	return nil
}
