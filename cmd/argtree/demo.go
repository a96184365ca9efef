// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/invowk/argtree/internal/form"
	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/dispatch"
	"github.com/invowk/argtree/pkg/hierarchy"
	"github.com/invowk/argtree/pkg/validate"
)

// newDemoCommand creates `argtree demo`, which collects values for an
// example release tree.
func newDemoCommand(app *App) *cobra.Command {
	var (
		mode string
		sets []string
	)
	demoCmd := &cobra.Command{
		Use:   "demo [--mode MODE] [--set path=value]... [-- TOKENS...]",
		Short: "Collect values for an example release tree",
		Long: `Collect values for an example release tree:

  demo [--dry_run]
  ├── build   [--target all|cli|web] [--jobs N] [--tags LIST]
  ├── test    [--pattern GLOB] [--race]
  └── publish [--channel stable|beta] [--token TOKEN] [--user NAME]

Command-line tokens follow '--'. --set supplies values directly, addressed
by dotted path. Without --mode the run mode comes from the configuration,
and "smart" picks values, a form, or the command line from what was given.`,
		Example: `  argtree demo -- --dry_run build --target web --jobs 8
  argtree demo --set build.target=cli --set build.jobs=2
  argtree demo --mode gui`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runDemo(cmd, app, mode, sets, args); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
	demoCmd.Flags().StringVar(&mode, "mode", "", "run mode (smart, commandline, gui, programmatic)")
	demoCmd.Flags().StringArrayVar(&sets, "set", nil, "value as dotted.path=value (repeatable)")
	return demoCmd
}

func runDemo(cmd *cobra.Command, app *App, mode string, sets, tokens []string) error {
	ctx := cmd.Context()
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	s, err := app.openStore(cfg)
	if err != nil {
		return err
	}
	values, err := parseSets(sets)
	if err != nil {
		return err
	}
	root, err := demoTree(app.stdout)
	if err != nil {
		return err
	}

	opts := []dispatch.Option{
		dispatch.WithArgs(tokens),
		dispatch.WithValues(values),
		dispatch.WithDefaultRunMode(cfg.DefaultRunMode),
		dispatch.WithStore(s),
		dispatch.WithLogger(app.newLogger(cfg)),
		dispatch.WithRenderer(form.New(form.WithTheme(cfg.UI.Theme), form.WithAccessible(cfg.UI.Accessible))),
		dispatch.WithOutput(app.stdout),
		dispatch.WithErrorOutput(app.stderr),
	}
	if mode != "" {
		runMode, err := command.ParseRunMode(mode)
		if err != nil {
			return err
		}
		opts = append(opts, dispatch.WithRunMode(runMode))
	}

	res, err := dispatch.Process(ctx, root, opts...)
	if errors.Is(err, hierarchy.ErrHelpRequested) {
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "%s %s (%s)\n", SuccessStyle.Render("✓"), res.Command.PathString(), res.Mode)
	data, err := yaml.Marshal(map[string]any(res.Namespace))
	if err != nil {
		return err
	}
	_, err = app.stdout.Write(data)
	return err
}

// parseSets turns path=value pairs into a nested namespace.
func parseSets(sets []string) (command.Namespace, error) {
	ns := command.Namespace{}
	for _, set := range sets {
		path, value, ok := strings.Cut(set, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid --set %q (want dotted.path=value)", set)
		}
		parts := strings.Split(path, ".")
		level := ns
		for _, p := range parts[:len(parts)-1] {
			sub, ok := level.Sub(p)
			if !ok {
				sub = command.Namespace{}
				level[p] = sub
			}
			level = sub
		}
		name := parts[len(parts)-1]
		if _, dup := level[name]; dup {
			return nil, fmt.Errorf("%w: %s", dispatch.ErrDuplicateArgument, path)
		}
		level[name] = value
	}
	return ns, nil
}

// demoTree declares the example release tree. Callbacks report to out.
func demoTree(out io.Writer) (*command.Command, error) {
	return command.Declare("demo", func(b *command.Builder) {
		b.Bool("dry_run", command.Default(false), command.Info("only print what would happen"))

		b.Subcommand("build", func(b *command.Builder) {
			b.String("target", command.Default("all"), command.Choices("all", "cli", "web"), command.Info("what to build"))
			b.Int("jobs", command.Default(4), command.Constrain(func(v *validate.Validator) { v.MinValue(1) }), command.Info("parallel jobs"))
			b.List("tags", "", command.Nullable(), command.Info("build tags"))
		}, command.Description("Build release artifacts"), command.WithCallback(func(_ context.Context, _ *command.Command, ns command.Namespace) error {
			build, _ := ns.Sub("build")
			fmt.Fprintf(out, "building %v with %v jobs\n", build["target"], build["jobs"])
			return nil
		}))

		b.Subcommand("test", func(b *command.Builder) {
			b.String("pattern", command.Nullable(), command.Info("only run matching tests"))
			b.Bool("race", command.Default(false), command.Info("enable the race detector"))
		}, command.Description("Run the test suite"))

		b.Subcommand("publish", func(b *command.Builder) {
			b.Enum("channel", []string{"stable", "beta"}, command.Default("stable"))
			token := b.String("token", command.Nullable(), command.Info("registry token"))
			b.String("user", command.DependsOn(command.AnyOf, token), command.Info("registry user, required with --token"))
		}, command.Description("Publish to the registry"))
	}, command.Description("Example release pipeline"), command.WithCallback(func(_ context.Context, _ *command.Command, ns command.Namespace) error {
		if dry, _ := ns["dry_run"].(bool); dry {
			fmt.Fprintln(out, "dry run: nothing will be changed")
		}
		return nil
	}))
}
