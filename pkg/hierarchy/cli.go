// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/validate"
)

type (
	// CLIOption configures ParseArgs.
	CLIOption func(*cliConfig)

	cliConfig struct {
		out    io.Writer
		errOut io.Writer
	}

	// flagValue adapts an argument to pflag.Value. The first conversion
	// failure is kept so the caller sees the typed error rather than
	// pflag's formatted copy.
	flagValue struct {
		arg     *command.Argument
		failure *error
	}
)

// WithOutput sets where help is written.
func WithOutput(w io.Writer) CLIOption {
	return func(c *cliConfig) { c.out = w }
}

// WithErrorOutput sets where parse errors and usage are written.
func WithErrorOutput(w io.Writer) CLIOption {
	return func(c *cliConfig) { c.errOut = w }
}

// ParseArgs parses command-line tokens into the tree. Each level's flags
// come before the next subcommand name, e.g.
//
//	--dry_run build --target web
//
// It assigns the parsed values, selects the chosen node and returns it.
// It returns ErrHelpRequested when help was printed instead.
func (h *Hierarchy) ParseArgs(ctx context.Context, tokens []string, opts ...CLIOption) (NodeID, error) {
	cfg := cliConfig{out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(&cfg)
	}

	chosen := NoNode
	var failure error
	root := h.parser(h.Root(), &chosen, &failure)
	root.TraverseChildren = true
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetArgs(tokens)
	root.SetOut(cfg.out)
	root.SetErr(cfg.errOut)

	err := root.ExecuteContext(ctx)
	if failure != nil {
		return NoNode, failure
	}
	if err != nil {
		return NoNode, err
	}
	if chosen == NoNode {
		return NoNode, ErrHelpRequested
	}
	h.Select(chosen)
	return chosen, nil
}

// parser builds the cobra command for one node and its subtree. Flags are
// local to their level, so short forms may repeat across levels.
func (h *Hierarchy) parser(id NodeID, chosen *NodeID, failure *error) *cobra.Command {
	cmd := h.Command(id)
	cc := &cobra.Command{
		Use:           cmd.Name(),
		Short:         firstLine(cmd.Description()),
		Long:          cmd.Description(),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			if err := h.CheckRequired(id); err != nil {
				return err
			}
			*chosen = id
			return nil
		},
	}
	cc.SetHelpFunc(func(c *cobra.Command, _ []string) {
		_, _ = io.WriteString(c.OutOrStdout(), RenderHelp(cmd))
	})
	cc.SetUsageFunc(func(c *cobra.Command) error {
		_, err := io.WriteString(c.ErrOrStderr(), RenderHelp(cmd))
		return err
	})

	for _, arg := range cmd.Arguments() {
		registerFlags(cc.Flags(), arg, failure)
	}
	for _, child := range h.nodes[id].children {
		cc.AddCommand(h.parser(child, chosen, failure))
	}
	return cc
}

func registerFlags(fs *pflag.FlagSet, arg *command.Argument, failure *error) {
	value := &flagValue{arg: arg, failure: failure}
	isBool := arg.Validator().Kind() == validate.KindBool

	add := func(name, short string, hidden bool) {
		f := fs.VarPF(value, name, short, arg.Info())
		f.DefValue = validate.FormatText(arg.Default())
		if isBool {
			f.NoOptDefVal = "true"
		}
		f.Hidden = hidden
	}
	add(arg.Name(), arg.Shortform(), false)
	for _, alias := range arg.Aliases() {
		switch {
		case alias == arg.Shortform():
			// already registered as the shorthand
		case len(alias) == 1:
			// pflag allows one shorthand per flag; extra letters get a hidden
			// carrier whose name cannot clash with an identifier.
			add(arg.Name()+"-"+alias, alias, true)
		default:
			add(alias, "", true)
		}
	}
}

// String implements pflag.Value.
func (v *flagValue) String() string {
	if v == nil || v.arg == nil {
		return ""
	}
	return validate.FormatText(v.arg.Value())
}

// Set implements pflag.Value.
func (v *flagValue) Set(s string) error {
	if err := v.arg.SetValue(s); err != nil {
		if *v.failure == nil {
			*v.failure = err
		}
		return err
	}
	return nil
}

// Type implements pflag.Value.
func (v *flagValue) Type() string {
	return v.arg.Validator().TypeName()
}
