// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"

	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/hierarchy"
)

// ErrDuplicateArgument is returned when a value is supplied twice for the
// same key, e.g. in WithValues and WithValue.
var ErrDuplicateArgument = errors.New("duplicate argument")

type (
	// Store keeps the latest namespace collected for each command path.
	Store interface {
		Load(path []string) (command.Namespace, error)
		Save(path []string, ns command.Namespace) error
	}

	// Option configures Process.
	Option func(*options)

	// DuplicateArgumentError is returned when a key is supplied twice.
	// It wraps ErrDuplicateArgument for errors.Is() compatibility.
	DuplicateArgumentError struct {
		Name string
	}

	options struct {
		values      command.Namespace
		keywords    command.Namespace
		tokens      []string
		tokensSet   bool
		mode        command.RunMode
		defaultMode command.RunMode
		embedded    bool
		target      *command.Command
		store       Store
		renderer    hierarchy.FormRenderer
		logger      *log.Logger
		out         io.Writer
		errOut      io.Writer
		errs        []error
	}
)

// Error implements the error interface for DuplicateArgumentError.
func (e *DuplicateArgumentError) Error() string {
	return fmt.Sprintf("duplicate argument %q", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DuplicateArgumentError) Unwrap() error { return ErrDuplicateArgument }

// WithValues supplies a namespace shaped like the tree: the root's values at
// the top level and each subcommand's values under its name.
func WithValues(ns command.Namespace) Option {
	return func(o *options) { o.values = ns }
}

// WithValue supplies one top-level value. Supplying a key twice, or a key
// also present in WithValues, makes Process fail with ErrDuplicateArgument.
func WithValue(name string, v any) Option {
	return func(o *options) {
		if o.keywords == nil {
			o.keywords = command.Namespace{}
		}
		if _, ok := o.keywords[name]; ok {
			o.errs = append(o.errs, &DuplicateArgumentError{Name: name})
			return
		}
		o.keywords[name] = v
	}
}

// WithArgs supplies command-line tokens, without the program name. Without
// WithArgs or WithCommandLine the process arguments are used.
func WithArgs(tokens []string) Option {
	return func(o *options) {
		o.tokens = tokens
		o.tokensSet = true
	}
}

// WithCommandLine supplies command-line tokens as one string split with
// POSIX shell rules. Variables are not expanded.
func WithCommandLine(line string) Option {
	return func(o *options) {
		fields, err := shell.Fields(line, func(string) string { return "" })
		if err != nil {
			o.errs = append(o.errs, fmt.Errorf("split command line: %w", err))
			return
		}
		o.tokens = fields
		o.tokensSet = true
	}
}

// WithRunMode overrides the run mode declared on the root command.
func WithRunMode(mode command.RunMode) Option {
	return func(o *options) { o.mode = mode }
}

// WithDefaultRunMode sets the run mode used when neither WithRunMode nor the
// root command pick one other than RunModeSmart.
func WithDefaultRunMode(mode command.RunMode) Option {
	return func(o *options) { o.defaultMode = mode }
}

// WithEmbeddedHost reports that Process runs inside a host that supplies
// values itself, such as an interactive session. RunModeSmart then uses
// programmatic input.
func WithEmbeddedHost(embedded bool) Option {
	return func(o *options) { o.embedded = embedded }
}

// WithTarget names the command that programmatic input is collected for,
// instead of resolving it from the subcommand keys of the values. In the
// form it preselects the command.
func WithTarget(cmd *command.Command) Option {
	return func(o *options) { o.target = cmd }
}

// WithStore sets where snapshots are loaded from and saved to.
func WithStore(s Store) Option {
	return func(o *options) { o.store = s }
}

// WithRenderer sets the form renderer used in RunModeGUI.
func WithRenderer(r hierarchy.FormRenderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithLogger sets the logger. The default logs warnings to stderr.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOutput sets where command-line help is written.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithErrorOutput sets where command-line usage errors are written.
func WithErrorOutput(w io.Writer) Option {
	return func(o *options) { o.errOut = w }
}

// merged returns the supplied values with the keyword values added.
func (o *options) merged() (command.Namespace, error) {
	if len(o.keywords) == 0 {
		return o.values, nil
	}
	out := o.values.Clone()
	if out == nil {
		out = command.Namespace{}
	}
	for _, k := range o.keywords.Keys() {
		if _, ok := out[k]; ok {
			return nil, &DuplicateArgumentError{Name: k}
		}
		out[k] = o.keywords[k]
	}
	return out, nil
}
