// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strings"
)

const (
	helpName      = "help"
	helpShortform = "h"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type (
	// Callback runs after a successful parse. It receives the command it is
	// registered on and the namespace of the whole chosen path, so a parent
	// callback sees its subcommand's values under the subcommand name.
	Callback func(ctx context.Context, cmd *Command, ns Namespace) error

	// CommandOption configures a Command.
	CommandOption func(*Command)

	// handler holds what commands and groups share: a name and a set of
	// declared names that must not collide.
	handler struct {
		name      string
		names     map[string]struct{}
		arguments []*Argument
	}

	// Command is a node of an argument tree. It owns arguments, groups and
	// subcommands, and an optional callback.
	Command struct {
		handler

		description string
		runMode     RunMode
		callback    Callback

		parent      *Command
		subcommands []*Command
		groups      []*Group

		// flags maps long flag spellings without dashes to their argument.
		flags map[string]*Argument
		// shorts maps claimed single-letter flags, explicit or assigned.
		shorts  map[string]*Argument
		scratch *Scratch
	}
)

// Description sets the command description shown in help and forms.
func Description(text string) CommandOption {
	return func(c *Command) { c.description = text }
}

// WithRunMode sets how the tree obtains its values when this command is the root.
func WithRunMode(mode RunMode) CommandOption {
	return func(c *Command) { c.runMode = mode }
}

// WithCallback sets the function run after a successful parse.
func WithCallback(cb Callback) CommandOption {
	return func(c *Command) { c.callback = cb }
}

// NewCommand declares a command.
func NewCommand(name string, opts ...CommandOption) (*Command, error) {
	if err := checkIdentifier(name); err != nil {
		return nil, err
	}
	c := &Command{
		handler: handler{name: name},
		runMode: RunModeSmart,
		flags:   make(map[string]*Argument),
		shorts:  make(map[string]*Argument),
	}
	for _, opt := range opts {
		opt(c)
	}
	if ok, errs := c.runMode.IsValid(); !ok {
		return nil, errs[0]
	}
	return c, nil
}

func checkIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return &InvalidIdentifierError{
			Name:   name,
			Reason: "must start with a letter or underscore and contain only letters, digits and underscores",
		}
	}
	if name == helpName {
		return &InvalidIdentifierError{Name: name, Reason: "reserved for help"}
	}
	return nil
}

func isShortformLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func (h *handler) claim(name string) error {
	if _, ok := h.names[name]; ok {
		return &NameCollisionError{Handler: h.name, Name: name}
	}
	if h.names == nil {
		h.names = make(map[string]struct{})
	}
	h.names[name] = struct{}{}
	return nil
}

func (h *handler) release(name string) {
	delete(h.names, name)
}

// Name returns the handler name.
func (h *handler) Name() string { return h.name }

// Arguments returns the arguments in declaration order.
func (h *handler) Arguments() []*Argument { return slices.Clone(h.arguments) }

// Argument returns the argument with the given name.
func (h *handler) Argument(name string) (*Argument, bool) {
	for _, a := range h.arguments {
		if a.name == name {
			return a, true
		}
	}
	return nil, false
}

// Description returns the command description.
func (c *Command) Description() string { return c.description }

// RunMode returns the declared run mode.
func (c *Command) RunMode() RunMode { return c.runMode }

// Callback returns the callback, or nil.
func (c *Command) Callback() Callback { return c.callback }

// Parent returns the parent command, or nil for a root.
func (c *Command) Parent() *Command { return c.parent }

// Root returns the topmost ancestor.
func (c *Command) Root() *Command {
	r := c
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Subcommands returns the subcommands in declaration order.
func (c *Command) Subcommands() []*Command { return slices.Clone(c.subcommands) }

// Subcommand returns the subcommand with the given name.
func (c *Command) Subcommand(name string) (*Command, bool) {
	for _, s := range c.subcommands {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Groups returns the top-level groups in declaration order.
func (c *Command) Groups() []*Group { return slices.Clone(c.groups) }

// Path returns the command names from the root to c.
func (c *Command) Path() []string {
	var path []string
	for n := c; n != nil; n = n.parent {
		path = append(path, n.name)
	}
	slices.Reverse(path)
	return path
}

// PathString returns Path joined with dots, e.g. "release.build".
func (c *Command) PathString() string {
	return strings.Join(c.Path(), ".")
}

// Scratch returns the store shared by every command of the tree.
func (c *Command) Scratch() *Scratch {
	root := c.Root()
	if root.scratch == nil {
		root.scratch = &Scratch{}
	}
	return root.scratch
}

// Walk calls fn for c and every descendant, parents before children.
func (c *Command) Walk(fn func(*Command) error) error {
	if err := fn(c); err != nil {
		return err
	}
	for _, s := range c.subcommands {
		if err := s.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// AddArgument attaches arg to c and assigns its short form.
func (c *Command) AddArgument(arg *Argument) error {
	if arg == nil {
		return errors.New("nil argument")
	}
	if arg.owner != nil {
		return &AlreadyBoundError{Name: arg.name, Owner: arg.owner.name}
	}
	if arg.group != nil {
		return &AlreadyBoundError{Name: arg.name, Owner: arg.group.name}
	}
	return c.attach(arg)
}

func (c *Command) attach(arg *Argument) error {
	if err := c.claim(arg.name); err != nil {
		return err
	}
	long := []string{arg.name}
	var short []string
	for _, a := range arg.aliases {
		if len(a) == 1 {
			short = append(short, a)
		} else {
			long = append(long, a)
		}
	}
	for _, spellings := range []struct {
		names []string
		taken map[string]*Argument
	}{{long, c.flags}, {short, c.shorts}} {
		for _, s := range spellings.names {
			if _, taken := spellings.taken[s]; taken {
				c.release(arg.name)
				return &NameCollisionError{Handler: c.name, Name: s}
			}
		}
	}
	for _, s := range long {
		c.flags[s] = arg
	}
	for _, s := range short {
		c.shorts[s] = arg
	}
	arg.shortform = c.shortformFor(arg)
	arg.owner = c
	c.arguments = append(c.arguments, arg)
	return nil
}

// shortformFor returns the argument's first explicit single-letter alias, or
// claims the first free lowercase letter of its name. "h" is never assigned.
func (c *Command) shortformFor(arg *Argument) string {
	for _, a := range arg.aliases {
		if len(a) == 1 {
			return a
		}
	}
	for _, r := range strings.ToLower(arg.name) {
		s := string(r)
		if !isShortformLetter(r) || s == helpShortform {
			continue
		}
		if _, taken := c.shorts[s]; !taken {
			c.shorts[s] = arg
			return s
		}
	}
	return ""
}

// AddSubcommand attaches child below c.
func (c *Command) AddSubcommand(child *Command) error {
	if child == nil {
		return errors.New("nil subcommand")
	}
	if child.parent != nil {
		return &AlreadyBoundError{Name: child.name, Owner: child.parent.name}
	}
	for n := c; n != nil; n = n.parent {
		if n == child {
			return &AlreadyBoundError{Name: child.name, Owner: c.name}
		}
	}
	if err := c.claim(child.name); err != nil {
		return err
	}
	child.parent = c
	c.subcommands = append(c.subcommands, child)
	return nil
}

// AddGroup attaches g and every argument and group inside it to c.
func (c *Command) AddGroup(g *Group) error {
	if g == nil {
		return errors.New("nil group")
	}
	if g.owner != nil || g.parent != nil {
		return &AlreadyBoundError{Name: g.name, Owner: g.ownerName()}
	}
	if err := c.attachGroup(g); err != nil {
		return err
	}
	c.groups = append(c.groups, g)
	return nil
}

func (c *Command) attachGroup(g *Group) error {
	if err := c.claim(g.name); err != nil {
		return err
	}
	g.owner = c
	for _, a := range g.arguments {
		if err := c.attach(a); err != nil {
			return err
		}
	}
	for _, sub := range g.groups {
		if err := c.attachGroup(sub); err != nil {
			return err
		}
	}
	return nil
}

// PreValidate checks the group logic of c and every descendant.
func (c *Command) PreValidate() error {
	return c.Walk(func(cmd *Command) error {
		for _, g := range cmd.groups {
			if err := g.PreValidate(); err != nil {
				return err
			}
		}
		return nil
	})
}

// PostValidate checks c's groups against the current values.
func (c *Command) PostValidate() error {
	for _, g := range c.groups {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CheckRequired returns a MissingArgumentError for the first required
// argument of c without a value.
func (c *Command) CheckRequired() error {
	for _, a := range c.arguments {
		if a.required && a.Value() == nil {
			return &MissingArgumentError{Command: c.PathString(), Argument: a.name}
		}
	}
	return nil
}

// ValidateDependencies checks the dependencies of c's arguments.
func (c *Command) ValidateDependencies() error {
	for _, a := range c.arguments {
		if a.depends == nil {
			continue
		}
		if err := a.depends.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Namespace returns c's own argument values keyed by argument name.
func (c *Command) Namespace() Namespace {
	ns := make(Namespace, len(c.arguments))
	for _, a := range c.arguments {
		ns[a.name] = a.Value()
	}
	return ns
}

// Reset discards assigned values of c and every descendant.
func (c *Command) Reset() {
	_ = c.Walk(func(cmd *Command) error {
		for _, a := range cmd.arguments {
			a.Reset()
		}
		return nil
	})
}

// String returns the dotted path.
func (c *Command) String() string {
	return c.PathString()
}
