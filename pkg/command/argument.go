// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/invowk/argtree/pkg/validate"
)

type (
	// Argument is a single named, typed input of a command.
	//
	// An argument holds at most one assigned value at a time. Value falls back
	// to the default when nothing has been assigned since the last Reset.
	Argument struct {
		name      string
		info      string
		aliases   []string
		shortform string
		def       any
		nullable  bool
		required  bool
		validator *validate.Validator
		depends   *Dependency

		value    any
		assigned bool

		owner *Command
		group *Group
	}

	// ArgumentOption configures an Argument.
	ArgumentOption func(*argumentConfig)

	argumentConfig struct {
		info       string
		aliases    []string
		def        any
		nullable   bool
		required   *bool
		strict     bool
		choices    []any
		conditions []validate.Condition
		constrain  []func(*validate.Validator)
		combinator Combinator
		dependsOn  []*Argument
	}
)

// Info sets the help text.
func Info(text string) ArgumentOption {
	return func(c *argumentConfig) { c.info = text }
}

// Aliases adds alternate flag names. Single letters become extra short flags.
func Aliases(aliases ...string) ArgumentOption {
	return func(c *argumentConfig) { c.aliases = append(c.aliases, aliases...) }
}

// Default sets the value used when none is assigned. It is converted by the
// argument's validator when the argument is created.
func Default(v any) ArgumentOption {
	return func(c *argumentConfig) { c.def = v }
}

// Nullable allows the argument to hold null.
func Nullable() ArgumentOption {
	return func(c *argumentConfig) { c.nullable = true }
}

// Required overrides whether the argument must be given. By default an
// argument is required when it has no default and is not nullable.
func Required(required bool) ArgumentOption {
	return func(c *argumentConfig) { c.required = &required }
}

// Strict disables cross-type coercion.
func Strict() ArgumentOption {
	return func(c *argumentConfig) { c.strict = true }
}

// Choices restricts the accepted values.
func Choices(choices ...any) ArgumentOption {
	return func(c *argumentConfig) { c.choices = append(c.choices, choices...) }
}

// Conditions adds named predicates values must satisfy.
func Conditions(conditions ...validate.Condition) ArgumentOption {
	return func(c *argumentConfig) { c.conditions = append(c.conditions, conditions...) }
}

// Constrain applies builder calls to the argument's validator, e.g.
//
//	command.Constrain(func(v *validate.Validator) { v.MinValue(1) })
func Constrain(fn func(*validate.Validator)) ArgumentOption {
	return func(c *argumentConfig) { c.constrain = append(c.constrain, fn) }
}

// DependsOn makes the argument's presence follow the truthiness of args: it
// must be set when any (or all) of them are truthy and unset otherwise. An
// argument with dependencies is always nullable.
func DependsOn(combinator Combinator, args ...*Argument) ArgumentOption {
	return func(c *argumentConfig) {
		c.combinator = combinator
		c.dependsOn = args
	}
}

// NewArgument declares an argument. typ is a type descriptor accepted by
// validate.Infer: a validate.Kind, a *validate.Validator, a sample value such
// as 0 or "", or a reflect.Type.
func NewArgument(name string, typ any, opts ...ArgumentOption) (*Argument, error) {
	if err := checkIdentifier(name); err != nil {
		return nil, err
	}
	var cfg argumentConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	aliases, err := normalizeAliases(name, cfg.aliases)
	if err != nil {
		return nil, err
	}

	nullable := cfg.nullable || len(cfg.dependsOn) > 0
	v := validate.Infer(typ, validate.WithNullable(nullable))
	if cfg.strict {
		v.SetStrict(true)
	}
	if len(cfg.choices) > 0 {
		v.SetChoices(cfg.choices...)
	}
	for _, cond := range cfg.conditions {
		v.AddCondition(cond)
	}
	for _, fn := range cfg.constrain {
		fn(v)
	}
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("argument %q: %w", name, err)
	}

	arg := &Argument{
		name:      name,
		info:      cfg.info,
		aliases:   aliases,
		nullable:  nullable,
		validator: v,
	}
	if cfg.def != nil {
		def, err := v.Convert(cfg.def)
		if err != nil {
			return nil, fmt.Errorf("argument %q: invalid default: %w", name, err)
		}
		arg.def = def
	}
	arg.required = arg.def == nil && !arg.nullable
	if cfg.required != nil {
		arg.required = *cfg.required
	}

	if len(cfg.dependsOn) > 0 {
		dep, err := newDependency(arg, cfg.combinator, cfg.dependsOn)
		if err != nil {
			return nil, err
		}
		arg.depends = dep
	}
	return arg, nil
}

func normalizeAliases(name string, aliases []string) ([]string, error) {
	var out []string
	for _, a := range aliases {
		a = strings.TrimLeft(strings.TrimSpace(a), "-")
		switch {
		case a == name || slices.Contains(out, a):
			continue
		case a == helpShortform || a == helpName:
			return nil, &InvalidIdentifierError{Name: a, Reason: "reserved for help"}
		case len(a) == 1 && isShortformLetter(rune(a[0])):
			// explicit short flag
		default:
			if err := checkIdentifier(a); err != nil {
				return nil, err
			}
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(x, y string) int { return len(x) - len(y) })
	return out, nil
}

// Name returns the argument name.
func (a *Argument) Name() string { return a.name }

// Info returns the help text.
func (a *Argument) Info() string { return a.info }

// Shortform returns the single-letter flag assigned when the argument was
// attached to a command, or "".
func (a *Argument) Shortform() string { return a.shortform }

// Aliases returns the explicit aliases.
func (a *Argument) Aliases() []string { return slices.Clone(a.aliases) }

// Flags returns every command-line spelling of the argument: short flags
// first, then long flags shortest first.
func (a *Argument) Flags() []string {
	var short, long []string
	if a.shortform != "" {
		short = append(short, "-"+a.shortform)
	}
	long = append(long, "--"+a.name)
	for _, alias := range a.aliases {
		if alias == a.shortform {
			continue
		}
		if len(alias) == 1 {
			short = append(short, "-"+alias)
			continue
		}
		long = append(long, "--"+alias)
	}
	slices.SortStableFunc(long, func(x, y string) int { return len(x) - len(y) })
	return append(short, long...)
}

// Default returns the converted default, or nil.
func (a *Argument) Default() any { return a.def }

// Nullable reports whether the argument may hold null.
func (a *Argument) Nullable() bool { return a.nullable }

// Required reports whether the argument must be given.
func (a *Argument) Required() bool { return a.required }

// Choices returns the normalized allowed values, or nil.
func (a *Argument) Choices() []any { return a.validator.Choices() }

// Validator returns the argument's validator.
func (a *Argument) Validator() *validate.Validator { return a.validator }

// Dependency returns the argument's dependency, or nil.
func (a *Argument) Dependency() *Dependency { return a.depends }

// Command returns the command the argument is attached to, or nil.
func (a *Argument) Command() *Command { return a.owner }

// Group returns the group the argument belongs to, or nil.
func (a *Argument) Group() *Group { return a.group }

// Value returns the assigned value, or the default when none is assigned.
func (a *Argument) Value() any {
	if a.assigned {
		return a.value
	}
	return a.def
}

// SetValue converts raw and assigns the result. A failed conversion leaves
// the previous value in place.
func (a *Argument) SetValue(raw any) error {
	v, err := a.validator.Convert(raw)
	if err != nil {
		return fmt.Errorf("argument %q: %w", a.name, err)
	}
	a.value = v
	a.assigned = true
	return nil
}

// Assigned reports whether a value was assigned since the last Reset.
func (a *Argument) Assigned() bool { return a.assigned }

// Reset discards the assigned value.
func (a *Argument) Reset() {
	a.value = nil
	a.assigned = false
}

// IsSet reports whether the argument currently has a non-null value.
func (a *Argument) IsSet() bool { return a.Value() != nil }

// AlwaysSet reports whether the argument can never be null, because it
// has a default.
func (a *Argument) AlwaysSet() bool { return a.def != nil }

// Satisfied reports whether the argument counts as given for an inclusive
// group: it has a value or may be null.
func (a *Argument) Satisfied() bool { return a.nullable || a.IsSet() }

func (a *Argument) alwaysSatisfied() bool { return a.nullable || a.def != nil }

// Truthy reports whether the current value is set and non-zero. Empty
// strings and collections, zero numbers, false and null are not truthy.
func (a *Argument) Truthy() bool { return truthy(a.Value()) }

// String describes the argument for diagnostics.
func (a *Argument) String() string {
	return fmt.Sprintf("%s(%s)", a.name, a.validator.TypeName())
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case *apd.Decimal:
		return t != nil && !t.IsZero()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}
