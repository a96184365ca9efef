// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"

	"github.com/invowk/argtree/pkg/validate"
)

// Builder declares the contents of one command or group. Builders are
// handed to the closures passed to Declare, Subcommand and Group; the
// first failure is kept and every later call becomes a no-op.
type Builder struct {
	cmd   *Command
	group *Group
	err   *error
}

// Declare creates a command and runs declare to populate it.
func Declare(name string, declare func(b *Builder), opts ...CommandOption) (*Command, error) {
	cmd, err := NewCommand(name, opts...)
	if err != nil {
		return nil, err
	}
	var buildErr error
	if declare != nil {
		declare(&Builder{cmd: cmd, err: &buildErr})
	}
	if buildErr != nil {
		return nil, buildErr
	}
	return cmd, nil
}

// Command returns the command being declared.
func (b *Builder) Command() *Command { return b.cmd }

// Err returns the first declaration failure.
func (b *Builder) Err() error { return *b.err }

func (b *Builder) fail(err error) {
	if *b.err == nil {
		*b.err = err
	}
}

// Argument declares an argument of any type descriptor accepted by
// validate.Infer. It returns nil after a failure.
func (b *Builder) Argument(name string, typ any, opts ...ArgumentOption) *Argument {
	if *b.err != nil {
		return nil
	}
	arg, err := NewArgument(name, typ, opts...)
	if err != nil {
		b.fail(err)
		return nil
	}
	if b.group != nil {
		err = b.group.AddArgument(arg)
	} else {
		err = b.cmd.AddArgument(arg)
	}
	if err != nil {
		b.fail(err)
		return nil
	}
	return arg
}

// Bool declares a bool argument.
func (b *Builder) Bool(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindBool, opts...)
}

// String declares a string argument.
func (b *Builder) String(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindString, opts...)
}

// Int declares an int argument.
func (b *Builder) Int(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindInt, opts...)
}

// Float declares a float64 argument.
func (b *Builder) Float(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindFloat, opts...)
}

// Decimal declares an arbitrary-precision decimal argument.
func (b *Builder) Decimal(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindDecimal, opts...)
}

// Date declares a calendar date argument.
func (b *Builder) Date(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindDate, opts...)
}

// DateTime declares a timestamp argument.
func (b *Builder) DateTime(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindDateTime, opts...)
}

// Path declares a filesystem path argument.
func (b *Builder) Path(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindPath, opts...)
}

// File declares an argument naming an existing file.
func (b *Builder) File(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindFile, opts...)
}

// Dir declares an argument naming an existing directory.
func (b *Builder) Dir(name string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.KindDir, opts...)
}

// List declares a list argument with the given element type descriptor.
func (b *Builder) List(name string, elem any, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.List(elem), opts...)
}

// Set declares a set argument with the given element type descriptor.
func (b *Builder) Set(name string, elem any, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.Set(elem), opts...)
}

// Dict declares a mapping argument with the given key and value descriptors.
func (b *Builder) Dict(name string, key, val any, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.Dict(key, val), opts...)
}

// Enum declares an argument accepting one of members.
func (b *Builder) Enum(name string, members []string, opts ...ArgumentOption) *Argument {
	return b.Argument(name, validate.Enum(members...), opts...)
}

// Subcommand declares a subcommand and runs declare to populate it.
// Subcommands cannot be declared inside a group.
func (b *Builder) Subcommand(name string, declare func(b *Builder), opts ...CommandOption) *Command {
	if *b.err != nil {
		return nil
	}
	if b.group != nil {
		b.fail(fmt.Errorf("subcommand %q cannot be declared inside group %q", name, b.group.name))
		return nil
	}
	child, err := NewCommand(name, opts...)
	if err != nil {
		b.fail(err)
		return nil
	}
	if err := b.cmd.AddSubcommand(child); err != nil {
		b.fail(err)
		return nil
	}
	if declare != nil {
		declare(&Builder{cmd: child, err: b.err})
	}
	return child
}

// Group declares a group and runs declare to populate it. Groups nest.
func (b *Builder) Group(name string, mode GroupMode, declare func(b *Builder)) *Group {
	if *b.err != nil {
		return nil
	}
	g, err := NewGroup(name, mode)
	if err != nil {
		b.fail(err)
		return nil
	}
	if b.group != nil {
		err = b.group.AddGroup(g)
	} else {
		err = b.cmd.AddGroup(g)
	}
	if err != nil {
		b.fail(err)
		return nil
	}
	if declare != nil {
		declare(&Builder{cmd: b.cmd, group: g, err: b.err})
	}
	return g
}
