// SPDX-License-Identifier: MPL-2.0

// Package command declares argument trees: commands with typed arguments,
// nested subcommands and argument groups.
//
// Trees are declared with Declare, which passes a Builder to a closure per
// level:
//
//	root, err := command.Declare("release", func(b *command.Builder) {
//		b.Bool("dry_run", command.Default(false))
//		b.Subcommand("build", func(b *command.Builder) {
//			b.String("target", command.Default("all"))
//		})
//	})
//
// or assembled explicitly with NewCommand, NewArgument, AddArgument,
// AddSubcommand and AddGroup.
package command
