// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"errors"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/hierarchy"
	"github.com/invowk/argtree/pkg/validate"
)

// Id identifies a class of failure in the catalog.
type Id int

const (
	ConversionFailedId Id = iota + 1
	ConstraintFailedId
	MissingArgumentId
	DependencyViolationId
	GroupViolationId
	InvalidDeclarationId
	AmbiguousSubcommandId
	InvalidRunModeId
	ConfigLoadFailedId
	StateStoreFailedId
)

type (
	// MarkdownMsg is markdown help text.
	MarkdownMsg string

	// Issue is a catalog entry explaining one failure class.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

// Id returns the catalog id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw help text.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the help text with glamour. stylePath names a glamour
// style such as "dark", "light" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	conversionFailedIssue = &Issue{
		id: ConversionFailedId,
		mdMsg: `
# A value could not be converted!

An argument received input that does not fit its type.

## Things you can try:
- Check the type column of the command help:
~~~
$ <command> --help
~~~
- Numbers accept plain digits, e.g. ` + "`--jobs 8`" + `
- Dates use ISO form, e.g. ` + "`2024-05-01`" + ` or ` + "`2024-05-01T10:00:00Z`" + `
- Lists, sets and dicts use literal syntax:
~~~
--tags '["a", "b"]'
--labels '{"env" = "prod"}'
~~~`,
	}

	constraintFailedIssue = &Issue{
		id: ConstraintFailedId,
		mdMsg: `
# A value is out of range!

The input converted fine but failed one of the argument's constraints
(choices, bounds, or lengths).

## Things you can try:
- Read the constraints column of the command help
- Pick one of the listed choices exactly as shown`,
	}

	missingArgumentIssue = &Issue{
		id: MissingArgumentId,
		mdMsg: `
# A required argument is missing!

Arguments without a default that are not nullable must be given.

## Things you can try:
- Pass the flag named in the error
- Run the command in form mode to be prompted:
~~~
$ argtree demo --mode gui
~~~`,
	}

	dependencyViolationIssue = &Issue{
		id: DependencyViolationId,
		mdMsg: `
# An argument does not match the arguments it depends on!

A dependent argument must be given when the arguments it depends on are
truthy, and left unset when they are not.

## Things you can try:
- Pass the dependent argument together with the arguments named in the error
- Leave it unset when those arguments are not given`,
	}

	groupViolationIssue = &Issue{
		id: GroupViolationId,
		mdMsg: `
# Arguments were combined in a way that is not allowed!

- An **inclusive** group needs all of its members.
- An **exclusive** group allows at most one of its members.

## Things you can try:
- Provide the missing members listed in the error
- Drop all but one of the conflicting members`,
	}

	invalidDeclarationIssue = &Issue{
		id: InvalidDeclarationId,
		mdMsg: `
# The command tree is declared incorrectly!

This is a bug in the program declaring the commands, not in your input.

## Common causes:
- Two arguments or subcommands share a name or alias
- A name is not a valid identifier, or uses the reserved ` + "`help`/`h`" + `
- An argument was added to two commands
- A group can never be satisfied because of its members' defaults`,
	}

	ambiguousSubcommandIssue = &Issue{
		id: AmbiguousSubcommandId,
		mdMsg: `
# No single subcommand was chosen!

Programmatic input must name exactly one subcommand at each level, as a
nested key:
~~~toml
[build]
target = "web"
~~~`,
	}

	invalidRunModeIssue = &Issue{
		id: InvalidRunModeId,
		mdMsg: `
# Unknown run mode!

## Valid modes:
- ` + "`smart`" + ` picks one from the input
- ` + "`commandline`" + ` (alias ` + "`cli`" + `)
- ` + "`gui`" + ` (alias ` + "`form`" + `)
- ` + "`programmatic`" + `

~~~cue
default_run_mode: "smart"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The config file exists but could not be read or does not match the schema.

## Things you can try:
- Show the effective configuration and its location:
~~~
$ argtree config show
$ argtree config path
~~~
- Regenerate a default file:
~~~
$ argtree config init
~~~`,
	}

	stateStoreFailedIssue = &Issue{
		id: StateStoreFailedId,
		mdMsg: `
# Saved state could not be used!

argtree keeps the latest accepted values of each command as TOML files in
the state directory.

## Things you can try:
- Inspect the saved values:
~~~
$ argtree state show
~~~
- Discard them:
~~~
$ argtree state clear
~~~
- Point ` + "`state_dir`" + ` in the config to a writable directory`,
	}

	issues = map[Id]*Issue{
		conversionFailedIssue.Id():    conversionFailedIssue,
		constraintFailedIssue.Id():    constraintFailedIssue,
		missingArgumentIssue.Id():     missingArgumentIssue,
		dependencyViolationIssue.Id(): dependencyViolationIssue,
		groupViolationIssue.Id():      groupViolationIssue,
		invalidDeclarationIssue.Id():  invalidDeclarationIssue,
		ambiguousSubcommandIssue.Id(): ambiguousSubcommandIssue,
		invalidRunModeIssue.Id():      invalidRunModeIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		stateStoreFailedIssue.Id():    stateStoreFailedIssue,
	}

	// sentinels maps error classes to catalog entries, most specific first.
	sentinels = []struct {
		err error
		id  Id
	}{
		{validate.ErrConstraint, ConstraintFailedId},
		{validate.ErrConversion, ConversionFailedId},
		{validate.ErrNullValue, ConversionFailedId},
		{command.ErrMissingArgument, MissingArgumentId},
		{command.ErrDependencyViolation, DependencyViolationId},
		{command.ErrGroupViolation, GroupViolationId},
		{command.ErrGroupLogic, InvalidDeclarationId},
		{command.ErrNameCollision, InvalidDeclarationId},
		{command.ErrInvalidIdentifier, InvalidDeclarationId},
		{command.ErrAlreadyBound, InvalidDeclarationId},
		{validate.ErrDeclaration, InvalidDeclarationId},
		{validate.ErrInvalidKind, InvalidDeclarationId},
		{hierarchy.ErrAmbiguousSubcommand, AmbiguousSubcommandId},
		{command.ErrInvalidRunMode, InvalidRunModeId},
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Classify returns the catalog entry explaining err, or nil when err is not
// a known failure class. An ActionableError linked to an entry wins over
// the classes of its cause.
func Classify(err error) *Issue {
	if err == nil {
		return nil
	}
	var ae *ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return Get(ae.Issue)
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return Get(s.id)
		}
	}
	return nil
}
