// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// GroupPlain only organizes arguments.
	GroupPlain GroupMode = iota
	// GroupInclusive requires every member. An argument that may be null
	// counts as given.
	GroupInclusive
	// GroupExclusive allows at most one of its members.
	GroupExclusive
)

type (
	// GroupMode selects the constraint a Group enforces.
	GroupMode int

	// Group bundles arguments of one command under a shared constraint.
	// Group arguments are attached to the owning command as well, so group
	// names and argument names share the command's namespace.
	Group struct {
		handler

		mode   GroupMode
		owner  *Command
		parent *Group
		groups []*Group
	}
)

// String returns the mode name.
func (m GroupMode) String() string {
	switch m {
	case GroupInclusive:
		return "inclusive"
	case GroupExclusive:
		return "exclusive"
	default:
		return "plain"
	}
}

// NewGroup declares a group.
func NewGroup(name string, mode GroupMode) (*Group, error) {
	if err := checkIdentifier(name); err != nil {
		return nil, err
	}
	if mode < GroupPlain || mode > GroupExclusive {
		return nil, fmt.Errorf("group %q: invalid mode %d", name, mode)
	}
	return &Group{handler: handler{name: name}, mode: mode}, nil
}

// Mode returns the group mode.
func (g *Group) Mode() GroupMode { return g.mode }

// Command returns the command the group is attached to, or nil.
func (g *Group) Command() *Command { return g.owner }

// Parent returns the enclosing group, or nil.
func (g *Group) Parent() *Group { return g.parent }

// Groups returns the nested groups in declaration order.
func (g *Group) Groups() []*Group { return slices.Clone(g.groups) }

func (g *Group) ownerName() string {
	if g.parent != nil {
		return g.parent.name
	}
	if g.owner != nil {
		return g.owner.name
	}
	return ""
}

// AddArgument adds arg to the group, and to the owning command when the
// group is already attached.
func (g *Group) AddArgument(arg *Argument) error {
	if arg == nil {
		return errors.New("nil argument")
	}
	if arg.owner != nil {
		return &AlreadyBoundError{Name: arg.name, Owner: arg.owner.name}
	}
	if arg.group != nil {
		return &AlreadyBoundError{Name: arg.name, Owner: arg.group.name}
	}
	if err := g.claim(arg.name); err != nil {
		return err
	}
	if g.owner != nil {
		if err := g.owner.attach(arg); err != nil {
			g.release(arg.name)
			return err
		}
	}
	arg.group = g
	g.arguments = append(g.arguments, arg)
	return nil
}

// AddGroup nests child inside g.
func (g *Group) AddGroup(child *Group) error {
	if child == nil {
		return errors.New("nil group")
	}
	if child == g || child.owner != nil || child.parent != nil {
		return &AlreadyBoundError{Name: child.name, Owner: child.ownerName()}
	}
	if err := g.claim(child.name); err != nil {
		return err
	}
	if g.owner != nil {
		if err := g.owner.attachGroup(child); err != nil {
			g.release(child.name)
			return err
		}
	}
	child.parent = g
	g.groups = append(g.groups, child)
	return nil
}

// IsSet reports whether any member has a value.
func (g *Group) IsSet() bool {
	set, _ := g.partition((*Argument).IsSet, (*Group).IsSet)
	return len(set) > 0
}

// AlwaysSet reports whether some member always has a value.
func (g *Group) AlwaysSet() bool {
	set, _ := g.partition((*Argument).AlwaysSet, (*Group).AlwaysSet)
	return len(set) > 0
}

// partition splits member names by the given predicates.
func (g *Group) partition(argPred func(*Argument) bool, groupPred func(*Group) bool) (yes, no []string) {
	for _, a := range g.arguments {
		if argPred(a) {
			yes = append(yes, a.name)
		} else {
			no = append(no, a.name)
		}
	}
	for _, sub := range g.groups {
		if groupPred(sub) {
			yes = append(yes, sub.name)
		} else {
			no = append(no, sub.name)
		}
	}
	return yes, no
}

// Satisfied reports whether g's constraint holds for the current values.
func (g *Group) Satisfied() bool { return g.Validate() == nil }

// alwaysSatisfied reports whether g holds whatever values are given.
func (g *Group) alwaysSatisfied() bool {
	switch g.mode {
	case GroupInclusive:
		_, other := g.partition((*Argument).alwaysSatisfied, (*Group).alwaysSatisfied)
		return len(other) == 0
	case GroupExclusive:
		return false
	}
	for _, sub := range g.groups {
		if !sub.alwaysSatisfied() {
			return false
		}
	}
	return true
}

// Validate checks nested groups and then g's own constraint against the
// current values.
func (g *Group) Validate() error {
	for _, sub := range g.groups {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	switch g.mode {
	case GroupInclusive:
		if _, missing := g.partition((*Argument).Satisfied, (*Group).Satisfied); len(missing) > 0 {
			set, _ := g.partition((*Argument).IsSet, (*Group).IsSet)
			return &GroupViolationError{Group: g.name, Mode: g.mode, Provided: set, Missing: missing}
		}
	case GroupExclusive:
		if set, _ := g.partition((*Argument).IsSet, (*Group).IsSet); len(set) > 1 {
			return &GroupViolationError{Group: g.name, Mode: g.mode, Provided: set}
		}
	}
	return nil
}

// PreValidate rejects groups decided by their declaration alone: an
// inclusive group whose members all have defaults or may be null, or an
// exclusive group with two or more members that have defaults.
func (g *Group) PreValidate() error {
	for _, sub := range g.groups {
		if err := sub.PreValidate(); err != nil {
			return err
		}
	}
	switch g.mode {
	case GroupInclusive:
		always, other := g.partition((*Argument).alwaysSatisfied, (*Group).alwaysSatisfied)
		if len(always) > 0 && len(other) == 0 {
			return &GroupLogicError{Group: g.name, Mode: g.mode, Members: always}
		}
	case GroupExclusive:
		if always, _ := g.partition((*Argument).AlwaysSet, (*Group).AlwaysSet); len(always) > 1 {
			return &GroupLogicError{Group: g.name, Mode: g.mode, Members: always}
		}
	}
	return nil
}
