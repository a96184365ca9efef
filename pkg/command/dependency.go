// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"
	"strings"
)

const (
	// AnyOf is satisfied when at least one dependency is truthy.
	AnyOf Combinator = iota
	// AllOf is satisfied when every dependency is truthy.
	AllOf
)

type (
	// Combinator selects how a Dependency combines its arguments.
	Combinator int

	// Dependency makes one argument valid only alongside others.
	Dependency struct {
		target     *Argument
		combinator Combinator
		on         []*Argument
	}
)

// String returns "any" or "all".
func (c Combinator) String() string {
	if c == AllOf {
		return "all"
	}
	return "any"
}

func newDependency(target *Argument, combinator Combinator, on []*Argument) (*Dependency, error) {
	if combinator != AnyOf && combinator != AllOf {
		return nil, fmt.Errorf("argument %q: invalid dependency combinator %d", target.name, combinator)
	}
	for _, a := range on {
		if a == nil {
			return nil, fmt.Errorf("argument %q: nil dependency", target.name)
		}
		if a == target {
			return nil, fmt.Errorf("argument %q cannot depend on itself", target.name)
		}
	}
	return &Dependency{target: target, combinator: combinator, on: on}, nil
}

// Target returns the dependent argument.
func (d *Dependency) Target() *Argument { return d.target }

// Combinator returns how the dependencies combine.
func (d *Dependency) Combinator() Combinator { return d.combinator }

// On returns the arguments depended on.
func (d *Dependency) On() []*Argument {
	out := make([]*Argument, len(d.on))
	copy(out, d.on)
	return out
}

// Satisfied reports whether the dependencies hold, using truthiness.
func (d *Dependency) Satisfied() bool {
	if d.combinator == AllOf {
		for _, a := range d.on {
			if !a.Truthy() {
				return false
			}
		}
		return true
	}
	for _, a := range d.on {
		if a.Truthy() {
			return true
		}
	}
	return false
}

// Validate returns a DependencyViolationError when the target's set state
// disagrees with Satisfied: a satisfied dependency requires a value and an
// unsatisfied one forbids it.
func (d *Dependency) Validate() error {
	satisfied := d.Satisfied()
	if d.target.IsSet() == satisfied {
		return nil
	}
	return &DependencyViolationError{
		Argument:   d.target.name,
		Combinator: d.combinator,
		On:         d.names(),
		Provided:   !satisfied,
	}
}

func (d *Dependency) names() []string {
	names := make([]string, len(d.on))
	for i, a := range d.on {
		names[i] = a.name
	}
	return names
}

// String describes the dependency, e.g. "retries [any]".
func (d *Dependency) String() string {
	return fmt.Sprintf("%s [%s]", strings.Join(d.names(), ", "), d.combinator)
}
