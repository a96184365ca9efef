// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNameCollision is returned when a name or flag is declared twice on one handler.
	ErrNameCollision = errors.New("name collision")
	// ErrInvalidIdentifier is returned for names that are not identifiers or are reserved.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrAlreadyBound is returned when an argument, group or command is attached twice.
	ErrAlreadyBound = errors.New("already bound")
	// ErrGroupLogic is returned when a group's constraint can never be violated.
	ErrGroupLogic = errors.New("group logic is always satisfied")
	// ErrGroupViolation is returned when supplied values break a group constraint.
	ErrGroupViolation = errors.New("group constraint violated")
	// ErrDependencyViolation is returned when an argument is set without the arguments it depends on.
	ErrDependencyViolation = errors.New("dependency violated")
	// ErrMissingArgument is returned when a required argument has no value.
	ErrMissingArgument = errors.New("missing required argument")
)

type (
	// NameCollisionError is returned when a name is declared twice on one handler.
	// It wraps ErrNameCollision for errors.Is() compatibility.
	NameCollisionError struct {
		Handler string
		Name    string
	}

	// InvalidIdentifierError is returned for an invalid or reserved name.
	// It wraps ErrInvalidIdentifier for errors.Is() compatibility.
	InvalidIdentifierError struct {
		Name   string
		Reason string
	}

	// AlreadyBoundError is returned when a declaration already has an owner.
	// It wraps ErrAlreadyBound for errors.Is() compatibility.
	AlreadyBoundError struct {
		Name  string
		Owner string
	}

	// GroupLogicError is returned by pre-validation when a group is decided
	// by its members' defaults and nullability alone.
	GroupLogicError struct {
		Group   string
		Mode    GroupMode
		Members []string
	}

	// GroupViolationError is returned when a group's constraint fails.
	GroupViolationError struct {
		Group    string
		Mode     GroupMode
		Provided []string
		Missing  []string
	}

	// DependencyViolationError is returned when a set argument's dependency
	// is not satisfied.
	DependencyViolationError struct {
		Argument   string
		Combinator Combinator
		On         []string
		// Provided is true when a value was given although the
		// dependencies are not truthy.
		Provided bool
	}

	// MissingArgumentError is returned when a required argument has no value.
	MissingArgumentError struct {
		Command  string
		Argument string
	}
)

// Error implements the error interface for NameCollisionError.
func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("%q is already declared on %q", e.Name, e.Handler)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *NameCollisionError) Unwrap() error { return ErrNameCollision }

// Error implements the error interface for InvalidIdentifierError.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// Error implements the error interface for AlreadyBoundError.
func (e *AlreadyBoundError) Error() string {
	return fmt.Sprintf("%q is already bound to %q", e.Name, e.Owner)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *AlreadyBoundError) Unwrap() error { return ErrAlreadyBound }

// Error implements the error interface for GroupLogicError.
func (e *GroupLogicError) Error() string {
	switch e.Mode {
	case GroupExclusive:
		return fmt.Sprintf("exclusive group %q can never be satisfied: %s always have values", e.Group, strings.Join(e.Members, ", "))
	default:
		return fmt.Sprintf("inclusive group %q can never be violated: every member (%s) has a default or may be null", e.Group, strings.Join(e.Members, ", "))
	}
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *GroupLogicError) Unwrap() error { return ErrGroupLogic }

// Error implements the error interface for GroupViolationError.
func (e *GroupViolationError) Error() string {
	switch e.Mode {
	case GroupExclusive:
		return fmt.Sprintf("only one of the arguments in exclusive group %q may be given, got %s", e.Group, strings.Join(e.Provided, ", "))
	default:
		return fmt.Sprintf("inclusive group %q needs all of its members: %s missing", e.Group, strings.Join(e.Missing, ", "))
	}
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *GroupViolationError) Unwrap() error { return ErrGroupViolation }

// Error implements the error interface for DependencyViolationError.
func (e *DependencyViolationError) Error() string {
	if e.Provided {
		return fmt.Sprintf("argument %q may not be given unless %s of %s are truthy", e.Argument, e.Combinator, strings.Join(e.On, ", "))
	}
	return fmt.Sprintf("argument %q must be given when %s of %s are truthy", e.Argument, e.Combinator, strings.Join(e.On, ", "))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DependencyViolationError) Unwrap() error { return ErrDependencyViolation }

// Error implements the error interface for MissingArgumentError.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: argument --%s is required", e.Command, e.Argument)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *MissingArgumentError) Unwrap() error { return ErrMissingArgument }
