// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConversion is the sentinel wrapped by every ConversionError.
	ErrConversion = errors.New("conversion failed")
	// ErrConstraint is the sentinel wrapped by every ConstraintError.
	ErrConstraint = errors.New("constraint violated")
	// ErrNullValue is the cause reported when a non-nullable validator receives null.
	ErrNullValue = errors.New("null value not allowed")
	// ErrDeclaration is returned by Validator.Err when a builder method was misused.
	ErrDeclaration = errors.New("invalid validator declaration")
)

type (
	// ConversionError is returned when raw input cannot be coerced to a
	// validator's kind. It wraps ErrConversion and the underlying cause.
	ConversionError struct {
		// Value is the raw input that failed to convert.
		Value any
		// Target is the type name of the validator, e.g. "List[Int]".
		Target string
		// Nullable and Strict record the validator mode at the time of failure.
		Nullable bool
		Strict   bool
		// Cause is the underlying parse or coercion failure (optional).
		Cause error
	}

	// ConstraintError is returned when a converted value is not one of the
	// validator's choices or fails one of its conditions.
	// It wraps ErrConstraint for errors.Is() compatibility.
	ConstraintError struct {
		// Value is the converted value that was rejected.
		Value any
		// Condition names the failed condition; empty for a choices failure.
		Condition string
		// Choices lists the allowed values for a choices failure.
		Choices []any
	}
)

// Error implements the error interface for ConversionError.
func (e *ConversionError) Error() string {
	mode := "permissive"
	if e.Strict {
		mode = "strict"
	}
	null := "non-nullable"
	if e.Nullable {
		null = "nullable"
	}
	msg := fmt.Sprintf("failed %s, %s conversion of %s (%T) to %s", mode, null, FormatLiteral(e.Value), e.Value, e.Target)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the sentinel and the cause for errors.Is() and errors.As().
func (e *ConversionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Cause}
}

// Error implements the error interface for ConstraintError.
func (e *ConstraintError) Error() string {
	if e.Condition == "" {
		parts := make([]string, len(e.Choices))
		for i, c := range e.Choices {
			parts[i] = FormatLiteral(c)
		}
		return fmt.Sprintf("value %s is not a valid choice; valid choices are: %s", FormatLiteral(e.Value), strings.Join(parts, ", "))
	}
	return fmt.Sprintf("value %s does not satisfy the condition %q", FormatLiteral(e.Value), e.Condition)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ConstraintError) Unwrap() error {
	return ErrConstraint
}
