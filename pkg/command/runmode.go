// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RunModeSmart picks programmatic, form or command-line input from context.
	RunModeSmart RunMode = "smart"
	// RunModeCommandLine parses command-line tokens.
	RunModeCommandLine RunMode = "commandline"
	// RunModeGUI shows an interactive form.
	RunModeGUI RunMode = "gui"
	// RunModeProgrammatic applies supplied values directly.
	RunModeProgrammatic RunMode = "programmatic"
)

// ErrInvalidRunMode is returned when a RunMode value is not one of the defined modes.
var ErrInvalidRunMode = errors.New("invalid run mode")

type (
	// RunMode selects how a tree obtains its values.
	RunMode string

	// InvalidRunModeError is returned when a RunMode value is not recognized.
	// It wraps ErrInvalidRunMode for errors.Is() compatibility.
	InvalidRunModeError struct {
		Value RunMode
	}
)

// Error implements the error interface for InvalidRunModeError.
func (e *InvalidRunModeError) Error() string {
	return fmt.Sprintf("invalid run mode %q (valid: smart, commandline, gui, programmatic)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRunModeError) Unwrap() error {
	return ErrInvalidRunMode
}

// IsValid returns whether the RunMode is one of the defined modes,
// and a list of validation errors if it is not.
// The zero value ("") is valid and means RunModeSmart.
func (m RunMode) IsValid() (bool, []error) {
	switch m {
	case RunModeSmart, RunModeCommandLine, RunModeGUI, RunModeProgrammatic, "":
		return true, nil
	default:
		return false, []error{&InvalidRunModeError{Value: m}}
	}
}

// String returns the string representation of the RunMode.
func (m RunMode) String() string {
	if m == "" {
		return string(RunModeSmart)
	}
	return string(m)
}

// ParseRunMode parses a run mode name case-insensitively. "cli" and "form"
// are accepted as aliases.
func ParseRunMode(s string) (RunMode, error) {
	m := RunMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "cli":
		return RunModeCommandLine, nil
	case "form":
		return RunModeGUI, nil
	case "":
		return RunModeSmart, nil
	}
	if ok, errs := m.IsValid(); !ok {
		return "", errs[0]
	}
	return m, nil
}
