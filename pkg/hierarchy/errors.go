// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAmbiguousSubcommand is returned when a namespace selects no
	// subcommand where one is required, or selects more than one.
	ErrAmbiguousSubcommand = errors.New("ambiguous subcommand")
	// ErrHelpRequested is returned when command-line parsing printed help
	// instead of choosing a command.
	ErrHelpRequested = errors.New("help requested")
	// ErrFormCancelled is returned when the user cancels a form.
	ErrFormCancelled = errors.New("form cancelled")
)

// AmbiguousSubcommandError is returned by ChooseNode.
// It wraps ErrAmbiguousSubcommand for errors.Is() compatibility.
type AmbiguousSubcommandError struct {
	// Command is the dotted path of the node whose subcommand was ambiguous.
	Command string
	// Options are the subcommand names available at that node.
	Options []string
	// Found are the subcommand names present in the namespace.
	Found []string
}

// Error implements the error interface for AmbiguousSubcommandError.
func (e *AmbiguousSubcommandError) Error() string {
	if len(e.Found) == 0 {
		return fmt.Sprintf("%s: no subcommand chosen; expected one of: %s", e.Command, strings.Join(e.Options, ", "))
	}
	return fmt.Sprintf("%s: only one subcommand may be chosen, got: %s", e.Command, strings.Join(e.Found, ", "))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *AmbiguousSubcommandError) Unwrap() error { return ErrAmbiguousSubcommand }
