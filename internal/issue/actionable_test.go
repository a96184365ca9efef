// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load config"},
			expected: "failed to load config",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load config", Resource: "./config.cue"},
			expected: "failed to load config: ./config.cue",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "save state",
				Resource:  "release.build",
				Cause:     errors.New("read-only file system"),
			},
			expected: "failed to save state: release.build: read-only file system",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	inner := errors.New("permission denied")
	err := NewErrorContext().
		WithOperation("save state").
		WithResource("/var/lib/argtree").
		WithSuggestion("Check directory permissions").
		Wrap(inner).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "\n  • Check directory permissions") {
		t.Errorf("Format(false) missing suggestion:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) included the error chain:\n%s", short)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:\n  1. permission denied") {
		t.Errorf("Format(true) missing chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation returned an error")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}

	cause := errors.New("boom")
	err := NewErrorContext().WithOperation("load config").WithIssue(ConfigLoadFailedId).Wrap(cause).BuildError()
	if !errors.Is(err, cause) {
		t.Error("BuildError() does not unwrap to the cause")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Issue != ConfigLoadFailedId {
		t.Errorf("BuildError() = %#v", err)
	}

	if WrapWithContext(nil, "x", "y") != nil {
		t.Error("WrapWithContext(nil) returned an error")
	}
	if got := WrapWithContext(cause, "read", "file").Error(); got != "failed to read: file: boom" {
		t.Errorf("WrapWithContext().Error() = %q", got)
	}
}

func TestErrorContext_WithSuggestions(t *testing.T) {
	ae := NewErrorContext().
		WithOperation("load configuration").
		WithSuggestion("Check the file syntax").
		WithSuggestions("Run 'argtree config dump'", "Remove the file to use defaults").
		WithSuggestions().
		Build()

	want := []string{"Check the file syntax", "Run 'argtree config dump'", "Remove the file to use defaults"}
	if len(ae.Suggestions) != len(want) {
		t.Fatalf("Suggestions = %q, want %q", ae.Suggestions, want)
	}
	for i := range want {
		if ae.Suggestions[i] != want[i] {
			t.Errorf("Suggestions[%d] = %q, want %q", i, ae.Suggestions[i], want[i])
		}
	}
}
