// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/hierarchy"
	"github.com/invowk/argtree/pkg/validate"
)

func TestCatalogIsComplete(t *testing.T) {
	values := Values()
	if len(values) != int(StateStoreFailedId) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), StateStoreFailedId)
	}
	for i, is := range values {
		if is.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, is.Id(), i+1)
		}
		if strings.TrimSpace(string(is.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no markdown", is.Id())
		}
	}
	if Get(Id(0)) != nil {
		t.Error("Get(0) returned an issue")
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(StateStoreFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "notty" {
		t.Errorf("style = %q, want notty", gotStyle)
	}
	if !strings.Contains(rendered, "argtree state clear") {
		t.Errorf("Render() output missing suggestion:\n%s", rendered)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Id
	}{
		{name: "conversion", err: fmt.Errorf("argument %q: %w", "jobs", &validate.ConversionError{Value: "x", Target: "Int"}), want: ConversionFailedId},
		{name: "constraint", err: &validate.ConstraintError{Value: 0, Condition: "val >= 1"}, want: ConstraintFailedId},
		{name: "missing", err: &command.MissingArgumentError{Command: "root", Argument: "name"}, want: MissingArgumentId},
		{name: "dependency", err: &command.DependencyViolationError{Argument: "user"}, want: DependencyViolationId},
		{name: "group", err: &command.GroupViolationError{Group: "g"}, want: GroupViolationId},
		{name: "collision", err: &command.NameCollisionError{Handler: "root", Name: "x"}, want: InvalidDeclarationId},
		{name: "ambiguous", err: &hierarchy.AmbiguousSubcommandError{Command: "root"}, want: AmbiguousSubcommandId},
		{name: "run mode", err: fmt.Errorf("config: %w", command.ErrInvalidRunMode), want: InvalidRunModeId},
		{
			name: "actionable wins",
			err: NewErrorContext().WithOperation("load saved state").WithIssue(StateStoreFailedId).
				Wrap(&validate.ConversionError{Value: "x", Target: "Int"}).BuildError(),
			want: StateStoreFailedId,
		},
	}
	for _, tt := range tests {
		got := Classify(tt.err)
		if got == nil || got.Id() != tt.want {
			t.Errorf("%s: Classify() = %v, want id %d", tt.name, got, tt.want)
		}
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) returned an issue")
	}
	if Classify(errors.New("boom")) != nil {
		t.Error("Classify(unknown) returned an issue")
	}
	if Classify(hierarchy.ErrFormCancelled) != nil {
		t.Error("Classify(form cancelled) returned an issue")
	}
}
