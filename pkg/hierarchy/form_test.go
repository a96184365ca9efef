// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/argtree/pkg/command"
)

type (
	stubWidget struct {
		state   any
		tooltip string
	}

	// scriptedRenderer plays one scripted submission per Show call and
	// cancels once the script runs out.
	scriptedRenderer struct {
		rounds   []func(root *Page)
		warnings [][]string
	}
)

func (w *stubWidget) State() any { return w.state }
func (w *stubWidget) SetState(v any) { w.state = v }
func (w *stubWidget) Tooltip() string { return w.tooltip }

func (r *scriptedRenderer) NewWidget(arg *command.Argument) Widget {
	return &stubWidget{tooltip: arg.Info()}
}

func (r *scriptedRenderer) Show(_ context.Context, root *Page, warnings []string) error {
	r.warnings = append(r.warnings, warnings)
	if len(r.rounds) == 0 {
		return ErrFormCancelled
	}
	round := r.rounds[0]
	r.rounds = r.rounds[1:]
	round(root)
	return nil
}

func fieldWidget(t *testing.T, p *Page, name string) Widget {
	t.Helper()
	for _, f := range p.Fields {
		if f.Argument.Name() == name {
			return f.Widget
		}
	}
	t.Fatalf("page %s has no field %q", p.Path, name)
	return nil
}

func TestNewFormInitializesFromDefaults(t *testing.T) {
	t.Parallel()

	h := Build(buildTestTree(t))
	f := h.NewForm(&scriptedRenderer{})

	build, ok := f.Root().Child("build")
	if !ok {
		t.Fatal("root page has no build child")
	}
	if got := fieldWidget(t, build, "jobs").State(); got != 4 {
		t.Errorf("jobs widget = %v, want 4", got)
	}
	unit := f.Page(3)
	if got := fieldWidget(t, unit, "pattern").State(); got != nil {
		t.Errorf("pattern widget = %v, want nil", got)
	}
	if f.Current() != h.Root() {
		t.Errorf("Current() = %d, want root", f.Current())
	}
}

func TestFormRunRetriesUntilValid(t *testing.T) {
	t.Parallel()

	h := Build(buildTestTree(t))
	r := &scriptedRenderer{rounds: []func(*Page){
		func(root *Page) {
			root.Selected = "build"
			build, _ := root.Child("build")
			fieldWidget(t, build, "jobs").SetState("lots")
			fieldWidget(t, build, "target").SetState("web")
		},
		func(root *Page) {
			build, _ := root.Child("build")
			fieldWidget(t, build, "jobs").SetState("8")
		},
	}}
	var hooked [][]string
	f := h.NewForm(r, WithWarningHook(func(w []string) { hooked = append(hooked, w) }))

	id, err := f.Run(t.Context())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := h.PathString(id); got != "root.build" {
		t.Errorf("chosen = %s, want root.build", got)
	}
	if h.ActiveLeaf() != id {
		t.Error("chosen node not selected")
	}
	if got := argValue(t, h, "root.build", "jobs"); got != 8 {
		t.Errorf("jobs = %v, want 8", got)
	}
	if got := argValue(t, h, "root.build", "target"); got != "web" {
		t.Errorf("target = %v, want web", got)
	}

	if len(r.warnings) != 2 || len(r.warnings[0]) != 0 {
		t.Fatalf("Show warnings = %v", r.warnings)
	}
	if len(r.warnings[1]) != 1 || !strings.HasPrefix(r.warnings[1][0], "WARNING [root.build] (jobs) - ") {
		t.Errorf("second round warnings = %v", r.warnings[1])
	}
	if diff := cmp.Diff(r.warnings[1:], hooked); diff != "" {
		t.Errorf("warning hook mismatch (-want +got):\n%s", diff)
	}
}

func TestFormApplyNamespaceAndSelectPath(t *testing.T) {
	t.Parallel()

	h := Build(buildTestTree(t))
	f := h.NewForm(&scriptedRenderer{})
	f.ApplyNamespace(3, command.Namespace{
		"dry_run": true,
		"test":    map[string]any{"verbose": true, "unit": map[string]any{"pattern": "Fast*"}},
	})
	f.SelectPath(3)

	if f.Current() != 3 {
		t.Errorf("Current() = %d, want 3", f.Current())
	}
	if got := fieldWidget(t, f.Page(3), "pattern").State(); got != "Fast*" {
		t.Errorf("pattern widget = %v", got)
	}
	if warnings := f.Sync(3); len(warnings) != 0 {
		t.Fatalf("Sync() warnings = %v", warnings)
	}
	want := command.Namespace{
		"dry_run": true,
		"test":    command.Namespace{"verbose": true, "unit": command.Namespace{"pattern": "Fast*"}},
	}
	if diff := cmp.Diff(want, h.Assemble(3)); diff != "" {
		t.Errorf("Assemble() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormResetDefaults(t *testing.T) {
	t.Parallel()

	h := Build(buildTestTree(t))
	f := h.NewForm(&scriptedRenderer{})
	f.ApplyNamespace(3, command.Namespace{
		"dry_run": true,
		"test":    command.Namespace{"unit": command.Namespace{"pattern": "Fast*"}},
	})
	f.SelectPath(3)
	f.ResetDefaults()

	if f.Current() != h.Root() {
		t.Errorf("Current() = %d after reset, want root", f.Current())
	}
	if got := fieldWidget(t, f.Root(), "dry_run").State(); got != false {
		t.Errorf("dry_run widget = %v, want false", got)
	}
	if got := fieldWidget(t, f.Page(3), "pattern").State(); got != nil {
		t.Errorf("pattern widget = %v, want nil", got)
	}
}

func TestFormRunCancelled(t *testing.T) {
	t.Parallel()

	h := Build(buildTestTree(t))
	_, err := h.NewForm(&scriptedRenderer{}).Run(t.Context())
	if !errors.Is(err, ErrFormCancelled) {
		t.Errorf("Run() error = %v, want ErrFormCancelled", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := h.NewForm(&scriptedRenderer{}).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() with cancelled context error = %v", err)
	}
}
