// SPDX-License-Identifier: MPL-2.0

package form

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/argtree/internal/config"
	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/hierarchy"
)

func testRenderer() *Renderer {
	return New(WithAccessible(true), WithInput(strings.NewReader("")), WithOutput(&bytes.Buffer{}))
}

func declare(t *testing.T, fn func(b *command.Builder)) *command.Command {
	t.Helper()
	root, err := command.Declare("release", fn)
	if err != nil {
		t.Fatalf("Declare() error: %v", err)
	}
	return root
}

func TestNewWidgetKinds(t *testing.T) {
	t.Parallel()

	var flag, maybe, level, name *command.Argument
	declare(t, func(b *command.Builder) {
		flag = b.Bool("force", command.Default(false))
		maybe = b.Bool("sign", command.Nullable())
		level = b.String("level", command.Choices("debug", "info"), command.Default("info"))
		name = b.String("name", command.Nullable())
	})

	r := testRenderer()
	tests := []struct {
		arg  *command.Argument
		want any
	}{
		{flag, &confirmWidget{}},
		{maybe, &textWidget{}},
		{level, &selectWidget{}},
		{name, &textWidget{}},
	}
	for _, tt := range tests {
		got := r.NewWidget(tt.arg)
		if gotType, wantType := typeName(got), typeName(tt.want); gotType != wantType {
			t.Errorf("NewWidget(%s) = %s, want %s", tt.arg.Name(), gotType, wantType)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *confirmWidget:
		return "confirm"
	case *selectWidget:
		return "select"
	case *textWidget:
		return "text"
	default:
		return "unknown"
	}
}

func TestTextWidgetState(t *testing.T) {
	t.Parallel()

	var target, jobs, tags *command.Argument
	declare(t, func(b *command.Builder) {
		target = b.String("target", command.Default("all"))
		jobs = b.Int("jobs", command.Nullable())
		tags = b.List("tags", "", command.Nullable())
	})

	tw := newTextWidget(target)
	tw.SetState("")
	if got := tw.State(); got != "" {
		t.Errorf("empty text for defaulted string = %#v, want empty string", got)
	}

	jw := newTextWidget(jobs)
	jw.SetState(8)
	if got := jw.State(); got != "8" {
		t.Errorf("jobs state = %#v, want \"8\"", got)
	}
	jw.SetState(nil)
	if got := jw.State(); got != nil {
		t.Errorf("cleared jobs state = %#v, want nil", got)
	}

	lw := newTextWidget(tags)
	lw.SetState([]any{"a", "b"})
	if got := lw.State(); got != `["a", "b"]` {
		t.Errorf("tags state = %#v", got)
	}
	if err := tags.SetValue(lw.State()); err != nil {
		t.Fatalf("tags literal does not convert back: %v", err)
	}
	if diff := cmp.Diff([]any{"a", "b"}, tags.Value()); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestConfirmAndSelectWidgets(t *testing.T) {
	t.Parallel()

	var force, level *command.Argument
	declare(t, func(b *command.Builder) {
		force = b.Bool("force", command.Default(false))
		level = b.Int("level", command.Choices(1, 2, 3), command.Nullable())
	})

	cw := newConfirmWidget(force)
	cw.SetState("yes")
	if cw.State() != true {
		t.Errorf("confirm state = %v, want true", cw.State())
	}
	cw.SetState(false)
	if cw.State() != false {
		t.Errorf("confirm state = %v, want false", cw.State())
	}

	sw := newSelectWidget(level)
	sw.SetState(2)
	if sw.State() != 2 {
		t.Errorf("select state = %#v, want 2", sw.State())
	}
	sw.SetState(9)
	if sw.State() != nil {
		t.Errorf("select state for unknown choice = %#v, want nil", sw.State())
	}
	if !strings.Contains(sw.Tooltip(), "Int?") {
		t.Errorf("Tooltip() = %q, want nullable type", sw.Tooltip())
	}
}

func TestLevelForm(t *testing.T) {
	t.Parallel()

	root := declare(t, func(b *command.Builder) {
		b.Subcommand("build", func(b *command.Builder) {
			b.String("target", command.Default("all"))
		})
		b.Subcommand("empty", nil)
	})
	h := hierarchy.Build(root)
	r := testRenderer()
	f := h.NewForm(r)

	if r.levelForm(f.Root(), nil) == nil {
		t.Error("root with subcommands has no form")
	}
	build, _ := f.Root().Child("build")
	if r.levelForm(build, nil) == nil {
		t.Error("build with arguments has no form")
	}
	empty, _ := f.Root().Child("empty")
	if r.levelForm(empty, nil) != nil {
		t.Error("empty leaf produced a form")
	}
	if r.levelForm(empty, []string{"WARNING [release] (x) - bad"}) == nil {
		t.Error("warnings on an empty leaf were dropped")
	}
}

func TestHuhTheme(t *testing.T) {
	t.Parallel()

	for _, theme := range []config.Theme{config.ThemeDefault, config.ThemeCharm, config.ThemeDracula, config.ThemeCatppuccin, config.ThemeBase16, ""} {
		if huhTheme(theme) == nil {
			t.Errorf("huhTheme(%q) = nil", theme)
		}
	}
	if !testRenderer().Accessible() {
		t.Error("WithAccessible(true) ignored")
	}
}
