// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/invowk/argtree/pkg/validate"
)

func mustArgument(t *testing.T, name string, typ any, opts ...ArgumentOption) *Argument {
	t.Helper()
	arg, err := NewArgument(name, typ, opts...)
	if err != nil {
		t.Fatalf("NewArgument(%q) error: %v", name, err)
	}
	return arg
}

func mustCommand(t *testing.T, name string, opts ...CommandOption) *Command {
	t.Helper()
	cmd, err := NewCommand(name, opts...)
	if err != nil {
		t.Fatalf("NewCommand(%q) error: %v", name, err)
	}
	return cmd
}

func TestShortformScanOrder(t *testing.T) {
	t.Parallel()

	cmd := mustCommand(t, "deploy")
	timeout := mustArgument(t, "timeout", 0, Default(30))
	tag := mustArgument(t, "tag", "", Nullable())
	for _, a := range []*Argument{timeout, tag} {
		if err := cmd.AddArgument(a); err != nil {
			t.Fatalf("AddArgument(%s) error: %v", a.Name(), err)
		}
	}

	if got := timeout.Shortform(); got != "t" {
		t.Errorf("timeout shortform = %q, want %q", got, "t")
	}
	if got := tag.Shortform(); got != "a" {
		t.Errorf("tag shortform = %q, want %q", got, "a")
	}
}

func TestShortformSkipsHelpAndExhaustion(t *testing.T) {
	t.Parallel()

	cmd := mustCommand(t, "root")
	host := mustArgument(t, "host", "", Nullable())
	ho := mustArgument(t, "ho", "", Nullable())
	hh := mustArgument(t, "hh", "", Nullable())
	for _, a := range []*Argument{host, ho, hh} {
		if err := cmd.AddArgument(a); err != nil {
			t.Fatal(err)
		}
	}
	if got := host.Shortform(); got != "o" {
		t.Errorf("host shortform = %q, want %q", got, "o")
	}
	if got := ho.Shortform(); got != "" {
		t.Errorf("ho shortform = %q, want none", got)
	}
	if got := hh.Shortform(); got != "" {
		t.Errorf("hh shortform = %q, want none", got)
	}
}

func TestExplicitShortAlias(t *testing.T) {
	t.Parallel()

	cmd := mustCommand(t, "root")
	verbose := mustArgument(t, "verbose", false, Default(false), Aliases("V", "loud"))
	if err := cmd.AddArgument(verbose); err != nil {
		t.Fatal(err)
	}
	if got := verbose.Shortform(); got != "V" {
		t.Errorf("shortform = %q, want explicit alias %q", got, "V")
	}
	if diff := cmp.Diff([]string{"-V", "--loud", "--verbose"}, verbose.Flags()); diff != "" {
		t.Errorf("Flags() mismatch (-want +got):\n%s", diff)
	}
}

func TestAliasesSortedShortestFirst(t *testing.T) {
	t.Parallel()

	cmd := mustCommand(t, "root")
	out := mustArgument(t, "output_file", "", Nullable(), Aliases("dest", "q", "out", "to"))
	if err := cmd.AddArgument(out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"q", "to", "out", "dest"}, out.Aliases()); diff != "" {
		t.Errorf("Aliases() mismatch (-want +got):\n%s", diff)
	}
	want := []string{"-q", "--to", "--out", "--dest", "--output_file"}
	if diff := cmp.Diff(want, out.Flags()); diff != "" {
		t.Errorf("Flags() mismatch (-want +got):\n%s", diff)
	}
}

func TestShortLettersAndLongNamesDoNotCollide(t *testing.T) {
	t.Parallel()

	cmd := mustCommand(t, "root")
	tag := mustArgument(t, "tag", "", Nullable())
	single := mustArgument(t, "t", 0, Nullable())
	x := mustArgument(t, "x", false, Default(false))
	for _, a := range []*Argument{tag, single, x} {
		if err := cmd.AddArgument(a); err != nil {
			t.Fatalf("AddArgument(%s) error: %v", a.Name(), err)
		}
	}

	tests := []struct {
		arg  *Argument
		want string
	}{
		{arg: tag, want: "t"},
		{arg: single, want: ""},
		{arg: x, want: "x"},
	}
	for _, tt := range tests {
		if got := tt.arg.Shortform(); got != tt.want {
			t.Errorf("%s shortform = %q, want %q", tt.arg.Name(), got, tt.want)
		}
	}
	if diff := cmp.Diff([]string{"-x", "--x"}, x.Flags()); diff != "" {
		t.Errorf("Flags() mismatch (-want +got):\n%s", diff)
	}

	if err := cmd.AddArgument(mustArgument(t, "other", "", Nullable(), Aliases("x"))); !errors.Is(err, ErrNameCollision) {
		t.Errorf("explicit short alias equal to an assigned letter: error = %v, want ErrNameCollision", err)
	}
	if err := cmd.AddArgument(mustArgument(t, "again", "", Nullable(), Aliases("tag"))); !errors.Is(err, ErrNameCollision) {
		t.Errorf("long alias equal to an argument name: error = %v, want ErrNameCollision", err)
	}
}

func TestReservedNames(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		opts []ArgumentOption
	}{
		{name: "help"},
		{name: "1abc"},
		{name: "with-dash"},
		{name: "ok", opts: []ArgumentOption{Aliases("h")}},
		{name: "ok", opts: []ArgumentOption{Aliases("--help")}},
	} {
		if _, err := NewArgument(tc.name, "", tc.opts...); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("NewArgument(%q) error = %v, want ErrInvalidIdentifier", tc.name, err)
		}
	}
}

func TestNameCollisions(t *testing.T) {
	t.Parallel()

	cmd := mustCommand(t, "root")
	if err := cmd.AddArgument(mustArgument(t, "target", "", Aliases("dest"))); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		add  func() error
	}{
		{name: "same argument name", add: func() error { return cmd.AddArgument(mustArgument(t, "target", "")) }},
		{name: "name equals alias", add: func() error { return cmd.AddArgument(mustArgument(t, "dest", "")) }},
		{name: "subcommand equals argument", add: func() error { return cmd.AddSubcommand(mustCommand(t, "target")) }},
		{name: "explicit short alias taken", add: func() error {
			return cmd.AddArgument(mustArgument(t, "other", "", Aliases("t")))
		}},
	}
	for _, tt := range tests {
		if err := tt.add(); !errors.Is(err, ErrNameCollision) {
			t.Errorf("%s: error = %v, want ErrNameCollision", tt.name, err)
		}
	}
}

func TestArgumentBoundOnce(t *testing.T) {
	t.Parallel()

	arg := mustArgument(t, "x", 0, Nullable())
	a, b := mustCommand(t, "a"), mustCommand(t, "b")
	if err := a.AddArgument(arg); err != nil {
		t.Fatal(err)
	}
	if err := b.AddArgument(arg); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("second AddArgument error = %v, want ErrAlreadyBound", err)
	}
	if arg.Command() != a {
		t.Error("argument owner changed")
	}

	if err := a.AddSubcommand(a); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("AddSubcommand(self) error = %v, want ErrAlreadyBound", err)
	}
}

func TestArgumentDefaultsAndRequired(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []ArgumentOption
		required bool
		value    any
	}{
		{name: "no default", required: true},
		{name: "default", opts: []ArgumentOption{Default("5")}, value: 5},
		{name: "nullable", opts: []ArgumentOption{Nullable()}},
		{name: "override", opts: []ArgumentOption{Default(1), Required(true)}, required: true, value: 1},
	}
	for _, tt := range tests {
		arg := mustArgument(t, "n", validate.KindInt, tt.opts...)
		if arg.Required() != tt.required {
			t.Errorf("%s: Required() = %v, want %v", tt.name, arg.Required(), tt.required)
		}
		if arg.Value() != tt.value {
			t.Errorf("%s: Value() = %v, want %v", tt.name, arg.Value(), tt.value)
		}
	}

	if _, err := NewArgument("n", 0, Default("x")); !errors.Is(err, validate.ErrConversion) {
		t.Errorf("bad default error = %v, want ErrConversion", err)
	}
}

func TestSetValueAndReset(t *testing.T) {
	t.Parallel()

	arg := mustArgument(t, "jobs", 0, Default(4), Constrain(func(v *validate.Validator) { v.MinValue(1) }))
	if err := arg.SetValue("8"); err != nil {
		t.Fatal(err)
	}
	if arg.Value() != 8 || !arg.Assigned() {
		t.Errorf("Value() = %v, Assigned() = %v", arg.Value(), arg.Assigned())
	}

	err := arg.SetValue("0")
	var constraintErr *validate.ConstraintError
	if !errors.As(err, &constraintErr) {
		t.Fatalf("SetValue(0) error = %v, want *validate.ConstraintError", err)
	}
	if arg.Value() != 8 {
		t.Errorf("failed SetValue changed the value to %v", arg.Value())
	}

	arg.Reset()
	if arg.Value() != 4 || arg.Assigned() {
		t.Errorf("after Reset Value() = %v, Assigned() = %v", arg.Value(), arg.Assigned())
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		v    any
		want bool
	}{
		{nil, false}, {false, false}, {true, true}, {0, false}, {3, true}, {0.0, false},
		{"", false}, {"x", true}, {[]any{}, false}, {[]any{0}, true}, {map[any]any{}, false},
	} {
		if got := truthy(tc.v); got != tc.want {
			t.Errorf("truthy(%#v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestDependencies(t *testing.T) {
	t.Parallel()

	retries := mustArgument(t, "retries", 0, Nullable())
	backoff := mustArgument(t, "backoff", 0, Nullable())
	delay := mustArgument(t, "delay", 0.0, Nullable(), DependsOn(AllOf, retries, backoff))
	cmd := mustCommand(t, "root")
	for _, a := range []*Argument{retries, backoff, delay} {
		if err := cmd.AddArgument(a); err != nil {
			t.Fatal(err)
		}
	}

	if err := cmd.ValidateDependencies(); err != nil {
		t.Errorf("unset dependent argument: %v", err)
	}

	if err := delay.SetValue("1.5"); err != nil {
		t.Fatal(err)
	}
	if err := retries.SetValue(3); err != nil {
		t.Fatal(err)
	}
	err := cmd.ValidateDependencies()
	var depErr *DependencyViolationError
	if !errors.As(err, &depErr) {
		t.Fatalf("ValidateDependencies() error = %v, want *DependencyViolationError", err)
	}
	if diff := cmp.Diff([]string{"retries", "backoff"}, depErr.On); diff != "" {
		t.Errorf("On mismatch (-want +got):\n%s", diff)
	}

	if !depErr.Provided {
		t.Error("Provided = false for a value given without its dependencies")
	}

	if err := backoff.SetValue(2); err != nil {
		t.Fatal(err)
	}
	if err := cmd.ValidateDependencies(); err != nil {
		t.Errorf("satisfied dependency: %v", err)
	}

	if err := delay.SetValue(nil); err != nil {
		t.Fatal(err)
	}
	err = cmd.ValidateDependencies()
	if !errors.As(err, &depErr) || depErr.Provided {
		t.Errorf("ValidateDependencies() error = %v, want missing dependent value", err)
	}

	implicit := mustArgument(t, "jitter", 0, DependsOn(AnyOf, retries))
	if !implicit.Nullable() || implicit.Required() {
		t.Errorf("dependent argument nullable = %v, required = %v", implicit.Nullable(), implicit.Required())
	}

	if _, err := NewArgument("self", 0, DependsOn(AnyOf, nil)); err == nil {
		t.Error("nil dependency accepted")
	}
}

func TestCheckRequired(t *testing.T) {
	t.Parallel()

	root, err := Declare("root", func(b *Builder) {
		b.Subcommand("build", func(b *Builder) {
			b.String("target")
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	build, _ := root.Subcommand("build")
	err = build.CheckRequired()
	var missing *MissingArgumentError
	if !errors.As(err, &missing) || missing.Command != "root.build" || missing.Argument != "target" {
		t.Errorf("CheckRequired() error = %v", err)
	}
}

func TestScratchIsShared(t *testing.T) {
	t.Parallel()

	root, err := Declare("root", func(b *Builder) {
		b.Subcommand("child", nil)
	})
	if err != nil {
		t.Fatal(err)
	}
	child, _ := root.Subcommand("child")
	root.Scratch().Set("token", 1)
	if v, ok := child.Scratch().Get("token"); !ok || v != 1 {
		t.Errorf("child scratch Get = %v, %v", v, ok)
	}
}

func TestRunModeParse(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]RunMode{"": RunModeSmart, "CLI": RunModeCommandLine, "gui": RunModeGUI, "form": RunModeGUI, "programmatic": RunModeProgrammatic} {
		got, err := ParseRunMode(in)
		if err != nil || got != want {
			t.Errorf("ParseRunMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseRunMode("web"); !errors.Is(err, ErrInvalidRunMode) {
		t.Errorf("ParseRunMode(web) error = %v, want ErrInvalidRunMode", err)
	}
	if _, err := NewCommand("x", WithRunMode("bogus")); !errors.Is(err, ErrInvalidRunMode) {
		t.Errorf("NewCommand with bogus mode error = %v", err)
	}
}
