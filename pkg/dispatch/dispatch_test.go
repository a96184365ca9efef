// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/hierarchy"
	"github.com/invowk/argtree/pkg/validate"
)

type (
	memStore struct {
		saved   map[string]command.Namespace
		loadErr error
		saveErr error
	}

	stubWidget struct{ state any }

	// scriptedRenderer plays one scripted submission per Show call and
	// cancels once the script runs out.
	scriptedRenderer struct {
		rounds []func(root *hierarchy.Page)
	}

	releaseTree struct {
		root  *command.Command
		calls *[]string
	}
)

func newMemStore() *memStore { return &memStore{saved: map[string]command.Namespace{}} }

func (s *memStore) Load(path []string) (command.Namespace, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.saved[strings.Join(path, ".")], nil
}

func (s *memStore) Save(path []string, ns command.Namespace) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[strings.Join(path, ".")] = ns.Clone()
	return nil
}

func (w *stubWidget) State() any { return w.state }
func (w *stubWidget) SetState(v any) { w.state = v }
func (w *stubWidget) Tooltip() string { return "" }

func (r *scriptedRenderer) NewWidget(*command.Argument) hierarchy.Widget { return &stubWidget{} }

func (r *scriptedRenderer) Show(_ context.Context, root *hierarchy.Page, _ []string) error {
	if len(r.rounds) == 0 {
		return hierarchy.ErrFormCancelled
	}
	round := r.rounds[0]
	r.rounds = r.rounds[1:]
	round(root)
	return nil
}

func setWidget(t *testing.T, p *hierarchy.Page, name string, v any) {
	t.Helper()
	for _, f := range p.Fields {
		if f.Argument.Name() == name {
			f.Widget.SetState(v)
			return
		}
	}
	t.Fatalf("page %s has no field %q", p.Path, name)
}

func widgetState(t *testing.T, p *hierarchy.Page, name string) any {
	t.Helper()
	for _, f := range p.Fields {
		if f.Argument.Name() == name {
			return f.Widget.State()
		}
	}
	t.Fatalf("page %s has no field %q", p.Path, name)
	return nil
}

// newReleaseTree declares
//
//	release [dry_run]
//	├── build [target, jobs]
//	└── publish [token, user (set iff token)]
//
// with callbacks that record the command paths they ran for.
func newReleaseTree(t *testing.T) releaseTree {
	t.Helper()
	calls := &[]string{}
	record := func(_ context.Context, cmd *command.Command, _ command.Namespace) error {
		*calls = append(*calls, cmd.PathString())
		return nil
	}
	root, err := command.Declare("release", func(b *command.Builder) {
		b.Bool("dry_run", command.Default(false))
		b.Subcommand("build", func(b *command.Builder) {
			b.String("target", command.Default("all"))
			b.Int("jobs", command.Default(4))
		}, command.WithCallback(record))
		b.Subcommand("publish", func(b *command.Builder) {
			token := b.String("token", command.Nullable())
			b.String("user", command.DependsOn(command.AnyOf, token))
		}, command.WithCallback(record))
	}, command.WithCallback(record))
	if err != nil {
		t.Fatalf("Declare() error: %v", err)
	}
	return releaseTree{root: root, calls: calls}
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	values := command.Namespace{"dry_run": true}
	tests := []struct {
		name     string
		mode     command.RunMode
		values   command.Namespace
		tokens   []string
		embedded bool
		want     command.RunMode
	}{
		{"explicit commandline", command.RunModeCommandLine, values, nil, true, command.RunModeCommandLine},
		{"explicit gui", command.RunModeGUI, nil, []string{"build"}, false, command.RunModeGUI},
		{"explicit programmatic", command.RunModeProgrammatic, nil, nil, false, command.RunModeProgrammatic},
		{"smart with values", command.RunModeSmart, values, []string{"build"}, false, command.RunModeProgrammatic},
		{"smart embedded", command.RunModeSmart, nil, []string{"build"}, true, command.RunModeProgrammatic},
		{"smart without tokens", command.RunModeSmart, command.Namespace{}, nil, false, command.RunModeGUI},
		{"smart with tokens", command.RunModeSmart, nil, []string{"build"}, false, command.RunModeCommandLine},
		{"zero value is smart", "", nil, nil, false, command.RunModeGUI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Resolve(tt.mode, tt.values, tt.tokens, tt.embedded); got != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRequestedMode(t *testing.T) {
	t.Parallel()

	smart := mustCommand(t, command.RunModeSmart)
	gui := mustCommand(t, command.RunModeGUI)
	tests := []struct {
		name string
		root *command.Command
		opts options
		want command.RunMode
	}{
		{"nothing set", smart, options{}, command.RunModeSmart},
		{"configured default", smart, options{defaultMode: command.RunModeCommandLine}, command.RunModeCommandLine},
		{"declared beats default", gui, options{defaultMode: command.RunModeCommandLine}, command.RunModeGUI},
		{"override beats declared", gui, options{mode: command.RunModeProgrammatic}, command.RunModeProgrammatic},
	}
	for _, tt := range tests {
		if got := tt.opts.requestedMode(tt.root); got != tt.want {
			t.Errorf("%s: requestedMode() = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func mustCommand(t *testing.T, mode command.RunMode) *command.Command {
	t.Helper()
	cmd, err := command.NewCommand("root", command.WithRunMode(mode))
	if err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestProcessCommandLine(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	store := newMemStore()
	res, err := Process(t.Context(), tree.root,
		WithArgs([]string{"--dry_run", "build", "--jobs", "8"}),
		WithStore(store),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	want := command.Namespace{
		"dry_run": true,
		"build":   command.Namespace{"target": "all", "jobs": 8},
	}
	if diff := cmp.Diff(want, res.Namespace); diff != "" {
		t.Errorf("namespace mismatch (-want +got):\n%s", diff)
	}
	if res.Mode != command.RunModeCommandLine || res.Command.PathString() != "release.build" {
		t.Errorf("Result = %s at %s", res.Mode, res.Command)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if diff := cmp.Diff([]string{"release", "release.build"}, *tree.calls); diff != "" {
		t.Errorf("callback order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, store.saved["release.build"]); diff != "" {
		t.Errorf("stored snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessCommandLineString(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	res, err := Process(t.Context(), tree.root,
		WithCommandLine(`build --target 'web app'`),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	build, _ := res.Namespace.Sub("build")
	if build["target"] != "web app" {
		t.Errorf("target = %#v, want \"web app\"", build["target"])
	}

	_, err = Process(t.Context(), tree.root, WithCommandLine(`build --target "unterminated`))
	if err == nil {
		t.Error("unterminated quote accepted")
	}
}

func TestProcessHelp(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	var out bytes.Buffer
	_, err := Process(t.Context(), tree.root,
		WithArgs([]string{"build", "--help"}),
		WithOutput(&out),
		WithErrorOutput(&out),
		WithLogger(quietLogger()),
	)
	if !errors.Is(err, hierarchy.ErrHelpRequested) {
		t.Fatalf("Process() error = %v, want ErrHelpRequested", err)
	}
	if !strings.Contains(out.String(), "--jobs") {
		t.Errorf("help output missing --jobs:\n%s", out.String())
	}
	if len(*tree.calls) != 0 {
		t.Errorf("callbacks ran after help: %v", *tree.calls)
	}
}

func TestProcessProgrammatic(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	res, err := Process(t.Context(), tree.root,
		WithValues(command.Namespace{"build": map[string]any{"target": "web"}}),
		WithValue("dry_run", "yes"),
		WithArgs([]string{"ignored"}),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	want := command.Namespace{
		"dry_run": true,
		"build":   command.Namespace{"target": "web", "jobs": 4},
	}
	if diff := cmp.Diff(want, res.Namespace); diff != "" {
		t.Errorf("namespace mismatch (-want +got):\n%s", diff)
	}
	if res.Mode != command.RunModeProgrammatic {
		t.Errorf("Mode = %s, want programmatic", res.Mode)
	}
}

func TestProcessProgrammaticErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{
			name: "keyword overlaps values",
			opts: []Option{WithValues(command.Namespace{"dry_run": true}), WithValue("dry_run", false)},
			want: ErrDuplicateArgument,
		},
		{
			name: "keyword given twice",
			opts: []Option{WithValue("dry_run", true), WithValue("dry_run", false)},
			want: ErrDuplicateArgument,
		},
		{
			name: "no subcommand key",
			opts: []Option{WithValues(command.Namespace{"dry_run": true})},
			want: hierarchy.ErrAmbiguousSubcommand,
		},
		{
			name: "two subcommand keys",
			opts: []Option{WithValues(command.Namespace{"build": command.Namespace{}, "publish": command.Namespace{}})},
			want: hierarchy.ErrAmbiguousSubcommand,
		},
		{
			name: "bad value",
			opts: []Option{WithValues(command.Namespace{"build": command.Namespace{"jobs": "many"}})},
			want: validate.ErrConversion,
		},
		{
			name: "dependency violated",
			opts: []Option{WithValues(command.Namespace{"publish": command.Namespace{"user": "ada"}})},
			want: command.ErrDependencyViolation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := newReleaseTree(t)
			opts := append([]Option{WithLogger(quietLogger()), WithArgs(nil)}, tt.opts...)
			_, err := Process(t.Context(), tree.root, opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Process() error = %v, want %v", err, tt.want)
			}
			if len(*tree.calls) != 0 {
				t.Errorf("callbacks ran after failure: %v", *tree.calls)
			}
		})
	}
}

func TestProcessTarget(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	res, err := Process(t.Context(), tree.root,
		WithTarget(tree.root),
		WithRunMode(command.RunModeProgrammatic),
		WithValue("dry_run", true),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if diff := cmp.Diff(command.Namespace{"dry_run": true}, res.Namespace); diff != "" {
		t.Errorf("namespace mismatch (-want +got):\n%s", diff)
	}

	other := newReleaseTree(t)
	if _, err := Process(t.Context(), tree.root, WithTarget(other.root), WithRunMode(command.RunModeProgrammatic)); err == nil {
		t.Error("target from another tree accepted")
	}
}

func TestProcessSavesBeforeDependencyCheck(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	store := newMemStore()
	_, err := Process(t.Context(), tree.root,
		WithArgs([]string{"publish", "--token", "t0k"}),
		WithStore(store),
		WithLogger(quietLogger()),
	)
	var depErr *command.DependencyViolationError
	if !errors.As(err, &depErr) || depErr.Argument != "user" || depErr.Provided {
		t.Fatalf("Process() error = %v, want missing user", err)
	}
	if _, ok := store.saved["release.publish"]; !ok {
		t.Error("snapshot not stored")
	}
}

func TestProcessStoreFailuresAreNotFatal(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	var logs bytes.Buffer
	store := newMemStore()
	store.loadErr = errors.New("disk on fire")
	store.saveErr = errors.New("read-only")
	renderer := &scriptedRenderer{rounds: []func(*hierarchy.Page){
		func(root *hierarchy.Page) { root.Selected = "build" },
	}}
	_, err := Process(t.Context(), tree.root,
		WithRunMode(command.RunModeGUI),
		WithRenderer(renderer),
		WithStore(store),
		WithLogger(log.NewWithOptions(&logs, log.Options{})),
	)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	for _, want := range []string{"disk on fire", "read-only"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log missing %q:\n%s", want, logs.String())
		}
	}
}

func TestProcessForm(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	store := newMemStore()
	store.saved["release.build"] = command.Namespace{
		"dry_run": true,
		"build":   command.Namespace{"target": "web", "jobs": 2},
	}
	var logs bytes.Buffer
	renderer := &scriptedRenderer{rounds: []func(*hierarchy.Page){
		func(root *hierarchy.Page) {
			build, _ := root.Child("build")
			if got := widgetState(t, build, "target"); got != "web" {
				t.Errorf("target widget = %v, want stored value", got)
			}
			root.Selected = "build"
			setWidget(t, build, "jobs", "zero")
		},
		func(root *hierarchy.Page) {
			build, _ := root.Child("build")
			setWidget(t, build, "jobs", "6")
		},
	}}

	res, err := Process(t.Context(), tree.root,
		WithArgs(nil),
		WithRenderer(renderer),
		WithStore(store),
		WithLogger(log.NewWithOptions(&logs, log.Options{})),
	)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if res.Mode != command.RunModeGUI {
		t.Errorf("Mode = %s, want gui", res.Mode)
	}
	want := command.Namespace{
		"dry_run": true,
		"build":   command.Namespace{"target": "web", "jobs": 6},
	}
	if diff := cmp.Diff(want, res.Namespace); diff != "" {
		t.Errorf("namespace mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "WARNING [release.build] (jobs)") || !strings.Contains(logs.String(), "run=") {
		t.Errorf("form warning not logged with run id:\n%s", logs.String())
	}
}

func TestProcessFormValuesPreselect(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	renderer := &scriptedRenderer{rounds: []func(*hierarchy.Page){
		func(root *hierarchy.Page) {
			if root.Selected != "publish" {
				t.Errorf("Selected = %q, want publish", root.Selected)
			}
		},
	}}
	res, err := Process(t.Context(), tree.root,
		WithRunMode(command.RunModeGUI),
		WithValues(command.Namespace{"publish": command.Namespace{"token": "t0k", "user": "ada"}}),
		WithRenderer(renderer),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if !slices.Equal(res.Command.Path(), []string{"release", "publish"}) {
		t.Errorf("Command = %s, want release.publish", res.Command)
	}
}

func TestProcessFormCancelled(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	_, err := Process(t.Context(), tree.root,
		WithRunMode(command.RunModeGUI),
		WithRenderer(&scriptedRenderer{}),
		WithLogger(quietLogger()),
	)
	if !errors.Is(err, hierarchy.ErrFormCancelled) {
		t.Errorf("Process() error = %v, want ErrFormCancelled", err)
	}
}

func TestProcessCallbackError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	root, err := command.Declare("tool", nil, command.WithCallback(func(context.Context, *command.Command, command.Namespace) error {
		return errBoom
	}))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Process(t.Context(), root, WithRunMode(command.RunModeProgrammatic), WithLogger(quietLogger()))
	if !errors.Is(err, errBoom) || !strings.HasPrefix(err.Error(), "tool: ") {
		t.Errorf("Process() error = %v", err)
	}
}

func TestProcessResetsBetweenRuns(t *testing.T) {
	t.Parallel()

	tree := newReleaseTree(t)
	if _, err := Process(t.Context(), tree.root, WithArgs([]string{"--dry_run", "build"}), WithLogger(quietLogger())); err != nil {
		t.Fatal(err)
	}
	res, err := Process(t.Context(), tree.root, WithArgs([]string{"build"}), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if res.Namespace["dry_run"] != false {
		t.Errorf("dry_run = %v after second run, want default", res.Namespace["dry_run"])
	}
}
