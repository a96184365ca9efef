// SPDX-License-Identifier: MPL-2.0

package form

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/validate"
)

// unsetOption is the select entry standing for a null value.
const unsetOption = "(unset)"

type (
	// fieldWidget is a widget that can be rendered as a huh field.
	fieldWidget interface {
		field() huh.Field
	}

	// textWidget edits a value as text. Empty text is null, except for
	// non-nullable strings with a default, where it is the empty string.
	textWidget struct {
		arg         *command.Argument
		text        string
		emptyIsText bool
	}

	// confirmWidget edits a non-nullable bool.
	confirmWidget struct {
		arg   *command.Argument
		value bool
	}

	// selectWidget picks one of the argument's choices.
	selectWidget struct {
		arg     *command.Argument
		choices []any
		labels  []string
		label   string
	}
)

func tooltip(arg *command.Argument) string {
	parts := []string{arg.Validator().TypeName()}
	if arg.Nullable() {
		parts[0] += "?"
	}
	if arg.Required() {
		parts = append(parts, "required")
	}
	if info := arg.Info(); info != "" {
		parts = append(parts, info)
	}
	return strings.Join(parts, " · ")
}

func newTextWidget(arg *command.Argument) *textWidget {
	return &textWidget{
		arg:         arg,
		emptyIsText: arg.Validator().Kind() == validate.KindString && !arg.Nullable() && arg.Default() != nil,
	}
}

// State implements hierarchy.Widget.
func (w *textWidget) State() any {
	if w.text == "" && !w.emptyIsText {
		return nil
	}
	return w.text
}

// SetState implements hierarchy.Widget.
func (w *textWidget) SetState(v any) {
	switch v.(type) {
	case []any, map[any]any, map[string]any:
		w.text = validate.FormatLiteral(v)
	default:
		w.text = validate.FormatText(v)
	}
}

// Tooltip implements hierarchy.Widget.
func (w *textWidget) Tooltip() string { return tooltip(w.arg) }

func (w *textWidget) field() huh.Field {
	in := huh.NewInput().
		Title(w.arg.Name()).
		Description(w.Tooltip()).
		Value(&w.text)
	if w.arg.Validator().Kind().IsCollection() {
		in = in.Placeholder(`["a", "b"]`)
	}
	return in
}

func newConfirmWidget(arg *command.Argument) *confirmWidget {
	return &confirmWidget{arg: arg}
}

// State implements hierarchy.Widget.
func (w *confirmWidget) State() any { return w.value }

// SetState implements hierarchy.Widget. Values that are not a bool are
// read by truthiness.
func (w *confirmWidget) SetState(v any) {
	if b, ok := v.(bool); ok {
		w.value = b
		return
	}
	converted, err := w.arg.Validator().Convert(v)
	if b, ok := converted.(bool); err == nil && ok {
		w.value = b
	}
}

// Tooltip implements hierarchy.Widget.
func (w *confirmWidget) Tooltip() string { return tooltip(w.arg) }

func (w *confirmWidget) field() huh.Field {
	return huh.NewConfirm().
		Title(w.arg.Name()).
		Description(w.Tooltip()).
		Affirmative("Yes").
		Negative("No").
		Value(&w.value)
}

func newSelectWidget(arg *command.Argument) *selectWidget {
	w := &selectWidget{arg: arg, choices: arg.Choices()}
	for _, c := range w.choices {
		w.labels = append(w.labels, validate.FormatText(c))
	}
	return w
}

// State implements hierarchy.Widget.
func (w *selectWidget) State() any {
	for i, l := range w.labels {
		if l == w.label {
			return w.choices[i]
		}
	}
	return nil
}

// SetState implements hierarchy.Widget. Values outside the choices select
// the unset entry.
func (w *selectWidget) SetState(v any) {
	w.label = ""
	if v == nil {
		return
	}
	text := validate.FormatText(v)
	for _, l := range w.labels {
		if l == text {
			w.label = l
			return
		}
	}
}

// Tooltip implements hierarchy.Widget.
func (w *selectWidget) Tooltip() string { return tooltip(w.arg) }

func (w *selectWidget) field() huh.Field {
	opts := make([]huh.Option[string], 0, len(w.labels)+1)
	if w.arg.Nullable() || w.label == "" {
		opts = append(opts, huh.NewOption(unsetOption, ""))
	}
	for _, l := range w.labels {
		opts = append(opts, huh.NewOption(l, l))
	}
	return huh.NewSelect[string]().
		Title(w.arg.Name()).
		Description(w.Tooltip()).
		Options(opts...).
		Value(&w.label)
}
