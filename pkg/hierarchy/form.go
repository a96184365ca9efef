// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"context"
	"fmt"

	"github.com/invowk/argtree/pkg/command"
)

type (
	// Widget holds the editable state of one argument in a form.
	Widget interface {
		// State returns the current input; nil means no input.
		State() any
		// SetState replaces the current input with v, which may be nil.
		SetState(v any)
		// Tooltip describes the argument for the user.
		Tooltip() string
	}

	// FormRenderer draws forms. NewWidget is called once per argument when a
	// Form is created. Show blocks until the user submits or cancels; it
	// records the chosen subcommand of each page in Page.Selected and
	// returns ErrFormCancelled on cancel.
	FormRenderer interface {
		NewWidget(arg *command.Argument) Widget
		Show(ctx context.Context, root *Page, warnings []string) error
	}

	// Field pairs an argument with its widget.
	Field struct {
		Argument *command.Argument
		Widget   Widget
	}

	// Page is the form content of one node.
	Page struct {
		ID          NodeID
		Name        string
		Path        string
		Description string
		Fields      []Field
		Children    []*Page
		// Selected is the name of the chosen child page, or "".
		Selected string
	}

	// Form keeps the widgets of a whole tree in sync with its arguments.
	Form struct {
		h        *Hierarchy
		renderer FormRenderer
		pages    []*Page
		onWarn   func([]string)
	}

	// FormOption configures a Form.
	FormOption func(*Form)
)

// WithWarningHook registers fn to receive each round of warnings.
func WithWarningHook(fn func([]string)) FormOption {
	return func(f *Form) { f.onWarn = fn }
}

// Child returns the child page with the given name.
func (p *Page) Child(name string) (*Page, bool) {
	for _, c := range p.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// NewForm creates a widget for every argument of the tree and initializes
// each widget from its argument's default.
func (h *Hierarchy) NewForm(renderer FormRenderer, opts ...FormOption) *Form {
	f := &Form{h: h, renderer: renderer, pages: make([]*Page, len(h.nodes))}
	for _, opt := range opts {
		opt(f)
	}
	for i := range h.nodes {
		id := NodeID(i)
		cmd := h.Command(id)
		page := &Page{
			ID:          id,
			Name:        cmd.Name(),
			Path:        h.PathString(id),
			Description: cmd.Description(),
		}
		for _, a := range cmd.Arguments() {
			w := renderer.NewWidget(a)
			w.SetState(a.Default())
			page.Fields = append(page.Fields, Field{Argument: a, Widget: w})
		}
		f.pages[i] = page
	}
	for i, n := range h.nodes {
		for _, c := range n.children {
			f.pages[i].Children = append(f.pages[i].Children, f.pages[c])
		}
	}
	return f
}

// ResetDefaults sets every widget back to its argument's default and clears
// subcommand selections.
func (f *Form) ResetDefaults() {
	for _, p := range f.pages {
		p.Selected = ""
		for _, field := range p.Fields {
			field.Widget.SetState(field.Argument.Default())
		}
	}
}

// Root returns the root page.
func (f *Form) Root() *Page { return f.pages[f.h.Root()] }

// Page returns the page of a node.
func (f *Form) Page(id NodeID) *Page { return f.pages[id] }

// ApplyNamespace sets widgets along the path from the root to id from the
// matching levels of ns. Missing keys leave widgets unchanged.
func (f *Form) ApplyNamespace(id NodeID, ns command.Namespace) {
	level := ns
	for i, n := range f.h.Lineage(id) {
		if i > 0 {
			sub, ok := level.Sub(f.h.Command(n).Name())
			if !ok {
				return
			}
			level = sub
		}
		for _, field := range f.pages[n].Fields {
			if v, ok := level[field.Argument.Name()]; ok {
				field.Widget.SetState(v)
			}
		}
	}
}

// SelectPath marks every page on the path to id as its parent's selected child.
func (f *Form) SelectPath(id NodeID) {
	f.pages[id].Selected = ""
	for _, n := range f.h.Lineage(id)[1:] {
		f.pages[f.h.Parent(n)].Selected = f.h.Command(n).Name()
	}
}

// Current follows Selected from the root page and returns the node reached.
func (f *Form) Current() NodeID {
	p := f.Root()
	for p.Selected != "" {
		next, ok := p.Child(p.Selected)
		if !ok {
			break
		}
		p = next
	}
	return p.ID
}

// Sync assigns widget states to arguments along the path from the root to
// id. Conversion failures become warnings of the form
//
//	WARNING [release.build] (jobs) - <error>
//
// and leave the argument's previous value in place.
func (f *Form) Sync(id NodeID) []string {
	var warnings []string
	for _, n := range f.h.Lineage(id) {
		page := f.pages[n]
		for _, field := range page.Fields {
			if err := field.Argument.SetValue(field.Widget.State()); err != nil {
				warnings = append(warnings, fmt.Sprintf("WARNING [%s] (%s) - %v", page.Path, field.Argument.Name(), err))
			}
		}
	}
	return warnings
}

// Run shows the form until a submission syncs without warnings, then
// selects and returns the chosen node.
func (f *Form) Run(ctx context.Context) (NodeID, error) {
	var warnings []string
	for {
		if err := ctx.Err(); err != nil {
			return NoNode, err
		}
		if err := f.renderer.Show(ctx, f.Root(), warnings); err != nil {
			return NoNode, err
		}
		id := f.Current()
		warnings = f.Sync(id)
		if len(warnings) == 0 {
			f.h.Select(id)
			return id, nil
		}
		if f.onWarn != nil {
			f.onWarn(warnings)
		}
	}
}
