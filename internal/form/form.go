// SPDX-License-Identifier: MPL-2.0

// Package form renders command trees as interactive terminal forms with
// charmbracelet/huh. It implements hierarchy.FormRenderer: one form per
// command level, asking for that level's arguments and, when the level has
// subcommands, which one to continue with.
package form

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/invowk/argtree/internal/config"
	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/hierarchy"
	"github.com/invowk/argtree/pkg/validate"
)

// stopHere is the subcommand choice that ends the descent at a level.
const stopHere = ""

var warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

type (
	// Renderer shows huh forms for a hierarchy.Form.
	Renderer struct {
		theme      config.Theme
		accessible bool
		input      io.Reader
		output     io.Writer
	}

	// Option configures a Renderer.
	Option func(*Renderer)
)

// WithTheme sets the color theme.
func WithTheme(t config.Theme) Option {
	return func(r *Renderer) { r.theme = t }
}

// WithAccessible forces accessible mode. Accessible mode is also used when
// stdin is not a terminal or ACCESSIBLE is set.
func WithAccessible(accessible bool) Option {
	return func(r *Renderer) { r.accessible = r.accessible || accessible }
}

// WithInput sets where answers are read from.
func WithInput(in io.Reader) Option {
	return func(r *Renderer) { r.input = in }
}

// WithOutput sets where prompts are written.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) { r.output = out }
}

// New returns a Renderer. Without WithOutput, prompts go to stderr in
// accessible mode so they are not captured by command substitution.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		theme:      config.ThemeDefault,
		accessible: !isInputTerminal() || os.Getenv("ACCESSIBLE") != "",
		input:      os.Stdin,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.output == nil {
		r.output = os.Stdout
		if r.accessible {
			r.output = os.Stderr
		}
	}
	return r
}

// Accessible reports whether prompts use accessible mode.
func (r *Renderer) Accessible() bool { return r.accessible }

func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// huhTheme converts a Theme to a huh.Theme.
func huhTheme(t config.Theme) *huh.Theme {
	switch t {
	case config.ThemeCharm:
		return huh.ThemeCharm()
	case config.ThemeDracula:
		return huh.ThemeDracula()
	case config.ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case config.ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}

// NewWidget implements hierarchy.FormRenderer.
func (r *Renderer) NewWidget(arg *command.Argument) hierarchy.Widget {
	switch {
	case len(arg.Choices()) > 0:
		return newSelectWidget(arg)
	case arg.Validator().Kind() == validate.KindBool && !arg.Nullable():
		return newConfirmWidget(arg)
	default:
		return newTextWidget(arg)
	}
}

// Show implements hierarchy.FormRenderer. It walks from the root page down
// the chosen subcommands, showing one form per level.
func (r *Renderer) Show(ctx context.Context, root *hierarchy.Page, warnings []string) error {
	page := root
	first := true
	for page != nil {
		var banner []string
		if first {
			banner = warnings
			first = false
		}
		form := r.levelForm(page, banner)
		if form == nil {
			break
		}
		if err := form.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return hierarchy.ErrFormCancelled
			}
			return err
		}
		next, ok := page.Child(page.Selected)
		if !ok {
			break
		}
		page = next
	}
	return nil
}

// levelForm builds the form of one page, or nil when the page has nothing
// to ask and no warnings to show.
func (r *Renderer) levelForm(page *hierarchy.Page, warnings []string) *huh.Form {
	var fields []huh.Field
	if len(warnings) > 0 {
		fields = append(fields, huh.NewNote().
			Title(warningStyle.Render("Please fix the following")).
			Description(strings.Join(warnings, "\n")))
	}
	for _, f := range page.Fields {
		if w, ok := f.Widget.(fieldWidget); ok {
			fields = append(fields, w.field())
		}
	}
	if len(page.Children) > 0 {
		fields = append(fields, subcommandSelect(page))
	}
	if len(fields) == 0 {
		return nil
	}

	group := huh.NewGroup(fields...).Title(page.Path)
	if page.Description != "" {
		group = group.Description(page.Description)
	}
	return huh.NewForm(group).
		WithTheme(huhTheme(r.theme)).
		WithAccessible(r.accessible).
		WithInput(r.input).
		WithOutput(r.output)
}

func subcommandSelect(page *hierarchy.Page) huh.Field {
	opts := make([]huh.Option[string], 0, len(page.Children)+1)
	opts = append(opts, huh.NewOption("(run "+page.Name+")", stopHere))
	for _, c := range page.Children {
		title := c.Name
		if c.Description != "" {
			title += " - " + firstLine(c.Description)
		}
		opts = append(opts, huh.NewOption(title, c.Name))
	}
	return huh.NewSelect[string]().
		Title("Subcommand").
		Options(opts...).
		Value(&page.Selected)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
