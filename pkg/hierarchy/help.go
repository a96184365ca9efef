// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/invowk/argtree/pkg/command"
	"github.com/invowk/argtree/pkg/validate"
)

var (
	helpTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	helpSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	helpHeaderStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	helpCellStyle    = lipgloss.NewStyle().Padding(0, 1)
	helpBorderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// RenderHelp returns the usage text of one command: its path, description,
// required and optional arguments, and subcommands.
func RenderHelp(cmd *command.Command) string {
	var b strings.Builder

	usage := "Usage: " + strings.Join(cmd.Path(), " ")
	if len(cmd.Arguments()) > 0 {
		usage += " [flags]"
	}
	subs := cmd.Subcommands()
	if len(subs) > 0 {
		usage += " [subcommand]"
	}
	b.WriteString(helpTitleStyle.Render(usage))
	b.WriteString("\n")
	if d := cmd.Description(); d != "" {
		b.WriteString("\n" + d + "\n")
	}

	var required, optional []*command.Argument
	for _, a := range cmd.Arguments() {
		if a.Required() {
			required = append(required, a)
		} else {
			optional = append(optional, a)
		}
	}
	if len(required) > 0 {
		writeSection(&b, "Required arguments", argumentTable(required))
	}
	if len(optional) > 0 {
		writeSection(&b, "Optional arguments", argumentTable(optional))
	}

	if len(subs) > 0 {
		rows := make([][]string, len(subs))
		for i, s := range subs {
			rows[i] = []string{s.Name(), firstLine(s.Description())}
		}
		writeSection(&b, "Subcommands", renderTable([]string{"Name", "Description"}, rows))
		fmt.Fprintf(&b, "\nUse \"%s <subcommand> --help\" for more information about a subcommand.\n", strings.Join(cmd.Path(), " "))
	}
	return b.String()
}

func writeSection(b *strings.Builder, title, body string) {
	b.WriteString("\n")
	b.WriteString(helpSectionStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
}

func argumentTable(args []*command.Argument) string {
	rows := make([][]string, len(args))
	for i, a := range args {
		rows[i] = []string{
			strings.Join(a.Flags(), ", "),
			typeLabel(a),
			defaultLabel(a),
			a.Info(),
			strings.Join(constraintLabels(a), "; "),
		}
	}
	return renderTable([]string{"Flags", "Type", "Default", "Info", "Constraints"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(helpBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return helpHeaderStyle
			}
			return helpCellStyle
		}).
		String()
}

func typeLabel(a *command.Argument) string {
	name := a.Validator().TypeName()
	if a.Nullable() {
		return name + "?"
	}
	return name
}

func defaultLabel(a *command.Argument) string {
	if a.Default() == nil {
		return ""
	}
	return validate.FormatLiteral(a.Default())
}

// constraintLabels describes choices, conditions and the dependency of a.
func constraintLabels(a *command.Argument) []string {
	var out []string
	if choices := a.Choices(); len(choices) > 0 {
		parts := make([]string, len(choices))
		for i, c := range choices {
			parts[i] = validate.FormatLiteral(c)
		}
		out = append(out, "one of: "+strings.Join(parts, ", "))
	}
	for _, c := range a.Validator().Conditions() {
		out = append(out, c.Name)
	}
	if d := a.Dependency(); d != nil {
		names := make([]string, 0, len(d.On()))
		for _, on := range d.On() {
			names = append(names, on.Name())
		}
		out = append(out, fmt.Sprintf("requires %s of: %s", d.Combinator(), strings.Join(names, ", ")))
	}
	return out
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
