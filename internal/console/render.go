// Package console renders gateway data for the terminal: command listings,
// the device catalogue and command results.
package console

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nerrad567/gray-logic-ems/internal/command"
	"github.com/nerrad567/gray-logic-ems/internal/device"
)

// listWidth is the wrap width of the short command listing.
const listWidth = 78

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorOK      = lipgloss.Color("#10B981")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	nameStyle = lipgloss.NewStyle().
			Bold(true)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	adminStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	okStyle = lipgloss.NewStyle().
		Foreground(colorOK).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

// CommandNames renders the short command listing of t: the tagged names
// wrapped to the terminal width.
func CommandNames(t device.Type, names []string) string {
	var b strings.Builder
	b.WriteString(commandsTitle(t, len(names)))
	if len(names) == 0 {
		return b.String()
	}
	b.WriteString(lipgloss.NewStyle().Width(listWidth).PaddingLeft(2).Render(strings.Join(names, " ")))
	b.WriteString("\n")
	return b.String()
}

// Commands renders the verbose command listing of t, one command per line
// with its description. Admin-only commands are marked.
func Commands(t device.Type, entries []command.Entry) string {
	var b strings.Builder
	b.WriteString(commandsTitle(t, len(entries)))
	if len(entries) == 0 {
		return b.String()
	}

	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Name))
	}
	column := nameStyle.Width(width + 4).PaddingLeft(2)

	for _, e := range entries {
		line := column.Render(e.Name) + " " + descriptionStyle.Render(e.Description)
		if e.AdminOnly {
			line += " " + adminStyle.Render("(admin only)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func commandsTitle(t device.Type, n int) string {
	title := titleStyle.Render(fmt.Sprintf("%s (%d commands)", t.String(), n)) + "\n"
	if n == 0 {
		title += descriptionStyle.Render("  no commands") + "\n"
	}
	return title
}

// Devices renders the device catalogue as one line per device.
func Devices(devices []device.Device) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d devices", len(devices))))
	b.WriteString("\n")

	width := 0
	for _, d := range devices {
		width = max(width, lipgloss.Width(d.Type.String()))
	}
	column := nameStyle.Width(width + 4).PaddingLeft(2)

	for _, d := range devices {
		fmt.Fprintf(&b, "%s 0x%02X %s %s\n",
			column.Render(d.Type.String()),
			d.ID,
			d.Name,
			descriptionStyle.Render(fmt.Sprintf("(%d entities)", len(d.Values))),
		)
	}
	return b.String()
}

// Result renders the outcome of a command: the return code followed by the
// output, indented JSON unless it is a single api_data attribute.
func Result(rc command.ReturnCode, out command.Output) string {
	style := errorStyle
	if rc == command.OK {
		style = okStyle
	}

	var b strings.Builder
	b.WriteString(style.Render(rc.String()))
	b.WriteString("\n")

	if data, ok := out["api_data"]; ok && len(out) == 1 {
		fmt.Fprintf(&b, "%v\n", data)
		return b.String()
	}
	if len(out) == 0 {
		return b.String()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(&b, "%v\n", out)
		return b.String()
	}
	b.Write(data)
	b.WriteString("\n")
	return b.String()
}
