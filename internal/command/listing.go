package command

import (
	"slices"
	"strings"

	"github.com/nerrad567/gray-logic-ems/internal/device"
)

// Built-in command names every device type answers to.
const (
	CommandInfo     = "info"
	CommandValues   = "values"
	CommandCommands = "commands"
)

// Descriptions used for the built-in listing commands.
const (
	DescriptionInfo     = "list all values (verbose)"
	DescriptionValues   = "list all values"
	DescriptionCommands = "list all commands"
)

// Entry is one line of a command listing.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AdminOnly   bool   `json:"admin_only,omitempty"`
}

// List returns the visible commands of t sorted by tagged name. Hidden
// commands and commands without a description are left out. Sensor types
// always list info and commands.
func (r *Registry) List(t device.Type) []Entry {
	seen := make(map[string]bool)
	var entries []Entry

	add := func(e Entry) {
		key := strings.ToLower(e.Name)
		if seen[key] {
			return
		}
		seen[key] = true
		entries = append(entries, e)
	}

	if t.IsSensor() {
		add(Entry{Name: CommandInfo, Description: DescriptionInfo})
		add(Entry{Name: CommandCommands, Description: DescriptionCommands})
	}

	for _, c := range r.snapshot(t) {
		if c.Description == "" || c.HasFlags(FlagHidden) {
			continue
		}
		add(Entry{
			Name:        c.TaggedName(),
			Description: c.Description,
			AdminOnly:   c.HasFlags(FlagAdminOnly),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return entries
}

// Names returns the sorted tagged names of the visible commands of t.
// Unless verbose, sensor, scheduler and custom types also include info and
// commands, which are registered implicitly for them.
func (r *Registry) Names(t device.Type, verbose bool) []string {
	var names []string
	if !verbose && (t.IsSensor() || t == device.TypeScheduler || t == device.TypeCustom) {
		names = append(names, CommandInfo, CommandCommands)
	}

	for _, c := range r.snapshot(t) {
		if c.Description == "" || c.HasFlags(FlagHidden) {
			continue
		}
		name := c.TaggedName()
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return names
}

// Commands fills out with the listing of t keyed by tagged name. It is the
// body of the per-device "commands" command.
func (r *Registry) Commands(t device.Type, out Output) bool {
	entries := r.List(t)
	if len(entries) == 0 {
		clear(out)
		out["message"] = "no commands available"
		return false
	}
	for _, e := range entries {
		out[e.Name] = e.Description
	}
	return true
}
