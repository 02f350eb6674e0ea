package gateway

import (
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/nerrad567/gray-logic-ems/internal/command"
	"github.com/nerrad567/gray-logic-ems/internal/device"
)

// System command names.
const (
	CommandReadOnly = "readonly"
	CommandFetch    = "fetch"
)

// listingTypes always carry the listing commands, even without a device in
// the catalogue.
var listingTypes = []device.Type{
	device.TypeTemperatureSensor,
	device.TypeAnalogSensor,
	device.TypeScheduler,
	device.TypeCustom,
}

// BootstrapOptions carries what the system commands report and the hook
// fired after an entity has been written.
type BootstrapOptions struct {
	Version   string
	TopicBase string

	// OnWrite, when set, receives a copy of every entity after a
	// successful write.
	OnWrite func(t device.Type, v device.Value)
}

// Bootstrap rebuilds the command registry from the device catalogue and
// returns the number of commands registered. Commands registered earlier
// for any device type are dropped first.
func Bootstrap(devices *device.Registry, commands *command.Registry, opts BootstrapOptions) int {
	for _, t := range device.AllTypes() {
		commands.RemoveDevice(t)
	}

	types := devices.Types()
	for _, t := range listingTypes {
		if !slices.Contains(types, t) {
			types = append(types, t)
		}
	}

	for _, d := range devices.List() {
		registerEntities(devices, commands, d, opts.OnWrite)
	}
	for _, t := range types {
		if t == device.TypeSystem {
			continue
		}
		registerListings(devices, commands, t)
	}
	registerSystem(devices, commands, opts)

	return commands.Len()
}

// registerEntities adds a setter for every writeable entity of d. Entities
// sharing a name within a tag family share one setter, which writes the tag
// it is called with and falls back to the tag of the first entity.
func registerEntities(devices *device.Registry, commands *command.Registry, d device.Device, onWrite func(device.Type, device.Value)) {
	for _, v := range d.Values {
		if !v.Writeable {
			continue
		}
		t, id, name, fallback := d.Type, d.ID, v.Name, v.Tag
		description := v.FullName
		if description == "" {
			description = name
		}
		set := func(value string, tag device.Tag) bool {
			if tag == device.TagNone {
				tag = fallback
			}
			if err := devices.SetValue(t, id, name, tag, value); err != nil {
				return false
			}
			if onWrite != nil {
				if written, ok := writtenValue(devices, t, id, name, tag); ok {
					onWrite(t, written)
				}
			}
			return true
		}
		commands.AddValue(t, id, command.FamilyOf(v.Tag), name, set, description, 0)
	}
}

func registerListings(devices *device.Registry, commands *command.Registry, t device.Type) {
	commands.AddOutput(t, command.CommandValues, func(_ string, tag device.Tag, out command.Output) bool {
		writeValues(out, devices.Values(t, tag), tag, func(v device.Value) string { return v.Name })
		return true
	}, command.DescriptionValues, 0)

	commands.AddOutput(t, command.CommandInfo, func(_ string, tag device.Tag, out command.Output) bool {
		writeValues(out, devices.Values(t, tag), tag, func(v device.Value) string {
			if v.FullName != "" {
				return v.FullName
			}
			return v.Name
		})
		return true
	}, command.DescriptionInfo, 0)

	commands.AddOutput(t, command.CommandCommands, func(_ string, _ device.Tag, out command.Output) bool {
		return commands.Commands(t, out)
	}, command.DescriptionCommands, 0)
}

// writeValues copies entity values into out under key(v). Without a tag
// filter, tagged entities are nested below their tag ("hc1", "dhw1", ...).
func writeValues(out command.Output, values []device.Value, filter device.Tag, key func(device.Value) string) {
	for _, v := range values {
		if v.Value == nil {
			continue
		}
		prefix := v.Tag.String()
		if filter != device.TagNone || prefix == "" {
			out[key(v)] = v.Value
			continue
		}
		nested, ok := out[prefix].(map[string]any)
		if !ok {
			nested = make(map[string]any)
			out[prefix] = nested
		}
		nested[key(v)] = v.Value
	}
}

func registerSystem(devices *device.Registry, commands *command.Registry, opts BootstrapOptions) {
	commands.AddOutput(device.TypeSystem, command.CommandInfo, func(_ string, _ device.Tag, out command.Output) bool {
		typeNames := make(map[string]int)
		for _, d := range devices.List() {
			typeNames[d.Type.String()]++
		}
		out["version"] = opts.Version
		out["topic_base"] = opts.TopicBase
		out["readonly"] = devices.ReadOnlyMode()
		out["devices"] = devices.Count()
		out["types"] = slices.Sorted(maps.Keys(typeNames))
		return true
	}, "show system information", 0)

	commands.AddOutput(device.TypeSystem, command.CommandCommands, func(_ string, _ device.Tag, out command.Output) bool {
		return commands.Commands(device.TypeSystem, out)
	}, command.DescriptionCommands, 0)

	commands.AddOutput(device.TypeSystem, CommandReadOnly, func(value string, _ device.Tag, out command.Output) bool {
		if value == "" {
			out["readonly"] = devices.ReadOnlyMode()
			return true
		}
		enabled, err := cast.ToBoolE(value)
		if err != nil {
			return false
		}
		devices.SetReadOnlyMode(enabled)
		out["readonly"] = enabled
		return true
	}, "switch read-only mode", command.FlagAdminOnly)

	commands.AddOutput(device.TypeSystem, CommandFetch, func(_ string, _ device.Tag, out command.Output) bool {
		out["commands"] = Bootstrap(devices, commands, opts)
		return true
	}, "rebuild commands from the device catalogue", command.FlagHidden)
}

func writtenValue(devices *device.Registry, t device.Type, id uint8, name string, tag device.Tag) (device.Value, bool) {
	d, err := devices.Get(t, id)
	if err != nil {
		return device.Value{}, false
	}
	for _, v := range d.Values {
		if strings.EqualFold(v.Name, name) && (tag == device.TagNone || v.Tag == tag) {
			return v, true
		}
	}
	return device.Value{}, false
}
