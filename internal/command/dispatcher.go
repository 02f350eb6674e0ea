package command

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nerrad567/gray-logic-ems/internal/device"
)

// apiPrefix is the first path segment of web API requests.
const apiPrefix = "api"

// DefaultMaxReferenceLength bounds the command part of an entity reference.
const DefaultMaxReferenceLength = 29

// Catalog is the view of the live device catalogue the dispatcher needs.
type Catalog interface {
	// HasDevice reports whether at least one device of type t is present.
	HasDevice(t device.Type) bool
	// DeviceIDFromCommand returns the bus id owning the entity, or 0.
	DeviceIDFromCommand(t device.Type, cmd string, tag device.Tag) uint8
	// ReadEntity writes the entity description into out.
	ReadEntity(out map[string]any, cmd string, tag device.Tag, t device.Type) bool
	// IsReadOnly reports whether writes to the entity must be refused.
	IsReadOnly(t device.Type, id uint8, cmd string, tag device.Tag) bool
}

// Options tune the dispatcher.
type Options struct {
	// TopicBase is the MQTT base topic, e.g. "ems-esp". Paths that do not
	// start with "api/" must start with TopicBase followed by '/'.
	TopicBase string

	TemperatureSensors bool
	AnalogSensors      bool

	// MaxReferenceLength bounds the command part of an entity reference
	// before "/value" is appended. Zero means no bound.
	MaxReferenceLength int
}

// Dispatcher resolves commands and invokes their handlers.
type Dispatcher struct {
	registry *Registry
	catalog  Catalog
	opts     Options
	logger   Logger
}

// NewDispatcher creates a dispatcher over the given registry and catalogue.
func NewDispatcher(registry *Registry, catalog Catalog, opts Options) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		catalog:  catalog,
		opts:     opts,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// Registry returns the command registry the dispatcher reads.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Process handles a raw request path with an optional JSON body.
//
// path is either "api/<device>[/<cmd>...]" or "<TopicBase>/<device>[/<cmd>...]".
// The device can also come from input["device"] and the command from
// input["entity"] or input["cmd"]. Tags may be given as a command prefix
// or through the hc, dhw, id, ahs and hs body fields. The value comes from
// input["data"] or input["value"].
func (d *Dispatcher) Process(path string, isAdmin bool, input map[string]any, out Output) ReturnCode {
	segments := ParseURI(path).Segments()
	if len(segments) == 0 && path == "" {
		return message(Error, "invalid path", out)
	}

	if len(segments) > 0 && segments[0] == apiPrefix {
		segments = segments[1:]
	} else {
		base := d.opts.TopicBase
		if base == "" || !strings.HasPrefix(path, base+"/") {
			return message(Error, "unrecognized path", out)
		}
		segments = ParseURI(path[len(base)+1:]).Segments()
	}

	numPaths := len(segments)
	if numPaths == 0 && len(input) == 0 {
		return message(Error, "missing command in path", out)
	}

	var deviceName string
	if numPaths > 0 {
		deviceName = segments[0]
	} else {
		deviceName, _ = input["device"].(string)
	}

	t := device.TypeFromName(deviceName)
	if !d.DeviceHasCommands(t) {
		d.logger.Debug("command failed: invalid device", "device", deviceName)
		return message(Error, "unknown device", out)
	}

	var cmd string
	switch {
	case numPaths == 2:
		cmd = segments[1]
	case numPaths >= 3:
		cmd = segments[1] + "/" + segments[2]
		if numPaths > 3 {
			cmd += "/" + segments[3]
		}
	default:
		if v, ok := input["entity"]; ok {
			cmd, _ = v.(string)
		} else if v, ok := input["cmd"]; ok {
			cmd, _ = v.(string)
		}
	}

	command, tag, ok := ParseCommandString(cmd, device.TagNone)
	if !ok {
		threshold := 3
		if tag > device.TagDeviceData {
			threshold = 4
		}
		if numPaths >= threshold {
			return message(NotFound, "missing or bad command", out)
		}
		command = CommandValues
		if t == device.TypeSystem {
			command = CommandInfo
		}
	}

	if tag == device.TagNone {
		tag = tagFromBody(input)
	}

	data, hasData := valueFromBody(input)
	if !hasData {
		return d.Call(t, command, "", isAdmin, tag, out)
	}

	if ref, ok := data.(string); ok && strings.Contains(ref, "/") {
		return d.callReference(t, command, tag, isAdmin, ref, out)
	}

	value, ok := normalizeValue(data)
	if !ok {
		return message(Error, "cannot parse command", out)
	}
	return d.Call(t, command, value, isAdmin, tag, out)
}

// callReference reads the entity named by ref ("<device>/<entity>") and
// calls command with its value. Any failure along the way is reported as
// Invalid with an empty output.
func (d *Dispatcher) callReference(t device.Type, command string, tag device.Tag, isAdmin bool, ref string, out Output) ReturnCode {
	deviceName, entity, _ := strings.Cut(ref, "/")

	refType := device.TypeFromName(deviceName)
	if refType == device.TypeUnknown {
		clear(out)
		return Invalid
	}

	refCmd, refTag, ok := ParseCommandString(entity, device.TagNone)
	if !ok {
		clear(out)
		return Invalid
	}
	refCmd = strings.ToLower(refCmd)
	if limit := d.opts.MaxReferenceLength; limit > 0 && len(refCmd) > limit {
		for limit > 0 && !utf8.RuneStart(refCmd[limit]) {
			limit--
		}
		refCmd = refCmd[:limit]
	}
	if !strings.HasSuffix(refCmd, "/value") {
		refCmd += "/value"
	}

	if d.Call(refType, refCmd, "", true, refTag, out) != OK {
		clear(out)
		return Invalid
	}
	data, ok := out["api_data"]
	if !ok {
		clear(out)
		return Invalid
	}
	value := fmt.Sprint(data)

	d.logger.Debug("entity reference resolved", "reference", ref, "value", value)
	clear(out)
	return d.Call(t, command, value, isAdmin, tag, out)
}

// Call invokes a resolved command.
//
// An empty value is a query: when cmd names a readable entity its
// description is written to out and no handler runs. Otherwise the handler
// registered for cmd is looked up, access is checked, and the handler is
// invoked with value and tag. A tagged write only matches a command
// registered for the tag's family.
func (d *Dispatcher) Call(t device.Type, cmd, value string, isAdmin bool, tag device.Tag, out Output) ReturnCode {
	if cmd == "" {
		return NotFound
	}

	query := value == ""
	if query && d.catalog.ReadEntity(out, cmd, tag, t) {
		d.logger.Debug("entity read", "device", t.String(), "command", cmd, "tag", tag.String())
		return OK
	}

	deviceID := d.catalog.DeviceIDFromCommand(t, cmd, tag)
	family := FamilyOf(tag)
	cf, ok := d.registry.Find(t, deviceID, cmd, family)
	if !ok && query && family != FamilyNone {
		// device-wide queries such as "values" take the tag as a filter
		cf, ok = d.registry.findDeviceWide(t, deviceID, cmd)
	}
	if !ok {
		d.logger.Warn("unknown command", "device", t.String(), "command", cmd, "tag", tag.String())
		return Error
	}

	if cf.HasFlags(FlagAdminOnly) && !isAdmin {
		d.logger.Warn("command not allowed", "device", t.String(), "command", cmd)
		return message(NotAllowed, "authentication failed", out)
	}

	d.logger.Info("calling command",
		"device", t.String(),
		"command", cf.Name,
		"tag", tag.String(),
		"device_id", fmt.Sprintf("0x%02X", deviceID),
		"value", value,
		"description", cf.Description,
	)

	var rc ReturnCode
	switch h := cf.Handler.(type) {
	case OutputFunc:
		rc = result(h(value, tag, out))
	case ValueFunc:
		if !query && d.catalog.IsReadOnly(t, deviceID, cmd, tag) {
			rc = Invalid
		} else {
			rc = result(h(value, tag))
		}
	default:
		rc = Error
	}

	if rc != OK {
		d.logger.Error("command failed",
			"device", t.String(),
			"command", cf.Name,
			"value", value,
			"code", rc.String(),
		)
		clear(out)
		out["message"] = "callback function failed"
		out["code"] = int(rc)
		return rc
	}
	return OK
}

// CallSimple invokes a command with admin rights and discards the output.
func (d *Dispatcher) CallSimple(t device.Type, cmd, value string, tag device.Tag) ReturnCode {
	return d.Call(t, cmd, value, true, tag, Output{})
}

// DeviceHasCommands reports whether commands can be addressed to t.
func (d *Dispatcher) DeviceHasCommands(t device.Type) bool {
	switch t {
	case device.TypeUnknown:
		return false
	case device.TypeSystem, device.TypeScheduler, device.TypeCustom:
		return true
	case device.TypeTemperatureSensor:
		return d.opts.TemperatureSensors
	case device.TypeAnalogSensor:
		return d.opts.AnalogSensors
	}
	return d.catalog.HasDevice(t) && d.registry.HasCommands(t)
}

func result(ok bool) ReturnCode {
	if ok {
		return OK
	}
	return Error
}
