package device

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// key identifies a device in the registry.
type key struct {
	t  Type
	id uint8
}

// Registry is the in-memory catalogue of live devices.
//
// It is rebuilt whenever the bus is (re)enumerated and is read on every
// command dispatch. All public methods are thread-safe.
type Registry struct {
	devices  map[key]*Device
	readOnly bool
	mu       sync.RWMutex
	logger   Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[key]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Add stores a device, replacing any device with the same type and bus id.
func (r *Registry) Add(d Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[key{d.Type, d.ID}] = d.DeepCopy()
	r.logger.Debug("device added", "type", d.Type.String(), "id", d.ID, "values", len(d.Values))
}

// Remove deletes a device. Removing an absent device is a no-op.
func (r *Registry) Remove(t Type, id uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, key{t, id})
}

// Reset removes every device.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices = make(map[key]*Device)
}

// Get returns a copy of the device with the given type and bus id.
func (r *Registry) Get(t Type, id uint8) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[key{t, id}]
	if !ok {
		return nil, fmt.Errorf("%w: %s 0x%02X", ErrDeviceNotFound, t, id)
	}
	return d.DeepCopy(), nil
}

// List returns copies of all devices ordered by type then bus id.
func (r *Registry) List() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	devices := make([]Device, 0, len(r.devices))
	for _, d := range r.sortedLocked() {
		devices = append(devices, *d.DeepCopy())
	}
	return devices
}

// Count returns the number of devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Types returns the distinct device types present, in display order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var types []Type
	for _, d := range r.sortedLocked() {
		if !slices.Contains(types, d.Type) {
			types = append(types, d.Type)
		}
	}
	return types
}

// HasDevice reports whether at least one device of type t is present.
func (r *Registry) HasDevice(t Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for k := range r.devices {
		if k.t == t {
			return true
		}
	}
	return false
}

// SetReadOnlyMode switches the global read-only mode. While enabled no bus
// entity accepts writes.
func (r *Registry) SetReadOnlyMode(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readOnly = enabled
}

// ReadOnlyMode reports whether the global read-only mode is enabled.
func (r *Registry) ReadOnlyMode() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.readOnly
}

// DeviceIDFromCommand returns the bus id of the device of type t that owns
// the entity cmd under tag. It returns 0 (any device) when none matches.
func (r *Registry) DeviceIDFromCommand(t Type, cmd string, tag Tag) uint8 {
	name, _, _ := strings.Cut(cmd, "/")

	r.mu.RLock()
	defer r.mu.RUnlock()
	d, _ := r.findLocked(t, 0, name, tag)
	if d == nil {
		return 0
	}
	return d.ID
}

// ReadEntity writes the description of entity cmd under tag into out.
//
// cmd is either a bare entity name ("seltemp") or an entity name followed by
// an attribute ("seltemp/value"). With an attribute, out is replaced by a
// single "api_data" field holding the attribute rendered as text; this is
// what entity references in command values read.
//
// It returns false and leaves out untouched when no entity matches.
func (r *Registry) ReadEntity(out map[string]any, cmd string, tag Tag, t Type) bool {
	name, attribute, _ := strings.Cut(cmd, "/")
	if name == "" {
		return false
	}

	r.mu.RLock()
	_, v := r.findLocked(t, 0, name, tag)
	var info map[string]any
	if v != nil && v.Value != nil {
		info = entityInfo(v)
	}
	r.mu.RUnlock()

	if info == nil {
		return false
	}

	if attribute != "" {
		data, ok := info[strings.ToLower(attribute)]
		if !ok {
			return false
		}
		clear(out)
		out["api_data"] = renderValue(data)
		return true
	}

	for k, val := range info {
		out[k] = val
	}
	return true
}

// IsReadOnly reports whether a write to cmd on the device (t, id) under tag
// must be refused. Commands not backed by a bus device are never read-only.
func (r *Registry) IsReadOnly(t Type, id uint8, cmd string, tag Tag) bool {
	if !t.IsBusDevice() {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.readOnly {
		return true
	}
	_, v := r.findLocked(t, id, cmd, tag)
	if v == nil {
		return false
	}
	return !v.CanWrite()
}

// Values returns copies of the values of all devices of type t, restricted to
// tag unless tag is TagNone.
func (r *Registry) Values(t Type, tag Tag) []Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var values []Value
	for _, d := range r.sortedLocked() {
		if d.Type != t {
			continue
		}
		for i := range d.Values {
			if tag == TagNone || d.Values[i].Tag == tag {
				values = append(values, d.Values[i].copyValue())
			}
		}
	}
	return values
}

// SetValue parses raw according to the entity kind and stores it.
// id 0 selects the first device of type t that has the entity.
func (r *Registry) SetValue(t Type, id uint8, name string, tag Tag, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, v := r.findLocked(t, id, name, tag)
	if v == nil {
		return fmt.Errorf("%w: %s/%s", ErrValueNotFound, t, qualifiedName(name, tag))
	}
	if !v.CanWrite() {
		return fmt.Errorf("%w: %s/%s", ErrValueReadOnly, t, qualifiedName(name, tag))
	}

	parsed, err := parseValue(v, raw)
	if err != nil {
		return err
	}
	v.Value = parsed
	r.logger.Debug("device value set", "type", t.String(), "id", d.ID, "value", qualifiedName(name, tag), "new", parsed)
	return nil
}

// findLocked returns the first device and value matching the arguments.
// id 0 and TagNone act as wildcards. Caller must hold r.mu.
func (r *Registry) findLocked(t Type, id uint8, name string, tag Tag) (*Device, *Value) {
	for _, d := range r.sortedLocked() {
		if d.Type != t || (id != 0 && d.ID != id) {
			continue
		}
		for i := range d.Values {
			v := &d.Values[i]
			if strings.EqualFold(v.Name, name) && (tag == TagNone || v.Tag == tag) {
				return d, v
			}
		}
	}
	return nil, nil
}

// sortedLocked returns the devices ordered by type then id. Caller must hold r.mu.
func (r *Registry) sortedLocked() []*Device {
	devices := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		devices = append(devices, d)
	}
	slices.SortFunc(devices, func(a, b *Device) int {
		if a.Type != b.Type {
			return int(a.Type) - int(b.Type)
		}
		return int(a.ID) - int(b.ID)
	})
	return devices
}

// entityInfo builds the attribute map reported for a single entity.
func entityInfo(v *Value) map[string]any {
	info := map[string]any{
		"name":      v.Name,
		"fullname":  v.FullName,
		"value":     v.Value,
		"type":      string(v.Kind),
		"readable":  true,
		"writeable": v.CanWrite(),
	}
	if tag := v.Tag.String(); tag != "" {
		info["circuit"] = tag
	}
	if v.Unit != "" {
		info["uom"] = v.Unit
	}
	if v.Min != nil {
		info["min"] = *v.Min
	}
	if v.Max != nil {
		info["max"] = *v.Max
	}
	if len(v.Options) > 0 {
		info["options"] = append([]string(nil), v.Options...)
	}
	return info
}

// parseValue converts raw into the representation used by the entity kind.
func parseValue(v *Value, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch v.Kind {
	case KindNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
		}
		if (v.Min != nil && f < *v.Min) || (v.Max != nil && f > *v.Max) {
			return nil, fmt.Errorf("%w: %v out of range", ErrInvalidValue, f)
		}
		return f, nil
	case KindBoolean:
		switch strings.ToLower(raw) {
		case "1", "true", "on", "yes":
			return true, nil
		case "0", "false", "off", "no":
			return false, nil
		}
		return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
	case KindEnum:
		for _, opt := range v.Options {
			if strings.EqualFold(opt, raw) {
				return opt, nil
			}
		}
		if idx, err := strconv.Atoi(raw); err == nil && idx >= 0 && idx < len(v.Options) {
			return v.Options[idx], nil
		}
		return nil, fmt.Errorf("%w: %q is not one of %v", ErrInvalidValue, raw, v.Options)
	default:
		return raw, nil
	}
}

// renderValue renders an attribute as the text form used by api_data.
func renderValue(val any) string {
	switch x := val.(type) {
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

func qualifiedName(name string, tag Tag) string {
	if s := tag.String(); s != "" {
		return s + "/" + name
	}
	return name
}
