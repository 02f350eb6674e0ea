package command

import (
	"slices"
	"strings"
	"sync"

	"github.com/nerrad567/gray-logic-ems/internal/device"
)

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Flags modify how a command is dispatched and listed.
type Flags uint8

const (
	// FlagAdminOnly refuses the command for non-admin callers.
	FlagAdminOnly Flags = 1 << iota
	// FlagHidden keeps the command out of listings. It can still be called.
	FlagHidden
)

// Handler is either a ValueFunc or an OutputFunc.
type Handler interface {
	isHandler()
}

// ValueFunc handles a command that only consumes a value, typically a write
// to a device entity.
type ValueFunc func(value string, tag device.Tag) bool

// OutputFunc handles a command that produces structured output.
type OutputFunc func(value string, tag device.Tag, out Output) bool

func (ValueFunc) isHandler()  {}
func (OutputFunc) isHandler() {}

// Command describes one registered command.
type Command struct {
	DeviceType device.Type
	// DeviceID is the bus id of the owning device; 0 matches any instance.
	DeviceID    uint8
	Family      Family
	Name        string
	Handler     Handler
	Description string
	Flags       Flags
}

// HasFlags reports whether all bits of f are set.
func (c Command) HasFlags(f Flags) bool {
	return c.Flags&f == f
}

// TaggedName is the name as shown in listings, e.g. "[hc<n>.]seltemp".
func (c Command) TaggedName() string {
	return TaggedName(c.Name, c.Family)
}

// Registry holds every registered command in insertion order.
//
// Lookups are linear scans; registries hold a few hundred entries at most.
// All methods are safe for concurrent use.
type Registry struct {
	commands []Command
	mu       sync.RWMutex
	logger   Logger
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{logger: noopLogger{}}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Add registers cmd. It is a no-op returning false when the handler is nil
// or an equivalent command is already registered: same case-folded name,
// device type and family, with equal device ids or either id 0.
//
// A command without a description is always hidden.
func (r *Registry) Add(cmd Command) bool {
	if cmd.Handler == nil || cmd.Name == "" {
		return false
	}
	switch h := cmd.Handler.(type) {
	case ValueFunc:
		if h == nil {
			return false
		}
	case OutputFunc:
		if h == nil {
			return false
		}
	}
	if cmd.Description == "" {
		cmd.Flags |= FlagHidden
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.commands {
		if c.DeviceType == cmd.DeviceType &&
			c.Family == cmd.Family &&
			(c.DeviceID == cmd.DeviceID || c.DeviceID == 0 || cmd.DeviceID == 0) &&
			strings.EqualFold(c.Name, cmd.Name) {
			return false
		}
	}

	r.commands = append(r.commands, cmd)
	r.logger.Debug("command registered",
		"device", cmd.DeviceType.String(),
		"command", cmd.TaggedName(),
		"device_id", cmd.DeviceID,
	)
	return true
}

// AddValue registers a ValueFunc.
func (r *Registry) AddValue(t device.Type, id uint8, family Family, name string, fn ValueFunc, description string, flags Flags) bool {
	return r.Add(Command{
		DeviceType:  t,
		DeviceID:    id,
		Family:      family,
		Name:        name,
		Handler:     fn,
		Description: description,
		Flags:       flags,
	})
}

// AddOutput registers an OutputFunc for any instance of t.
func (r *Registry) AddOutput(t device.Type, name string, fn OutputFunc, description string, flags Flags) bool {
	return r.Add(Command{
		DeviceType:  t,
		Family:      FamilyNone,
		Name:        name,
		Handler:     fn,
		Description: description,
		Flags:       flags,
	})
}

// Find returns the first command matching the arguments. Name matching is
// case-insensitive; id 0 and FamilyNone match anything.
func (r *Registry) Find(t device.Type, id uint8, name string, family Family) (Command, bool) {
	return r.find(t, id, name, family, family == FamilyNone)
}

// findDeviceWide returns the command registered without a family, if any.
func (r *Registry) findDeviceWide(t device.Type, id uint8, name string) (Command, bool) {
	return r.find(t, id, name, FamilyNone, false)
}

func (r *Registry) find(t device.Type, id uint8, name string, family Family, anyFamily bool) (Command, bool) {
	if name == "" {
		return Command{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.commands {
		if c.DeviceType != t || !strings.EqualFold(c.Name, name) {
			continue
		}
		if id != 0 && c.DeviceID != id {
			continue
		}
		if !anyFamily && c.Family != family {
			continue
		}
		return c, true
	}
	return Command{}, false
}

// RemoveDevice removes every command registered for device type t.
func (r *Registry) RemoveDevice(t device.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.commands[:0]
	removed := 0
	for _, c := range r.commands {
		if c.DeviceType == t {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	clear(r.commands[len(kept):])
	r.commands = kept

	if removed > 0 {
		r.logger.Debug("commands removed", "device", t.String(), "count", removed)
	}
}

// Remove deletes the first command with the given type, name and exact
// family. It reports whether a command was removed.
func (r *Registry) Remove(t device.Type, name string, family Family) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.commands {
		if c.DeviceType == t && c.Family == family && strings.EqualFold(c.Name, name) {
			r.commands = slices.Delete(r.commands, i, i+1)
			r.logger.Debug("command removed", "device", t.String(), "command", c.TaggedName())
			return true
		}
	}
	return false
}

// HasCommands reports whether any command is registered for t.
func (r *Registry) HasCommands(t device.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.commands {
		if c.DeviceType == t {
			return true
		}
	}
	return false
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// snapshot returns a copy of the commands registered for t.
func (r *Registry) snapshot(t device.Type) []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cmds []Command
	for _, c := range r.commands {
		if c.DeviceType == t {
			cmds = append(cmds, c)
		}
	}
	return cmds
}
