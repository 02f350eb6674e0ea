package device

// Kind describes how an entity value is represented and parsed.
type Kind string

// Value kinds.
const (
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindText    Kind = "text"
	KindEnum    Kind = "enum"
)

// Device is a physical (or virtual) device discovered on the bus.
type Device struct {
	Type    Type    `yaml:"-" json:"type"`
	ID      uint8   `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Brand   string  `yaml:"brand,omitempty" json:"brand,omitempty"`
	Version string  `yaml:"version,omitempty" json:"version,omitempty"`
	Values  []Value `yaml:"values" json:"values"`
}

// Value is a single entity exposed by a device, such as a temperature
// setpoint on heating circuit 2.
type Value struct {
	Tag       Tag      `yaml:"-" json:"tag"`
	Name      string   `yaml:"name" json:"name"`
	FullName  string   `yaml:"fullname" json:"fullname"`
	Unit      string   `yaml:"unit,omitempty" json:"unit,omitempty"`
	Kind      Kind     `yaml:"kind" json:"kind"`
	Value     any      `yaml:"value" json:"value"`
	Min       *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Options   []string `yaml:"options,omitempty" json:"options,omitempty"`
	Writeable bool     `yaml:"writeable" json:"writeable"`
	ReadOnly  bool     `yaml:"readonly" json:"readonly"`
}

// CanWrite reports whether a write to the value is accepted at all.
func (v *Value) CanWrite() bool {
	return v.Writeable && !v.ReadOnly
}

// DeepCopy returns an independent copy of the device. Slices are cloned so
// callers may modify the copy without touching the registry.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}
	cpy := *d
	if d.Values != nil {
		cpy.Values = make([]Value, len(d.Values))
		for i := range d.Values {
			cpy.Values[i] = d.Values[i].copyValue()
		}
	}
	return &cpy
}

func (v Value) copyValue() Value {
	if v.Options != nil {
		v.Options = append([]string(nil), v.Options...)
	}
	if v.Min != nil {
		minimum := *v.Min
		v.Min = &minimum
	}
	if v.Max != nil {
		maximum := *v.Max
		v.Max = &maximum
	}
	return v
}
