package device

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk description of the devices present on a bus.
// It stands in for live bus enumeration during commissioning and testing.
//
//	readonly: false
//	devices:
//	  - type: boiler
//	    id: 8
//	    name: GB192i
//	    values:
//	      - name: wwseltemp
//	        tag: dhw1
//	        fullname: selected temperature
//	        kind: number
//	        unit: °C
//	        value: 55
//	        min: 30
//	        max: 80
//	        writeable: true
type Fixture struct {
	ReadOnly bool            `yaml:"readonly"`
	Devices  []fixtureDevice `yaml:"devices"`
}

type fixtureDevice struct {
	Type    string         `yaml:"type"`
	ID      uint8          `yaml:"id"`
	Name    string         `yaml:"name"`
	Brand   string         `yaml:"brand"`
	Version string         `yaml:"version"`
	Values  []fixtureValue `yaml:"values"`
}

type fixtureValue struct {
	Value `yaml:",inline"`
	Tag   string `yaml:"tag"`
}

// ParseTag parses the textual form produced by Tag.String. The empty string
// yields TagNone.
func ParseTag(s string) (Tag, bool) {
	if s == "" {
		return TagNone, true
	}
	for t := TagHC1; t <= TagHS16; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return TagNone, false
}

// LoadFile reads a YAML device fixture and returns the devices it describes
// together with the requested read-only mode.
func LoadFile(path string) ([]Device, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading device file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML device fixture.
func Parse(data []byte) ([]Device, bool, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("parsing device file: %w", err)
	}

	devices := make([]Device, 0, len(f.Devices))
	for i, fd := range f.Devices {
		t := TypeFromName(fd.Type)
		if t == TypeUnknown {
			return nil, false, fmt.Errorf("%w: devices[%d]: unknown type %q", ErrInvalidFixture, i, fd.Type)
		}
		d := Device{
			Type:    t,
			ID:      fd.ID,
			Name:    fd.Name,
			Brand:   fd.Brand,
			Version: fd.Version,
			Values:  make([]Value, 0, len(fd.Values)),
		}
		for j, fv := range fd.Values {
			v, err := fv.toValue()
			if err != nil {
				return nil, false, fmt.Errorf("%w: devices[%d].values[%d]: %w", ErrInvalidFixture, i, j, err)
			}
			d.Values = append(d.Values, v)
		}
		devices = append(devices, d)
	}
	return devices, f.ReadOnly, nil
}

func (fv fixtureValue) toValue() (Value, error) {
	v := fv.Value
	if v.Name == "" {
		return v, fmt.Errorf("name is required")
	}
	tag, ok := ParseTag(fv.Tag)
	if !ok {
		return v, fmt.Errorf("unknown tag %q", fv.Tag)
	}
	v.Tag = tag

	if v.Kind == "" {
		v.Kind = KindText
	}
	switch v.Kind {
	case KindNumber:
		switch n := v.Value.(type) {
		case int:
			v.Value = float64(n)
		case float64, nil:
		default:
			return v, fmt.Errorf("value %v is not a number", n)
		}
	case KindBoolean, KindText:
	case KindEnum:
		if len(v.Options) == 0 {
			return v, fmt.Errorf("enum %q has no options", v.Name)
		}
	default:
		return v, fmt.Errorf("unknown kind %q", v.Kind)
	}
	return v, nil
}
