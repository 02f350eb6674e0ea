package device

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const fixtureYAML = `
readonly: true
devices:
  - type: boiler
    id: 8
    name: GB192i
    values:
      - name: wwseltemp
        tag: dhw1
        fullname: selected temperature
        kind: number
        value: 55
        min: 30
        max: 80
        writeable: true
      - name: wwcomfort
        tag: dhw1
        kind: enum
        value: hot
        options: [hot, eco]
  - type: Thermostat
    id: 16
    name: RC310
    values:
      - name: seltemp
        tag: hc2
        kind: number
        value: 20.5
        writeable: true
`

func TestParse(t *testing.T) {
	devices, readOnly, err := Parse([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !readOnly {
		t.Error("readonly = false, want true")
	}
	if len(devices) != 2 {
		t.Fatalf("len(devices) = %d, want 2", len(devices))
	}

	boiler := devices[0]
	if boiler.Type != TypeBoiler || boiler.ID != 8 {
		t.Errorf("boiler = %v/%d", boiler.Type, boiler.ID)
	}
	if boiler.Values[0].Tag != TagDHW1 {
		t.Errorf("wwseltemp tag = %d, want %d", boiler.Values[0].Tag, TagDHW1)
	}
	if boiler.Values[0].Value != 55.0 {
		t.Errorf("integer number not normalised: %#v", boiler.Values[0].Value)
	}
	if boiler.Values[0].Max == nil || *boiler.Values[0].Max != 80 {
		t.Errorf("max = %v", boiler.Values[0].Max)
	}

	thermostat := devices[1]
	if thermostat.Type != TypeThermostat || thermostat.Values[0].Tag != TagHC1+1 {
		t.Errorf("thermostat = %+v", thermostat)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown type", "devices:\n  - type: toaster\n"},
		{"unknown tag", "devices:\n  - type: boiler\n    values:\n      - name: x\n        tag: hc9\n"},
		{"missing name", "devices:\n  - type: boiler\n    values:\n      - kind: text\n"},
		{"enum without options", "devices:\n  - type: boiler\n    values:\n      - name: x\n        kind: enum\n"},
		{"bad number", "devices:\n  - type: boiler\n    values:\n      - name: x\n        kind: number\n        value: warm\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidFixture) {
				t.Errorf("Parse() error = %v, want ErrInvalidFixture", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	if err := os.WriteFile(path, []byte(fixtureYAML), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	devices, _, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(devices) != 2 {
		t.Errorf("len(devices) = %d, want 2", len(devices))
	}

	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() on missing file: expected error")
	}
}
