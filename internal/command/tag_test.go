package command

import (
	"testing"

	"github.com/nerrad567/gray-logic-ems/internal/device"
)

func TestParseCommandString(t *testing.T) {
	tests := []struct {
		input   string
		wantCmd string
		wantTag device.Tag
		wantOK  bool
	}{
		{"hc2/seltemp", "seltemp", device.TagHC1 + 1, true},
		{"HC8.mode", "mode", device.TagHC8, true},
		{"hc1", "", device.TagHC1, false},
		{"hc9/seltemp", "hc9/seltemp", device.TagNone, true},
		{"dhw10_seltemp", "seltemp", device.TagDHW10, true},
		{"dhw3.seltemp", "seltemp", device.TagDHW1 + 2, true},
		{"dhw.seltemp", "seltemp", device.TagDHW1, true},
		{"dhwseltemp", "seltemp", device.TagDHW1, true},
		{"id12/x", "x", device.Tag(12), true},
		{"id5/x", "x", device.Tag(5), true},
		{"ahs1.power", "power", device.TagAHS1, true},
		{"hs16/power", "power", device.TagHS16, true},
		{"hs10/power", "power", device.TagHS10, true},
		{"hs3/power", "power", device.TagHS1 + 2, true},
		{"hs1/power", "power", device.TagHS1, true},
		{"seltemp", "seltemp", device.TagNone, true},
		{"", "", device.TagNone, false},
		{"hc2//x", "/x", device.TagHC1 + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, tag, ok := ParseCommandString(tt.input, device.TagNone)
			if cmd != tt.wantCmd || tag != tt.wantTag || ok != tt.wantOK {
				t.Errorf("ParseCommandString(%q) = (%q, %d, %v), want (%q, %d, %v)",
					tt.input, cmd, tag, ok, tt.wantCmd, tt.wantTag, tt.wantOK)
			}
		})
	}
}

func TestParseCommandString_KeepsTagWithoutPrefix(t *testing.T) {
	cmd, tag, ok := ParseCommandString("seltemp", device.TagHC1+3)
	if cmd != "seltemp" || tag != device.TagHC1+3 || !ok {
		t.Errorf("got (%q, %d, %v)", cmd, tag, ok)
	}
}

// Every tag that renders as a prefix parses back to itself.
func TestParseCommandString_RoundTrip(t *testing.T) {
	for tag := device.TagHC1; tag <= device.TagHS16; tag++ {
		for _, sep := range []string{"/", ".", "_"} {
			input := tag.String() + sep + "entity"
			cmd, got, ok := ParseCommandString(input, device.TagNone)
			if !ok || cmd != "entity" || got != tag {
				t.Errorf("ParseCommandString(%q) = (%q, %d, %v), want (entity, %d, true)", input, cmd, got, ok, tag)
			}
		}
	}
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		tag  device.Tag
		want Family
	}{
		{device.TagNone, FamilyNone},
		{device.TagDeviceData, FamilyNone},
		{device.TagHC1, FamilyCircuit},
		{device.TagHC8, FamilyCircuit},
		{device.TagDHW1, FamilyHotWater},
		{device.TagDHW10, FamilyHotWater},
		{device.TagAHS1, FamilyAuxHeatSource},
		{device.TagHS1, FamilyHeatSource},
		{device.TagHS16, FamilyHeatSource},
	}
	for _, tt := range tests {
		if got := FamilyOf(tt.tag); got != tt.want {
			t.Errorf("FamilyOf(%d) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestTaggedName(t *testing.T) {
	tests := []struct {
		family Family
		want   string
	}{
		{FamilyNone, "seltemp"},
		{FamilyCircuit, "[hc<n>.]seltemp"},
		{FamilyHotWater, "dhw[n].seltemp"},
		{FamilyHeatSource, "hs<n>.seltemp"},
		{FamilyAuxHeatSource, "ahs<n>.seltemp"},
	}
	for _, tt := range tests {
		if got := TaggedName("seltemp", tt.family); got != tt.want {
			t.Errorf("TaggedName(%v) = %q, want %q", tt.family, got, tt.want)
		}
	}
}
