package command

import (
	"encoding/json"
	"testing"

	"github.com/nerrad567/gray-logic-ems/internal/device"
)

type call struct {
	cmd   string
	value string
	tag   device.Tag
}

// recorder hands out handlers that record their invocations.
type recorder struct {
	calls []call
}

func (r *recorder) value(cmd string) ValueFunc {
	return func(value string, tag device.Tag) bool {
		r.calls = append(r.calls, call{cmd, value, tag})
		return true
	}
}

func (r *recorder) output(cmd string, ok bool) OutputFunc {
	return func(value string, tag device.Tag, out Output) bool {
		r.calls = append(r.calls, call{cmd, value, tag})
		out["called"] = cmd
		return ok
	}
}

func (r *recorder) last() (call, bool) {
	if len(r.calls) == 0 {
		return call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

func floatPtr(f float64) *float64 { return &f }

func newTestCatalog() *device.Registry {
	c := device.NewRegistry()
	c.Add(device.Device{
		Type: device.TypeBoiler,
		ID:   0x08,
		Name: "GB192i",
		Values: []device.Value{
			{Tag: device.TagNone, Name: "curflowtemp", Kind: device.KindNumber, Value: 48.5},
			{Tag: device.TagDHW1, Name: "wwseltemp", Kind: device.KindNumber, Value: 55.0, Min: floatPtr(30), Max: floatPtr(80), Writeable: true},
			{Tag: device.TagHS1, Name: "burnpower", Kind: device.KindNumber, Value: 30.0, Writeable: true, ReadOnly: true},
		},
	})
	c.Add(device.Device{
		Type: device.TypeThermostat,
		ID:   0x10,
		Name: "RC310",
		Values: []device.Value{
			{Tag: device.TagHC1, Name: "seltemp", Kind: device.KindNumber, Value: 21.5, Writeable: true},
			{Tag: device.TagHC1 + 1, Name: "seltemp", Kind: device.KindNumber, Value: 19.0, Writeable: true},
		},
	})
	return c
}

func newTestDispatcher(opts Options) (*Dispatcher, *recorder) {
	rec := &recorder{}
	r := NewRegistry()
	r.AddValue(device.TypeBoiler, 0x08, FamilyHotWater, "wwseltemp", rec.value("wwseltemp"), "selected temperature", 0)
	r.AddValue(device.TypeBoiler, 0x08, FamilyHeatSource, "burnpower", rec.value("burnpower"), "burner power", 0)
	r.AddOutput(device.TypeBoiler, CommandValues, rec.output(CommandValues, true), DescriptionValues, 0)
	r.AddOutput(device.TypeBoiler, "broken", rec.output("broken", false), "always fails", 0)
	r.AddValue(device.TypeThermostat, 0x10, FamilyCircuit, "seltemp", rec.value("seltemp"), "selected room temperature", 0)
	r.AddValue(device.TypeThermostat, 0, FamilyNone, "datetime", rec.value("datetime"), "date and time", FlagAdminOnly)
	r.AddOutput(device.TypeThermostat, CommandValues, rec.output(CommandValues, true), DescriptionValues, 0)
	r.AddOutput(device.TypeMixer, CommandValues, rec.output(CommandValues, true), DescriptionValues, 0)
	r.AddOutput(device.TypeSystem, CommandInfo, rec.output(CommandInfo, true), DescriptionInfo, 0)

	if opts.TopicBase == "" {
		opts.TopicBase = "ems-esp"
	}
	return NewDispatcher(r, newTestCatalog(), opts), rec
}

func TestDispatcher_ProcessWrites(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		input map[string]any
		want  call
	}{
		{
			name:  "tag in path",
			path:  "api/thermostat/hc2/seltemp",
			input: map[string]any{"value": 20.5},
			want:  call{"seltemp", "20.50", device.TagHC1 + 1},
		},
		{
			name:  "topic base",
			path:  "ems-esp/thermostat/hc1.seltemp",
			input: map[string]any{"value": "21"},
			want:  call{"seltemp", "21", device.TagHC1},
		},
		{
			name:  "hc field wins over dhw",
			path:  "ems-esp/thermostat/seltemp",
			input: map[string]any{"dhw": 1, "hc": 2, "value": "21"},
			want:  call{"seltemp", "21", device.TagHC1 + 1},
		},
		{
			name:  "path tag wins over hc field",
			path:  "api/thermostat/hc1/seltemp",
			input: map[string]any{"hc": 2, "value": "21"},
			want:  call{"seltemp", "21", device.TagHC1},
		},
		{
			name:  "hc field wins over id",
			path:  "api/thermostat/seltemp",
			input: map[string]any{"id": 3, "hc": 2, "value": "21"},
			want:  call{"seltemp", "21", device.TagHC1 + 1},
		},
		{
			name:  "dhw field offset",
			path:  "api/boiler/wwseltemp",
			input: map[string]any{"dhw": json.Number("1"), "value": json.Number("60")},
			want:  call{"wwseltemp", "60", device.TagDHW1},
		},
		{
			name:  "data wins over value",
			path:  "api/boiler/dhw/wwseltemp",
			input: map[string]any{"data": "61", "value": "62"},
			want:  call{"wwseltemp", "61", device.TagDHW1},
		},
		{
			name:  "device and command from body",
			path:  "api",
			input: map[string]any{"device": "boiler", "cmd": "dhw.wwseltemp", "value": 58},
			want:  call{"wwseltemp", "58", device.TagDHW1},
		},
		{
			name:  "entity wins over cmd",
			path:  "api/boiler",
			input: map[string]any{"entity": "dhw1_wwseltemp", "cmd": "values", "value": true},
			want:  call{"wwseltemp", "1", device.TagDHW1},
		},
		{
			name:  "entity reference",
			path:  "api/thermostat/hc1/seltemp",
			input: map[string]any{"value": "boiler/dhw.wwseltemp"},
			want:  call{"seltemp", "55", device.TagHC1},
		},
		{
			name:  "entity reference with explicit attribute",
			path:  "api/thermostat/hc1/seltemp",
			input: map[string]any{"value": "boiler/dhw.WWSELTEMP/value"},
			want:  call{"seltemp", "55", device.TagHC1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDispatcher(Options{})
			out := Output{}
			if rc := d.Process(tt.path, false, tt.input, out); rc != OK {
				t.Fatalf("Process() = %v, output %v", rc, out)
			}
			got, ok := rec.last()
			if !ok || got != tt.want {
				t.Errorf("handler call = %+v, want %+v", got, tt.want)
			}
			if len(out) != 0 {
				t.Errorf("output = %v, want empty", out)
			}
		})
	}
}

func TestDispatcher_ProcessErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		input   map[string]any
		want    ReturnCode
		message string
		invoked bool
	}{
		{"empty path", "", nil, Error, "invalid path", false},
		{"foreign prefix", "foo/boiler", nil, Error, "unrecognized path", false},
		{"base without separator", "ems-espboiler", nil, Error, "unrecognized path", false},
		{"api only", "api", nil, Error, "missing command in path", false},
		{"unknown device", "api/toaster/x", nil, Error, "unknown device", false},
		{"disabled sensors", "api/temperaturesensor", nil, Error, "unknown device", false},
		{"commands without device", "api/mixer", nil, Error, "unknown device", false},
		{"unparseable value", "api/boiler/dhw/wwseltemp", map[string]any{"value": []any{1}}, Error, "cannot parse command", false},
		{"admin only", "api/thermostat/datetime", map[string]any{"value": "2024-01-01"}, NotAllowed, "authentication failed", false},
		{"read-only entity", "api/boiler/hs1/burnpower", map[string]any{"value": "50"}, Invalid, "callback function failed", false},
		{"handler failure", "api/boiler/broken", nil, Error, "callback function failed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDispatcher(Options{})
			out := Output{"stale": true}
			rc := d.Process(tt.path, false, tt.input, out)
			if rc != tt.want {
				t.Errorf("Process() = %v, want %v", rc, tt.want)
			}
			if out["message"] != tt.message {
				t.Errorf("message = %v, want %q", out["message"], tt.message)
			}
			if _, ok := out["stale"]; ok {
				t.Error("output not cleared")
			}
			if invoked := len(rec.calls) != 0; invoked != tt.invoked {
				t.Errorf("handler calls = %+v, want invoked %v", rec.calls, tt.invoked)
			}
		})
	}
}

func TestDispatcher_HandlerFailureCode(t *testing.T) {
	tests := []struct {
		path  string
		input map[string]any
		want  ReturnCode
	}{
		{"api/boiler/hs1/burnpower", map[string]any{"value": 10}, Invalid},
		{"api/boiler/broken", nil, Error},
	}
	for _, tt := range tests {
		d, _ := newTestDispatcher(Options{})
		out := Output{}
		if rc := d.Process(tt.path, true, tt.input, out); rc != tt.want {
			t.Errorf("Process(%q) = %v, want %v", tt.path, rc, tt.want)
		}
		if out["code"] != int(tt.want) {
			t.Errorf("%s: code = %v, want %d", tt.path, out["code"], tt.want)
		}
	}
}

func TestDispatcher_TaggedWriteNeedsFamily(t *testing.T) {
	d, rec := newTestDispatcher(Options{})
	out := Output{}
	if rc := d.Process("api/thermostat/hc1/datetime", true, map[string]any{"value": "x"}, out); rc != Error {
		t.Errorf("Process() = %v, want Error", rc)
	}
	if len(rec.calls) != 0 {
		t.Errorf("handler invoked: %+v", rec.calls)
	}
}

func TestDispatcher_GlobalReadOnly(t *testing.T) {
	d, rec := newTestDispatcher(Options{})
	d.catalog.(*device.Registry).SetReadOnlyMode(true)

	out := Output{}
	if rc := d.Process("api/thermostat/hc1/seltemp", false, map[string]any{"value": "22"}, out); rc != Invalid {
		t.Errorf("write: Process() = %v, want Invalid", rc)
	}
	if len(rec.calls) != 0 {
		t.Errorf("handler invoked: %+v", rec.calls)
	}

	out = Output{}
	if rc := d.Process("api/thermostat/hc1/seltemp", false, nil, out); rc != OK {
		t.Fatalf("query: Process() = %v, want OK", rc)
	}
	if out["value"] != 21.5 {
		t.Errorf("query value = %v, want 21.5", out["value"])
	}
}

func TestDispatcher_ReferenceTruncationKeepsRunes(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.AddValue(device.TypeThermostat, 0x10, FamilyCircuit, "seltemp", rec.value("seltemp"), "selected room temperature", 0)

	c := newTestCatalog()
	c.Add(device.Device{
		Type: device.TypeMixer,
		ID:   0x21,
		Name: "MM100",
		Values: []device.Value{
			{Tag: device.TagNone, Name: "ab", Kind: device.KindNumber, Value: 34.0},
		},
	})
	// "abé" is four bytes; a three-byte bound would split the é
	d := NewDispatcher(r, c, Options{TopicBase: "ems-esp", MaxReferenceLength: 3})

	out := Output{}
	if rc := d.Process("api/thermostat/hc1/seltemp", true, map[string]any{"value": "mixer/abé"}, out); rc != OK {
		t.Fatalf("Process() = %v, output %v", rc, out)
	}
	if got, _ := rec.last(); got.value != "34" {
		t.Errorf("handler value = %q, want 34", got.value)
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, rec := newTestDispatcher(Options{})
	out := Output{}
	if rc := d.Process("api/boiler/nothing", false, map[string]any{"value": "1"}, out); rc != Error {
		t.Errorf("Process() = %v, want Error", rc)
	}
	if len(rec.calls) != 0 {
		t.Errorf("handler invoked: %+v", rec.calls)
	}
}

func TestDispatcher_AdminAllowed(t *testing.T) {
	d, rec := newTestDispatcher(Options{})
	if rc := d.Process("api/thermostat/datetime", true, map[string]any{"value": "x"}, Output{}); rc != OK {
		t.Fatalf("Process() = %v, want OK", rc)
	}
	if got, _ := rec.last(); got.cmd != "datetime" {
		t.Errorf("last call = %+v", got)
	}
}

func TestDispatcher_Queries(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		field  string
		want   any
		called string
	}{
		{"entity read", "api/thermostat/hc2/seltemp", "value", 19.0, ""},
		{"read-only entity can be read", "api/boiler/hs1/burnpower", "value", 30.0, ""},
		{"default values", "api/boiler", "called", CommandValues, CommandValues},
		{"default values with tag", "api/thermostat/hc2", "called", CommandValues, CommandValues},
		{"default info for system", "api/system", "called", CommandInfo, CommandInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDispatcher(Options{})
			out := Output{}
			if rc := d.Process(tt.path, false, nil, out); rc != OK {
				t.Fatalf("Process() = %v, output %v", rc, out)
			}
			if out[tt.field] != tt.want {
				t.Errorf("out[%q] = %v, want %v", tt.field, out[tt.field], tt.want)
			}
			got, ok := rec.last()
			if tt.called == "" && ok {
				t.Errorf("handler invoked for a query: %+v", got)
			}
			if tt.called != "" && got.cmd != tt.called {
				t.Errorf("handler = %q, want %q", got.cmd, tt.called)
			}
		})
	}
}

func TestDispatcher_DefaultKeepsPathTag(t *testing.T) {
	d, rec := newTestDispatcher(Options{})
	d.Process("api/thermostat/hc2", false, nil, Output{})
	if got, _ := rec.last(); got.tag != device.TagHC1+1 {
		t.Errorf("values called with tag %d, want hc2", got.tag)
	}
}

func TestDispatcher_ReferenceFailures(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ref  string
	}{
		{"unknown entity", Options{}, "boiler/nothing"},
		{"unknown device", Options{}, "toaster/wwseltemp"},
		{"empty entity", Options{}, "boiler/"},
		{"truncated beyond match", Options{MaxReferenceLength: 5}, "boiler/dhw.wwseltemp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newTestDispatcher(tt.opts)
			out := Output{}
			rc := d.Process("api/thermostat/hc1/seltemp", true, map[string]any{"value": tt.ref}, out)
			if rc != Invalid {
				t.Errorf("Process() = %v, want Invalid", rc)
			}
			if len(out) != 0 {
				t.Errorf("output = %v, want empty", out)
			}
			if len(rec.calls) != 0 {
				t.Errorf("handler invoked: %+v", rec.calls)
			}
		})
	}
}

func TestDispatcher_SensorTypes(t *testing.T) {
	d, _ := newTestDispatcher(Options{TemperatureSensors: true})
	if !d.DeviceHasCommands(device.TypeTemperatureSensor) {
		t.Error("enabled temperature sensors have no commands")
	}
	if d.DeviceHasCommands(device.TypeAnalogSensor) {
		t.Error("disabled analog sensors have commands")
	}
	for _, typ := range []device.Type{device.TypeSystem, device.TypeScheduler, device.TypeCustom} {
		if !d.DeviceHasCommands(typ) {
			t.Errorf("DeviceHasCommands(%v) = false", typ)
		}
	}
	if d.DeviceHasCommands(device.TypeUnknown) {
		t.Error("DeviceHasCommands(unknown) = true")
	}
}

func TestDispatcher_CallSimple(t *testing.T) {
	d, rec := newTestDispatcher(Options{})
	if rc := d.CallSimple(device.TypeThermostat, "datetime", "now", device.TagNone); rc != OK {
		t.Fatalf("CallSimple() = %v", rc)
	}
	if got, _ := rec.last(); got.value != "now" {
		t.Errorf("last call = %+v", got)
	}
	if rc := d.Call(device.TypeBoiler, "", "", true, device.TagNone, Output{}); rc != NotFound {
		t.Errorf("Call() with empty command = %v, want NotFound", rc)
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		in     any
		want   string
		wantOK bool
	}{
		{nil, "", true},
		{"text", "text", true},
		{true, "1", true},
		{false, "0", true},
		{42, "42", true},
		{int64(-3), "-3", true},
		{21.5, "21.50", true},
		{float32(0.5), "0.50", true},
		{json.Number("7"), "7", true},
		{json.Number("7.25"), "7.25", true},
		{json.Number("1e2"), "100.00", true},
		{map[string]any{}, "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeValue(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("normalizeValue(%#v) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
