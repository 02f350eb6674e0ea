package command

import (
	"maps"
	"slices"
	"testing"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		segments []string
		params   map[string]string
		path     string
	}{
		{
			name:     "plain path",
			input:    "/api/thermostat/hc2/seltemp",
			segments: []string{"api", "thermostat", "hc2", "seltemp"},
			params:   map[string]string{},
			path:     "/api/thermostat/hc2/seltemp",
		},
		{
			name:     "repeated and trailing separators",
			input:    "//one/two////three///",
			segments: []string{"one", "two", "three"},
			params:   map[string]string{},
			path:     "/one/two/three",
		},
		{
			name:     "query",
			input:    "/api/boiler?cmd=wwseltemp&value=55",
			segments: []string{"api", "boiler"},
			params:   map[string]string{"cmd": "wwseltemp", "value": "55"},
			path:     "/api/boiler",
		},
		{
			name:     "key without value",
			input:    "api?flag&x=1",
			segments: []string{"api"},
			params:   map[string]string{"flag": "", "x": "1"},
			path:     "/api",
		},
		{
			name:     "unterminated last key",
			input:    "a?x=1&y",
			segments: []string{"a"},
			params:   map[string]string{"x": "1", "y": ""},
			path:     "/a",
		},
		{
			name:     "trailing ampersand keeps value",
			input:    "a?x=1&",
			segments: []string{"a"},
			params:   map[string]string{"x": "1"},
			path:     "/a",
		},
		{
			name:     "reference in query value",
			input:    "api/thermostat/seltemp?value=boiler/wwseltemp",
			segments: []string{"api", "thermostat", "seltemp"},
			params:   map[string]string{"value": "boiler/wwseltemp"},
			path:     "/api/thermostat/seltemp",
		},
		{
			name:     "value at start",
			input:    "x=1",
			segments: nil,
			params:   map[string]string{"x": "1"},
			path:     "/",
		},
		{
			name:     "empty",
			input:    "",
			segments: nil,
			params:   map[string]string{},
			path:     "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := ParseURI(tt.input)
			if !slices.Equal(u.Segments(), tt.segments) {
				t.Errorf("Segments() = %q, want %q", u.Segments(), tt.segments)
			}
			if !maps.Equal(u.Params(), tt.params) {
				t.Errorf("Params() = %v, want %v", u.Params(), tt.params)
			}
			if got := u.Path(); got != tt.path {
				t.Errorf("Path() = %q, want %q", got, tt.path)
			}
		})
	}
}

func TestParseURI_NoEmptySegments(t *testing.T) {
	inputs := []string{"/", "///", "a//b", "/a/b/", "a/b/c?k=v", "?"}
	for _, in := range inputs {
		for _, s := range ParseURI(in).Segments() {
			if s == "" {
				t.Errorf("ParseURI(%q) produced an empty segment", in)
			}
		}
	}
}

func TestReturnCode_String(t *testing.T) {
	tests := []struct {
		rc   ReturnCode
		want string
	}{
		{Fail, "Failed"},
		{OK, "OK"},
		{NotFound, "Not Found"},
		{Error, "Error"},
		{NotAllowed, "Not Authorized"},
		{Invalid, "Invalid"},
		{ReturnCode(42), "42"},
	}
	for _, tt := range tests {
		if got := tt.rc.String(); got != tt.want {
			t.Errorf("ReturnCode(%d).String() = %q, want %q", tt.rc, got, tt.want)
		}
	}
}
