package command

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/spf13/cast"

	"github.com/nerrad567/gray-logic-ems/internal/device"
)

// normalizeValue renders a JSON body value as the text handlers receive.
// Floats keep two decimals and booleans become "1" or "0". It returns false
// for values that have no text form (objects, arrays).
func normalizeValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, true
	case bool:
		if x {
			return "1", true
		}
		return "0", true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return strconv.FormatInt(i, 10), true
		}
		f, err := x.Float64()
		if err != nil {
			return "", false
		}
		return formatFloat(f), true
	case float32:
		return formatFloat(float64(x)), true
	case float64:
		return formatFloat(x), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToString(x), true
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// bodyTagFields are the body keys that select a sub-unit, in precedence
// order, with the offset added to the number found.
var bodyTagFields = []struct {
	key    string
	offset device.Tag
}{
	{"hc", 0},
	{"dhw", device.TagDHW1 - device.TagHC1},
	{"id", 0},
	{"ahs", device.TagAHS1 - device.TagHC1},
	{"hs", device.TagHS1 - device.TagHC1},
}

// tagFromBody returns the tag selected by the first tag field present in
// input. A present field whose value is not a number stops the search and
// yields TagNone.
func tagFromBody(input map[string]any) device.Tag {
	for _, f := range bodyTagFields {
		raw, ok := input[f.key]
		if !ok {
			continue
		}
		if num, isNum := raw.(json.Number); isNum {
			raw = num.String()
		}
		n, err := cast.ToInt8E(raw)
		if err != nil {
			return device.TagNone
		}
		return device.Tag(n) + f.offset
	}
	return device.TagNone
}

// valueFromBody returns the body field carrying the command value; "data"
// wins over "value".
func valueFromBody(input map[string]any) (any, bool) {
	if v, ok := input["data"]; ok {
		return v, true
	}
	v, ok := input["value"]
	return v, ok
}
