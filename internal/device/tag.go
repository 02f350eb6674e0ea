package device

import "strconv"

// Tag identifies the logical sub-unit of a device a value or command
// belongs to. TagNone means "no sub-unit" and is the default everywhere.
type Tag int8

// Tag bases. Each family is contiguous and the families never overlap.
const (
	TagNone       Tag = -1
	TagDeviceData Tag = 0

	TagHC1 Tag = 1
	TagHC8 Tag = 8

	TagDHW1  Tag = 9
	TagDHW10 Tag = 18

	TagAHS1 Tag = 19

	TagHS1  Tag = 20
	TagHS10 Tag = 29
	TagHS16 Tag = 35
)

// IsCircuit reports whether t is a heating circuit tag.
func (t Tag) IsCircuit() bool { return t >= TagHC1 && t <= TagHC8 }

// IsHotWater reports whether t is a domestic hot water tag.
func (t Tag) IsHotWater() bool { return t >= TagDHW1 && t <= TagDHW10 }

// IsAuxHeatSource reports whether t is the auxiliary heat source tag.
func (t Tag) IsAuxHeatSource() bool { return t == TagAHS1 }

// IsHeatSource reports whether t is a heat source tag.
func (t Tag) IsHeatSource() bool { return t >= TagHS1 && t <= TagHS16 }

// String renders the tag the way it appears in paths and topics,
// e.g. "hc2", "dhw1", "ahs1", "hs12". TagNone and TagDeviceData render empty.
func (t Tag) String() string {
	switch {
	case t.IsCircuit():
		return "hc" + strconv.Itoa(int(t-TagHC1)+1)
	case t.IsHotWater():
		return "dhw" + strconv.Itoa(int(t-TagDHW1)+1)
	case t.IsAuxHeatSource():
		return "ahs" + strconv.Itoa(int(t-TagAHS1)+1)
	case t.IsHeatSource():
		return "hs" + strconv.Itoa(int(t-TagHS1)+1)
	default:
		return ""
	}
}
