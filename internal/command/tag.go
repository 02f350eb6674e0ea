package command

import (
	"strings"

	"github.com/nerrad567/gray-logic-ems/internal/device"
)

// ParseCommandString strips a tag prefix from command and returns the
// remaining command name together with the resolved tag.
//
// Recognised prefixes are matched case-insensitively, in this order:
//
//	hc1..hc8        heating circuits
//	dhw10           hot water loop 10
//	dhw1..dhw9      hot water loops
//	id10..id19      raw tag number
//	id1..id9        raw tag number
//	ahs1            auxiliary heat source
//	hs10..hs16      heat sources
//	hs1..hs9        heat sources
//	dhw             hot water loop 1
//
// After a prefix, a single separator ('/', '.' or '_') is consumed. When no
// prefix matches, command and tag are returned unchanged. ok is false when
// the resulting command is empty.
func ParseCommandString(command string, tag device.Tag) (string, device.Tag, bool) {
	at := func(i int) byte {
		if i < len(command) {
			return command[i]
		}
		return 0
	}
	between := func(c, lo, hi byte) bool { return c >= lo && c <= hi }

	n := 0
	switch {
	case hasPrefixFold(command, "hc") && between(at(2), '1', '8'):
		tag, n = device.TagHC1+device.Tag(at(2)-'1'), 3
	case hasPrefixFold(command, "dhw") && at(3) == '1' && at(4) == '0':
		tag, n = device.TagDHW10, 5
	case hasPrefixFold(command, "dhw") && between(at(3), '1', '9'):
		tag, n = device.TagDHW1+device.Tag(at(3)-'1'), 4
	case hasPrefixFold(command, "id") && at(2) == '1' && between(at(3), '0', '9'):
		tag, n = device.Tag(10+at(3)-'0'), 4
	case hasPrefixFold(command, "id") && between(at(2), '1', '9'):
		tag, n = device.Tag(at(2)-'0'), 3
	case hasPrefixFold(command, "ahs") && at(3) == '1':
		tag, n = device.TagAHS1, 4
	case hasPrefixFold(command, "hs") && at(2) == '1' && between(at(3), '0', '6'):
		tag, n = device.TagHS10+device.Tag(at(3)-'0'), 4
	case hasPrefixFold(command, "hs") && between(at(2), '1', '9'):
		tag, n = device.TagHS1+device.Tag(at(2)-'1'), 3
	case hasPrefixFold(command, "dhw"):
		tag, n = device.TagDHW1, 3
	}

	if n == 0 {
		return command, tag, command != ""
	}

	rest := command[n:]
	if rest != "" && (rest[0] == '/' || rest[0] == '.' || rest[0] == '_') {
		rest = rest[1:]
	}
	return rest, tag, rest != ""
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Family is the sub-unit family a command is registered for. It decides how
// the command name is rendered in listings and is part of a command's
// identity in the Registry.
type Family uint8

// Command families.
const (
	FamilyNone Family = iota
	FamilyCircuit
	FamilyHotWater
	FamilyHeatSource
	FamilyAuxHeatSource
)

// FamilyOf returns the family a tag belongs to.
func FamilyOf(tag device.Tag) Family {
	switch {
	case tag.IsCircuit():
		return FamilyCircuit
	case tag.IsHotWater():
		return FamilyHotWater
	case tag.IsAuxHeatSource():
		return FamilyAuxHeatSource
	case tag.IsHeatSource():
		return FamilyHeatSource
	default:
		return FamilyNone
	}
}

func (f Family) String() string {
	switch f {
	case FamilyCircuit:
		return "circuit"
	case FamilyHotWater:
		return "hotwater"
	case FamilyHeatSource:
		return "heatsource"
	case FamilyAuxHeatSource:
		return "auxheatsource"
	default:
		return "none"
	}
}

// TaggedName renders a command name the way it is listed:
// "[hc<n>.]name" for circuits, "dhw[n].name" for hot water, "hs<n>.name" and
// "ahs<n>.name" for heat sources.
func TaggedName(name string, f Family) string {
	switch f {
	case FamilyCircuit:
		return "[hc<n>.]" + name
	case FamilyHotWater:
		return "dhw[n]." + name
	case FamilyHeatSource:
		return "hs<n>." + name
	case FamilyAuxHeatSource:
		return "ahs<n>." + name
	default:
		return name
	}
}
