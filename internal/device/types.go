package device

import (
	"strings"
)

// Type is the category of a device on the bus. Commands are registered per
// device type, so every device of the same type shares one command set.
type Type uint8

// Device types. The order is the display order used by listings.
const (
	TypeUnknown Type = iota
	TypeSystem
	TypeCustom
	TypeScheduler
	TypeTemperatureSensor
	TypeAnalogSensor
	TypeBoiler
	TypeThermostat
	TypeMixer
	TypeSolar
	TypeHeatPump
	TypeHeatSource
	TypeSwitch
	TypeVentilation
	TypeWater
	TypePool
	TypeAlert
	TypeExtension
	TypeGateway
	TypeController
	TypeConnect
)

// typeNames maps each type to its path/topic name. Names are not translated.
var typeNames = map[Type]string{
	TypeUnknown:           "unknown",
	TypeSystem:            "system",
	TypeCustom:            "custom",
	TypeScheduler:         "scheduler",
	TypeTemperatureSensor: "temperaturesensor",
	TypeAnalogSensor:      "analogsensor",
	TypeBoiler:            "boiler",
	TypeThermostat:        "thermostat",
	TypeMixer:             "mixer",
	TypeSolar:             "solar",
	TypeHeatPump:          "heatpump",
	TypeHeatSource:        "heatsource",
	TypeSwitch:            "switch",
	TypeVentilation:       "ventilation",
	TypeWater:             "water",
	TypePool:              "pool",
	TypeAlert:             "alert",
	TypeExtension:         "extension",
	TypeGateway:           "gateway",
	TypeController:        "controller",
	TypeConnect:           "connect",
}

// String returns the lower-case device type name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return typeNames[TypeUnknown]
}

// TypeFromName resolves a device name (case-insensitive) to its type.
// Unrecognised or empty names return TypeUnknown.
func TypeFromName(name string) Type {
	if name == "" {
		return TypeUnknown
	}
	for t, n := range typeNames {
		if strings.EqualFold(n, name) {
			return t
		}
	}
	return TypeUnknown
}

// AllTypes returns every known device type except TypeUnknown, in display order.
func AllTypes() []Type {
	types := make([]Type, 0, len(typeNames)-1)
	for t := TypeSystem; t <= TypeConnect; t++ {
		types = append(types, t)
	}
	return types
}

// IsSensor reports whether t is one of the gateway-attached sensor categories.
func (t Type) IsSensor() bool {
	return t == TypeTemperatureSensor || t == TypeAnalogSensor
}

// IsBusDevice reports whether devices of type t live on the control bus,
// as opposed to the gateway's own virtual categories.
func (t Type) IsBusDevice() bool {
	return t >= TypeBoiler
}
