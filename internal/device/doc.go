// Package device provides the live device catalogue for the EMS gateway.
//
// The catalogue holds every device discovered on the heating control bus
// (boilers, thermostats, mixers, solar modules, ...) together with the
// entities ("values") each device exposes. It is the collaborator the command
// dispatcher calls into when it needs to:
//
//   - resolve a device name to a device type (TypeFromName)
//   - check whether a device type is present on the bus (HasDevice)
//   - find the bus id of the device owning an entity (DeviceIDFromCommand)
//   - read an entity directly for a query without a value (ReadEntity)
//   - decide whether a write must be refused (IsReadOnly)
//
// # Tags
//
// Many values belong to a logical sub-unit of a device: a heating circuit,
// a domestic hot water loop or a heat source. The sub-unit is identified by a
// Tag. Each family of tags occupies its own contiguous range:
//
//	TagHC1  .. TagHC8    1 .. 8   heating circuits
//	TagDHW1 .. TagDHW10  9 .. 18  hot water loops
//	TagAHS1              19       auxiliary heat source
//	TagHS1  .. TagHS16   20 .. 35 heat sources
//
// # Thread Safety
//
// Registry methods are safe for concurrent use. Devices returned from the
// registry are deep copies.
package device
