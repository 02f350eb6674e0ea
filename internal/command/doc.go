// Package command is the command-addressing and dispatch layer of the EMS
// gateway.
//
// Both transports (the web API under "api/" and the MQTT topic namespace
// under the configured base topic) hand this package a raw path and an
// optional JSON body. The Dispatcher works out which device type, which
// sub-unit (heating circuit, hot water loop, heat source), which command and
// which value are meant, and invokes the handler registered for it.
//
// # Components
//
//   - ParseURI: splits a path-like string into segments and query params
//   - ParseCommandString: strips a tag prefix ("hc2/", "dhw.", "hs12_") from
//     a command and returns the resolved device.Tag
//   - Registry: the flat, insertion-ordered list of registered commands
//   - Dispatcher: Process (path + body) and Call (resolved invocation)
//
// # Addressing
//
//	api/thermostat/hc2/seltemp            {"value": 21.5}
//	ems-esp/thermostat/seltemp            {"hc": 2, "value": 21.5}
//	api/boiler                            {"cmd": "dhw.seltemp", "data": 55}
//	api/thermostat/hc1/seltemp            {"value": "boiler/dhw.wwseltemp"}
//
// The last form is an entity reference: the value is read from another
// entity before the outer command runs.
//
// # Results
//
// Nothing in this package returns a Go error to the caller. Every outcome is
// a ReturnCode plus an optional "message" written into the Output.
//
// # Thread Safety
//
// The Registry guards its command list with a RWMutex; handlers are called
// without the lock held and must not register or remove commands.
package command
