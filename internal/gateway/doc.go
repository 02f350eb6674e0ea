// Package gateway ties the command dispatcher to the device catalogue and
// to the gateway's side channels.
//
// Bootstrap (re)builds the command registry from the devices currently in
// the catalogue: one setter per writeable entity, the values, info and
// commands listings per device type, and the system commands. Service runs
// requests from every transport through the dispatcher and records each
// outcome in the audit log, InfluxDB and the event stream.
package gateway
