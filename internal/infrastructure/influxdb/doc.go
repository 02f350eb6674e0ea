// Package influxdb records gateway activity in InfluxDB v2.
//
// Every dispatched command produces a "command_results" point tagged with
// its source, device, command and return code, and numeric writes produce
// an "entity_values" point. Writes go through the non-blocking batched
// write API of influxdb-client-go; asynchronous write failures are handed
// to the callback set with SetOnError.
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without time-series output
//	}
//	defer client.Close()
//
//	client.WriteCommandResult(influxdb.CommandResult{Device: "boiler", Command: "wwseltemp", Code: "OK", OK: true})
package influxdb
