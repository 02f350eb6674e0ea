package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementCommandResults = "command_results"
	MeasurementEntityValues   = "entity_values"
)

// CommandResult describes one dispatched command for the time-series store.
type CommandResult struct {
	Source  string
	Device  string
	Command string
	Tag     string
	Code    string
	OK      bool
	Value   string
	Admin   bool
	Elapsed time.Duration
}

// WriteCommandResult records the outcome of a dispatched command.
func (c *Client) WriteCommandResult(r CommandResult) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(commandResultPoint(r, time.Now()))
}

// WriteEntityValue records a numeric entity reading, e.g. after a write.
func (c *Client) WriteEntityValue(deviceName, entity, tag string, value float64) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(entityValuePoint(deviceName, entity, tag, value, time.Now()))
}

// WritePoint writes a custom point stamped with the current time.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}

func commandResultPoint(r CommandResult, ts time.Time) *write.Point {
	tags := map[string]string{
		"source":  r.Source,
		"device":  r.Device,
		"command": r.Command,
		"code":    r.Code,
	}
	if r.Tag != "" {
		tags["tag"] = r.Tag
	}
	fields := map[string]any{
		"ok":         r.OK,
		"admin":      r.Admin,
		"elapsed_us": r.Elapsed.Microseconds(),
	}
	if r.Value != "" {
		fields["value"] = r.Value
	}
	return write.NewPoint(MeasurementCommandResults, tags, fields, ts)
}

func entityValuePoint(deviceName, entity, tag string, value float64, ts time.Time) *write.Point {
	tags := map[string]string{
		"device": deviceName,
		"entity": entity,
	}
	if tag != "" {
		tags["tag"] = tag
	}
	return write.NewPoint(MeasurementEntityValues, tags, map[string]any{"value": value}, ts)
}
