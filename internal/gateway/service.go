package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-ems/internal/audit"
	"github.com/nerrad567/gray-logic-ems/internal/command"
	"github.com/nerrad567/gray-logic-ems/internal/device"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/influxdb"
)

// EventCommandExecuted is the event channel every command outcome is
// broadcast on.
const EventCommandExecuted = "command.executed"

// Logger is the logging surface the service needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// AuditRecorder stores command outcomes.
type AuditRecorder interface {
	Create(ctx context.Context, entry *audit.Entry) error
}

// Metrics receives time-series points. *influxdb.Client satisfies it.
type Metrics interface {
	WriteCommandResult(r influxdb.CommandResult)
	WriteEntityValue(deviceName, entity, tag string, value float64)
}

// EventSink broadcasts events to live subscribers, e.g. the WebSocket hub.
type EventSink interface {
	Broadcast(channel string, payload any)
}

// Request is one command as received by a transport.
type Request struct {
	Source string
	Path   string
	Body   map[string]any
	Admin  bool
	UserID string
}

// Result is the outcome of a request.
type Result struct {
	Code    command.ReturnCode
	Output  command.Output
	Elapsed time.Duration
}

// Event is the payload broadcast for every executed command.
type Event struct {
	Source  string `json:"source"`
	Path    string `json:"path"`
	Device  string `json:"device,omitempty"`
	Command string `json:"command,omitempty"`
	Value   string `json:"value,omitempty"`
	Code    string `json:"code"`
}

// Service executes requests from every transport.
type Service struct {
	dispatcher *command.Dispatcher
	topicBase  string

	audit   AuditRecorder
	metrics Metrics
	events  EventSink
	logger  Logger
}

// NewService creates a service running requests through dispatcher.
// topicBase is the MQTT base topic, used to describe requests.
func NewService(dispatcher *command.Dispatcher, topicBase string) *Service {
	return &Service{
		dispatcher: dispatcher,
		topicBase:  topicBase,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// SetAudit sets where command outcomes are recorded.
func (s *Service) SetAudit(recorder AuditRecorder) {
	s.audit = recorder
}

// SetMetrics sets the time-series sink.
func (s *Service) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

// SetEvents sets the live event sink.
func (s *Service) SetEvents(events EventSink) {
	s.events = events
}

// Dispatcher returns the dispatcher requests run through.
func (s *Service) Dispatcher() *command.Dispatcher {
	return s.dispatcher
}

// Execute runs req through the dispatcher. Failures of the audit log, the
// metrics sink or the event sink are logged and never change the result.
func (s *Service) Execute(ctx context.Context, req Request) Result {
	start := time.Now()
	out := command.Output{}
	if req.Body == nil {
		req.Body = map[string]any{}
	}

	rc := s.dispatcher.Process(req.Path, req.Admin, req.Body, out)
	res := Result{Code: rc, Output: out, Elapsed: time.Since(start)}

	deviceName, cmd := s.describe(req.Path, req.Body)
	value := bodyValue(req.Body)

	s.logger.Debug("command executed",
		"source", req.Source,
		"path", req.Path,
		"code", rc.String(),
		"elapsed", res.Elapsed,
	)

	if s.audit != nil {
		entry := &audit.Entry{
			Source:  req.Source,
			Path:    req.Path,
			Device:  deviceName,
			Command: cmd,
			Value:   value,
			Admin:   req.Admin,
			UserID:  req.UserID,
			Code:    int(rc),
			Result:  rc.String(),
		}
		if msg, ok := out["message"].(string); ok && rc != command.OK {
			entry.Details = map[string]any{"message": msg}
		}
		if err := s.audit.Create(ctx, entry); err != nil {
			s.logger.Warn("recording audit entry failed", "path", req.Path, "error", err)
		}
	}

	if s.metrics != nil {
		s.metrics.WriteCommandResult(influxdb.CommandResult{
			Source:  req.Source,
			Device:  deviceName,
			Command: cmd,
			Code:    rc.String(),
			OK:      rc == command.OK,
			Value:   value,
			Admin:   req.Admin,
			Elapsed: res.Elapsed,
		})
	}

	if s.events != nil {
		s.events.Broadcast(EventCommandExecuted, Event{
			Source:  req.Source,
			Path:    req.Path,
			Device:  deviceName,
			Command: cmd,
			Value:   value,
			Code:    rc.String(),
		})
	}

	return res
}

// RecordWrite forwards a numeric entity to the metrics sink. It is meant
// for BootstrapOptions.OnWrite.
func (s *Service) RecordWrite(t device.Type, v device.Value) {
	if s.metrics == nil {
		return
	}
	f, ok := v.Value.(float64)
	if !ok {
		return
	}
	s.metrics.WriteEntityValue(t.String(), v.Name, v.Tag.String(), f)
}

// describe extracts the device and command named by a request for the
// audit log. It does not validate them.
func (s *Service) describe(path string, body map[string]any) (deviceName, cmd string) {
	segments := command.ParseURI(path).Segments()
	switch {
	case len(segments) > 0 && segments[0] == "api":
		segments = segments[1:]
	case s.topicBase != "" && strings.HasPrefix(path, s.topicBase+"/"):
		segments = command.ParseURI(path[len(s.topicBase)+1:]).Segments()
	}

	if len(segments) > 0 {
		deviceName = segments[0]
	} else if v, ok := body["device"].(string); ok {
		deviceName = v
	}

	if len(segments) > 1 {
		cmd = strings.Join(segments[1:], "/")
	} else if v, ok := body["entity"].(string); ok {
		cmd = v
	} else if v, ok := body["cmd"].(string); ok {
		cmd = v
	}
	return strings.ToLower(deviceName), cmd
}

func bodyValue(body map[string]any) string {
	v, ok := body["data"]
	if !ok {
		v, ok = body["value"]
	}
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
