// Package mqttcmd runs commands published to the gateway's MQTT topics.
//
// Every message below <base>/ is a command: the topic is the command path
// and the payload either a JSON object (the same body the HTTP API accepts)
// or plain text taken as the value. Commands arriving over MQTT run with
// admin rights. The output of each command is published to <base>/response.
package mqttcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-ems/internal/audit"
	"github.com/nerrad567/gray-logic-ems/internal/command"
	"github.com/nerrad567/gray-logic-ems/internal/gateway"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/mqtt"
)

// executeTimeout bounds a single command including its audit write.
const executeTimeout = 5 * time.Second

// ErrInvalidPayload is returned for a payload that starts like a JSON object
// but does not parse.
var ErrInvalidPayload = errors.New("mqttcmd: invalid JSON payload")

// Broker is the part of the MQTT client the handler uses. *mqtt.Client
// satisfies it.
type Broker interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	PublishResponse(payload []byte) error
}

// Executor runs a command. *gateway.Service satisfies it.
type Executor interface {
	Execute(ctx context.Context, req gateway.Request) gateway.Result
}

// Logger is the logging surface the handler needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Handler subscribes to the command topics and executes what arrives.
type Handler struct {
	broker   Broker
	executor Executor
	topics   mqtt.Topics
	qos      byte
	logger   Logger
	ctx      context.Context
}

// New creates a handler for the commands below topics.Base.
func New(broker Broker, executor Executor, topics mqtt.Topics, qos byte) *Handler {
	return &Handler{
		broker:   broker,
		executor: executor,
		topics:   topics,
		qos:      qos,
		logger:   noopLogger{},
		ctx:      context.Background(),
	}
}

// SetLogger sets the logger for the handler.
func (h *Handler) SetLogger(logger Logger) {
	h.logger = logger
}

// Start subscribes to <base>/#. Commands run under ctx.
func (h *Handler) Start(ctx context.Context) error {
	h.ctx = ctx
	if err := h.broker.Subscribe(h.topics.Commands(), h.qos, h.HandleMessage); err != nil {
		return fmt.Errorf("subscribing to %s: %w", h.topics.Commands(), err)
	}
	return nil
}

// Stop removes the subscription.
func (h *Handler) Stop() error {
	if err := h.broker.Unsubscribe(h.topics.Commands()); err != nil {
		return fmt.Errorf("unsubscribing from %s: %w", h.topics.Commands(), err)
	}
	return nil
}

// HandleMessage executes one command message and publishes its output.
// Messages on the gateway's own response and status topics are ignored.
func (h *Handler) HandleMessage(topic string, payload []byte) error {
	if h.topics.IsOwn(topic) {
		return nil
	}

	// A message on the bare base topic names its device in the payload.
	path := topic
	if topic == h.topics.Base {
		path = topic + "/"
	}

	body, err := parsePayload(payload)
	if err != nil {
		h.logger.Warn("rejected command payload", "topic", topic, "error", err)
		if pubErr := h.publish(command.Output{"message": "invalid JSON payload"}); pubErr != nil {
			return pubErr
		}
		return err
	}

	ctx, cancel := context.WithTimeout(h.ctx, executeTimeout)
	defer cancel()

	res := h.executor.Execute(ctx, gateway.Request{
		Source: audit.SourceMQTT,
		Path:   path,
		Body:   body,
		Admin:  true,
	})
	h.logger.Debug("mqtt command executed", "topic", topic, "code", res.Code.String())

	out := res.Output
	if len(out) == 0 {
		out = command.Output{"message": res.Code.String()}
	}
	return h.publish(out)
}

func (h *Handler) publish(out command.Output) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshalling command output: %w", err)
	}
	if err := h.broker.PublishResponse(data); err != nil {
		return fmt.Errorf("publishing command output: %w", err)
	}
	return nil
}

// parsePayload turns a message payload into a command body. A JSON object
// is decoded with numbers kept as json.Number; anything else is the value.
func parsePayload(payload []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	if trimmed[0] != '{' {
		return map[string]any{"value": string(trimmed)}, nil
	}

	body := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return body, nil
}
