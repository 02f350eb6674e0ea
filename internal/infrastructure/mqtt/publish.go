package mqtt

import "fmt"

// maxPayloadSize bounds outgoing payloads (1MB).
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for the broker acknowledgement
// required by qos.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishResponse publishes a command result on the response topic with the
// configured QoS.
func (c *Client) PublishResponse(payload []byte) error {
	return c.Publish(c.topics.Response(), payload, byte(c.cfg.QoS), false)
}
