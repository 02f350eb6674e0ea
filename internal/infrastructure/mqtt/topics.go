package mqtt

import "strings"

// Fixed sub-topics below the gateway base topic.
const (
	topicResponse = "response"
	topicStatus   = "status"
)

// Topics builds the gateway's MQTT topics below a base such as "ems-esp".
//
//	topics := mqtt.Topics{Base: "ems-esp"}
//	topics.Command("thermostat", "hc1/seltemp") // "ems-esp/thermostat/hc1/seltemp"
type Topics struct {
	Base string
}

// Commands returns the subscription pattern for every command topic.
//
// Pattern: <base>/#
func (t Topics) Commands() string {
	return t.Base + "/#"
}

// Command returns the topic addressing an entity of a device.
func (t Topics) Command(deviceName, entity string) string {
	if entity == "" {
		return t.Base + "/" + deviceName
	}
	return t.Base + "/" + deviceName + "/" + entity
}

// Response returns the topic command results are published to.
func (t Topics) Response() string {
	return t.Base + "/" + topicResponse
}

// Status returns the retained online/offline status topic.
func (t Topics) Status() string {
	return t.Base + "/" + topicStatus
}

// IsOwn reports whether topic is one the gateway publishes itself, so that a
// subscriber on Commands() can skip its own traffic.
func (t Topics) IsOwn(topic string) bool {
	rest, ok := strings.CutPrefix(topic, t.Base+"/")
	if !ok {
		return false
	}
	return rest == topicResponse || rest == topicStatus
}
