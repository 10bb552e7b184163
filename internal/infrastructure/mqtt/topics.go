package mqtt

import (
	"fmt"
	"strings"
)

// topicVersion is the version segment of every topic. It changes only when
// a payload format changes incompatibly.
const topicVersion = "v1"

// Topics builds the service's MQTT topics under a configurable prefix.
//
//	topics := mqtt.NewTopics("hydro")
//	topics.SystemReadings(42)
//	// Returns: "hydro/v1/systems/42/readings"
type Topics struct {
	prefix string
}

// NewTopics returns a builder for prefix. Surrounding slashes are dropped.
func NewTopics(prefix string) Topics {
	return Topics{prefix: strings.Trim(prefix, "/")}
}

func (t Topics) base() string {
	return t.prefix + "/" + topicVersion
}

// ServiceStatus returns the retained online/offline status topic.
//
// Example: hydro/v1/service/status
func (t Topics) ServiceStatus() string {
	return t.base() + "/service/status"
}

// SystemEvents returns the topic for lifecycle events of one system.
//
// Example: hydro/v1/systems/42/events
func (t Topics) SystemEvents(systemID int64) string {
	return fmt.Sprintf("%s/systems/%d/events", t.base(), systemID)
}

// SystemReadings returns the topic new readings of one system go to.
//
// Example: hydro/v1/systems/42/readings
func (t Topics) SystemReadings(systemID int64) string {
	return fmt.Sprintf("%s/systems/%d/readings", t.base(), systemID)
}

// AllReadings returns a subscription pattern matching every system's readings.
//
// Pattern: hydro/v1/systems/+/readings
func (t Topics) AllReadings() string {
	return t.base() + "/systems/+/readings"
}

// AllEvents returns a subscription pattern matching every lifecycle event.
//
// Pattern: hydro/v1/systems/+/events
func (t Topics) AllEvents() string {
	return t.base() + "/systems/+/events"
}
