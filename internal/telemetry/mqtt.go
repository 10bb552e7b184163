package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/hydroponics-core/internal/hydroponics"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/mqtt"
)

// Publisher is the subset of *mqtt.Client used by MQTTNotifier.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MQTTNotifier publishes reading and system events. Messages are never
// retained: they describe something that happened, not current state.
type MQTTNotifier struct {
	pub    Publisher
	topics mqtt.Topics
	qos    byte
}

// NewMQTTNotifier creates a notifier publishing through pub.
func NewMQTTNotifier(pub Publisher, topics mqtt.Topics, qos byte) *MQTTNotifier {
	return &MQTTNotifier{pub: pub, topics: topics, qos: qos}
}

// readingMessage is the payload on {prefix}/v1/systems/{id}/readings.
type readingMessage struct {
	Reading hydroponics.Reading `json:"reading"`
	OwnerID string              `json:"owner"`
}

// systemMessage is the payload on {prefix}/v1/systems/{id}/events.
type systemMessage struct {
	Event     hydroponics.SystemEvent `json:"event"`
	System    hydroponics.System      `json:"system"`
	Timestamp time.Time               `json:"timestamp"`
}

// ReadingCreated publishes the stored reading.
func (n *MQTTNotifier) ReadingCreated(_ context.Context, ownerID string, rd hydroponics.Reading) error {
	payload, err := json.Marshal(readingMessage{Reading: rd, OwnerID: ownerID})
	if err != nil {
		return fmt.Errorf("marshalling reading event: %w", err)
	}
	return n.pub.Publish(n.topics.SystemReadings(rd.SystemID), payload, n.qos, false)
}

// SystemChanged publishes a lifecycle event.
func (n *MQTTNotifier) SystemChanged(_ context.Context, event hydroponics.SystemEvent, s hydroponics.System) error {
	payload, err := json.Marshal(systemMessage{Event: event, System: s, Timestamp: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshalling system event: %w", err)
	}
	return n.pub.Publish(n.topics.SystemEvents(s.ID), payload, n.qos, false)
}
