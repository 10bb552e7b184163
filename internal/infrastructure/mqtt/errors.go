package mqtt

import "errors"

// Errors returned by Connect, Publish and HealthCheck.
var (
	// ErrConnectionFailed wraps the reason the initial connect failed.
	// Later drops are handled by paho's auto-reconnect and never surface here.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrNotConnected is returned while the client is disconnected.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrPublishFailed wraps a broker error or a missing acknowledgement.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidTopic is returned for an empty topic or one containing
	// the subscription wildcards + or #.
	ErrInvalidTopic = errors.New("mqtt: invalid publish topic")

	// ErrInvalidQoS is returned for a QoS above 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrPayloadTooLarge is returned for payloads over maxPayloadSize.
	ErrPayloadTooLarge = errors.New("mqtt: payload too large")
)
