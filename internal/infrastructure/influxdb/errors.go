package influxdb

import "errors"

// Errors returned by the client. Asynchronous write failures never appear
// here; they go to the SetOnError callback.
var (
	// ErrDisabled is returned by Connect when influxdb.enabled is false.
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	// ErrConnectionFailed wraps the reason the startup ping failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrNotConnected is returned by HealthCheck before Connect or after Close.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrUnhealthy is returned when the server answers the ping but reports
	// itself unhealthy.
	ErrUnhealthy = errors.New("influxdb: server not healthy")
)
