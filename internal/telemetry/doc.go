// Package telemetry forwards committed hydroponics changes to external sinks.
//
// Each sink implements hydroponics.Notifier:
//
//   - MQTTNotifier publishes JSON events for live dashboards and automation
//   - InfluxNotifier mirrors readings into InfluxDB for long-term charts
//   - Multi fans one change out to several notifiers
//
// Notifiers run after the database transaction commits. A failed publish
// never undoes or fails the request; the Service logs it and moves on.
package telemetry
