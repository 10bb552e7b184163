// Package api implements the HTTP REST API for the hydroponics service.
//
// This package provides:
//   - REST endpoints for hydroponic systems, sensor readings and the audit trail
//   - Bearer token authentication (tokens are issued by an external provider)
//   - Middleware stack (request ID, logging, recovery, metrics, CORS, rate limit)
//   - Prometheus metrics and a health endpoint
//   - TLS support for production deployments
//
// # Architecture
//
// Handlers are thin: they resolve the caller from the request context, hand
// the raw body or query parameters to hydroponics.Service and map the
// returned error to a status code. Tenant isolation, filtering, ordering
// and pagination all happen in the service.
//
// # Errors
//
// Every failure is a JSON body of the form
//
//	{"error": {"code": "not_found", "message": "Not found."}}
//
// Validation failures add a "fields" object mapping each offending field to
// its messages.
//
// # Graceful Degradation
//
// MQTT and InfluxDB are optional. When either is down, writes still succeed
// and /health reports the affected component as degraded.
package api
