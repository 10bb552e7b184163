// Package logging builds the structured logger shared by every package.
//
// Entries are JSON by default and text when logging.format is "text". Each
// carries service and version fields; components add their own with With:
//
//	log := logging.New(cfg.Logging, version)
//	apiLog := log.With("component", "api")
//	apiLog.Info("API server starting", "address", addr)
//
// Attributes keyed authorization, token, secret or password are replaced
// with [REDACTED] whatever their value. Debug level adds source locations.
package logging
