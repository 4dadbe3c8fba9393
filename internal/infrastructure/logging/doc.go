// Package logging provides structured logging for ledctl.
//
// This package manages:
//   - Structured logging built on log/slog
//   - JSON or text output formats
//   - Level-based filtering (debug, info, warn, error)
//   - Default fields (service, version) on every record
//
// All faults in the controller are logged with enough context (error value,
// phase) to diagnose a remote, unattended device.
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("broker connected", "host", cfg.MQTT.Broker.Host)
//
//	mqttLog := log.With("component", "mqtt")
//	mqttLog.Warn("reconnecting", "error", err)
package logging
