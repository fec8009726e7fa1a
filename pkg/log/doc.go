// Package log provides the logging sink used by every rsp component.
//
// Components never reach for a global logger. They receive a [Logger] at
// construction and tag it with their own fields:
//
//	logger := log.With(base, log.String("component", "reconciler"))
//	logger.Info("entity started", log.String("entity", id))
//
// [ZerologAdapter] is the production implementation. [NewMissionLogger]
// builds one that writes a fresh mission_YYYYMMDD_HHMMSS.log per process
// start, optionally mirrored to the console. [NoopLogger] discards
// everything and is the default when no logger is injected.
//
// # Version
//
// Current version: 1.1.0
// Minimum compatible version: 1.0.0
package log
