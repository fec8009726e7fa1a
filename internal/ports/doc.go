// Package ports defines the interfaces that connect the application layer
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Provider]: the simulation's live telemetry and control surface
//   - [BatchSink]: a destination for published telemetry batches
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters under internal/adapters implement them: a simulated provider,
// a scriptable fake for tests, and MQTT transports.
package ports
