// Package domain contains the core entities and value objects of rsp.
//
// It has no dependencies on infrastructure (MQTT, file system, logging)
// and contains only the vocabulary shared by the supervisor, the staging
// automation and the presentation surface.
//
// # Entities
//
//   - [Entity]: one remotely-controlled vehicle tracked by the registry
//   - [AutomationState]: the per-entity staging state machine
//   - [PhysicalState]: one read of a vehicle's physical condition
//   - [Batch]: an immutable telemetry snapshot of all active entities
//   - [Command]: a fire-and-forget operator instruction
package domain
