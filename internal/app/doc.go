// Package app implements the rsp control process.
//
// A [Supervisor] runs three sibling loops in one errgroup: the reconciler,
// which diffs the provider's vehicle list against the [Registry] and
// launches one [Task] per new entity; the [CommandConsumer], which drains
// the inbound command queue; and the [Publisher], which snapshots every
// active entity into the outbound telemetry queue.
//
// Tasks are independent of each other and of the loops. A task failure
// deactivates its entity and is never propagated; the next reconcile
// cycle removes it. Only a lost provider connection stops the supervisor.
package app
