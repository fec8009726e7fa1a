// Package queue provides the two message channels between rsp loops.
//
// [FIFO] is the bounded inbound command queue. It is strict FIFO, so
// messages from a single producer are consumed in the order they were
// offered. Producers never block: a full queue rejects with
// domain.ErrQueueFull.
//
// [Latest] is the outbound telemetry queue. Its policy is drop-oldest on
// full: a push always succeeds and evicts the oldest pending batch when
// capacity is reached. Consumers coalesce with [Latest.Latest], which
// empties the queue and keeps only the newest element, because each
// telemetry batch supersedes every earlier one.
package queue
