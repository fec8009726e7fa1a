package domain

import "sync/atomic"

// EntityInfo is what the provider reports for each controllable vehicle.
type EntityInfo struct {
	ID   string
	Name string
}

// Entity is one vehicle known to the registry.
// The active flag is written by the entity's automation task and read by
// the reconciler and the publisher; everything else is immutable.
type Entity struct {
	ID   string
	Name string

	active atomic.Bool
}

// NewEntity creates an active entity.
func NewEntity(info EntityInfo) *Entity {
	e := &Entity{ID: info.ID, Name: info.Name}
	e.active.Store(true)
	return e
}

// Active reports whether the entity's task is still running.
func (e *Entity) Active() bool {
	return e.active.Load()
}

// Deactivate marks the entity's task as terminated. It never reactivates.
func (e *Entity) Deactivate() {
	e.active.Store(false)
}
