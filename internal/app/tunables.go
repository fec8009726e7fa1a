package app

import "sync/atomic"

// Tunables are the values an operator may change while the control
// process runs.
type Tunables struct {
	// MaxDynamicPressure is the ceiling, in pascals, under which a
	// fairing may be jettisoned.
	MaxDynamicPressure float64

	// MinAltitude is the floor, in meters, above which a fairing may be
	// jettisoned.
	MinAltitude float64

	// ActionGroups maps an operator-facing name to a numbered group.
	ActionGroups map[string]int
}

// DefaultTunables returns the stock jettison window and no action groups.
func DefaultTunables() Tunables {
	return Tunables{
		MaxDynamicPressure: 100,
		MinAltitude:        40000,
	}
}

// JettisonWindow reports whether a fairing may be jettisoned at the given
// dynamic pressure and altitude.
func (t Tunables) JettisonWindow(dynamicPressure, altitude float64) bool {
	return dynamicPressure < t.MaxDynamicPressure && altitude > t.MinAltitude
}

// LiveTunables holds Tunables behind an atomic swap. Readers never block.
type LiveTunables struct {
	v atomic.Pointer[Tunables]
}

// NewLiveTunables creates a holder initialised with t.
func NewLiveTunables(t Tunables) *LiveTunables {
	l := &LiveTunables{}
	l.Store(t)
	return l
}

// Load returns the current tunables. The ActionGroups map must not be
// modified by the caller.
func (l *LiveTunables) Load() Tunables {
	return *l.v.Load()
}

// Store replaces the tunables.
func (l *LiveTunables) Store(t Tunables) {
	groups := make(map[string]int, len(t.ActionGroups))
	for k, v := range t.ActionGroups {
		groups[k] = v
	}
	t.ActionGroups = groups
	l.v.Store(&t)
}
