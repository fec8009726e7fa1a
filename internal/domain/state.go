package domain

// AutomationState is the staging state of one entity's automation task.
type AutomationState int

const (
	StateMonitoring AutomationState = iota
	StateJettisonConfirmed
	StatePayloadDeployed
	StateGearDeployed
	StateIdle
	StateFailed
)

// String returns a human-readable representation of the state.
func (s AutomationState) String() string {
	switch s {
	case StateMonitoring:
		return "Monitoring"
	case StateJettisonConfirmed:
		return "JettisonConfirmed"
	case StatePayloadDeployed:
		return "PayloadDeployed"
	case StateGearDeployed:
		return "GearDeployed"
	case StateIdle:
		return "Idle"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no transition can leave s.
func (s AutomationState) Terminal() bool {
	return s == StateFailed
}

// CanTransition reports whether from -> to is legal: one step forward,
// or Failed from any non-terminal state.
func CanTransition(from, to AutomationState) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	return from < StateIdle && to == from+1
}
