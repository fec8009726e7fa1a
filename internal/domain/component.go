package domain

// ComponentKind classifies a vehicle part the automation cares about.
type ComponentKind int

const (
	KindFairing ComponentKind = iota
	KindSolarPanel
	KindAntenna
	KindLeg
	KindWheel
)

// String returns a human-readable representation of the kind.
func (k ComponentKind) String() string {
	switch k {
	case KindFairing:
		return "fairing"
	case KindSolarPanel:
		return "solar_panel"
	case KindAntenna:
		return "antenna"
	case KindLeg:
		return "leg"
	case KindWheel:
		return "wheel"
	default:
		return "unknown"
	}
}

// Component is a read-only view of one part.
type Component struct {
	ID    string
	Title string
	Kind  ComponentKind

	// Deployable is false for fixed appendages that cannot be toggled.
	Deployable bool
	Deployed   bool

	// Jettisoned is only meaningful for fairings.
	Jettisoned bool

	// Actions lists the separation events exposed by the part's
	// procedural-fairing modules. Empty for every other kind.
	Actions []string
}

// PhysicalState is one read of a vehicle at a single instant.
type PhysicalState struct {
	Altitude           float64
	Speed              float64
	GLoad              float64
	AtmosphericDensity float64
	DynamicPressure    float64

	// FairingAttached is true while any fairing has not separated.
	FairingAttached bool

	Fairings    []Component
	Deployables []Component
	LandingGear []Component
}

// FairingAttachedIn derives the attachment flag from a fairing list.
func FairingAttachedIn(fairings []Component) bool {
	for _, f := range fairings {
		if !f.Jettisoned {
			return true
		}
	}
	return false
}
