package domain

import "time"

// Reading is the read-only projection of one entity published to the
// presentation surface.
type Reading struct {
	Name string  `json:"name"`
	Alt  float64 `json:"alt"`
	Spd  float64 `json:"spd"`
	G    float64 `json:"g"`
	Rho  float64 `json:"rho"`
}

// ReadingOf projects a physical state for display.
func ReadingOf(name string, st PhysicalState) Reading {
	return Reading{
		Name: name,
		Alt:  st.Altitude,
		Spd:  st.Speed,
		G:    st.GLoad,
		Rho:  st.AtmosphericDensity,
	}
}

// Batch is one telemetry snapshot. It is never mutated after publication;
// the next batch supersedes it.
type Batch struct {
	At       time.Time          `json:"at"`
	Focus    string             `json:"focus,omitempty"`
	Mode     string             `json:"mode,omitempty"`
	Entities map[string]Reading `json:"entities"`
}

// Display modes understood by the dashboard.
const (
	ModeSurface = "surface"
	ModeOrbit   = "orbit"
)

// ValidMode reports whether m is a known display mode.
func ValidMode(m string) bool {
	return m == ModeSurface || m == ModeOrbit
}
