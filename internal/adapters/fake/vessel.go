package fake

import "github.com/rspctl/rsp/internal/domain"

// Ascending returns a vessel state with one attached procedural fairing,
// a solar panel, an antenna, two legs and a wheel, all retracted.
func Ascending(alt, q float64) domain.PhysicalState {
	return domain.PhysicalState{
		Altitude:           alt,
		Speed:              1800,
		GLoad:              1.4,
		AtmosphericDensity: 0.002,
		DynamicPressure:    q,
		FairingAttached:    true,
		Fairings: []domain.Component{
			{ID: "fairing-1", Title: "Procedural Fairing", Kind: domain.KindFairing, Actions: []string{"Deploy"}},
		},
		Deployables: []domain.Component{
			{ID: "solar-1", Title: "OX-STAT", Kind: domain.KindSolarPanel, Deployable: true},
			{ID: "antenna-1", Title: "Communotron 16", Kind: domain.KindAntenna, Deployable: true},
			{ID: "solar-fixed", Title: "OX-4L", Kind: domain.KindSolarPanel},
		},
		LandingGear: []domain.Component{
			{ID: "leg-1", Title: "LT-1", Kind: domain.KindLeg, Deployable: true},
			{ID: "leg-2", Title: "LT-1", Kind: domain.KindLeg, Deployable: true},
			{ID: "wheel-1", Title: "RoveMax M1", Kind: domain.KindWheel, Deployable: true},
		},
	}
}
