package sim

import "math"

const (
	gravity         = 9.81    // m/s^2
	seaLevelDensity = 1.225   // kg/m^3
	scaleHeight     = 5600.0  // m
	atmosphereTop   = 70000.0 // m
)

// density returns the atmospheric density at alt.
func density(alt float64) float64 {
	switch {
	case alt <= 0:
		return seaLevelDensity
	case alt >= atmosphereTop:
		return 0
	}
	return seaLevelDensity * math.Exp(-alt/scaleHeight)
}

// flight is the vertical state of one craft.
type flight struct {
	alt    float64 // m
	vel    float64 // m/s, positive up
	thrust float64 // m/s^2 while burning
	burn   float64 // remaining burn, s
	delay  float64 // remaining time before ignition, s
	gload  float64
	rho    float64
	q      float64
}

// step integrates dt seconds. It reports false once the craft has come
// back down to the surface after leaving it.
func (f *flight) step(dt float64) bool {
	if f.delay > 0 {
		f.delay -= dt
		f.rho = density(f.alt)
		f.gload = 1
		return true
	}

	accel := -gravity
	if f.burn > 0 {
		accel += f.thrust
		f.burn -= dt
	}
	f.rho = density(f.alt)
	drag := 0.5 * f.rho * f.vel * math.Abs(f.vel) * 0.0005
	accel -= drag

	f.vel += accel * dt
	f.alt += f.vel * dt
	f.q = 0.5 * f.rho * f.vel * f.vel
	f.gload = math.Abs(accel+gravity) / gravity

	return f.alt > 0 || f.vel > 0
}

func (f *flight) speed() float64 {
	return math.Abs(f.vel)
}
