package sim

import (
	"fmt"
	"time"
)

// Config controls the simulated flight.
type Config struct {
	// Vessels is how many craft are on the pad at Dial.
	Vessels int

	// Tick is the wall-clock step period. Zero disables the background
	// stepper; callers then advance the simulation with Step.
	Tick time.Duration

	// Warp scales each tick into simulated time.
	Warp float64

	// Seed makes runs reproducible.
	Seed int64

	// LaunchStagger delays each vessel's ignition by this much simulated
	// time after the previous one.
	LaunchStagger time.Duration
}

// DefaultConfig returns a three-vessel flight at 10x warp.
func DefaultConfig() Config {
	return Config{
		Vessels:       3,
		Tick:          100 * time.Millisecond,
		Warp:          10,
		Seed:          1,
		LaunchStagger: 5 * time.Second,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Vessels < 0 {
		return fmt.Errorf("sim: vessels must be >= 0, got %d", c.Vessels)
	}
	if c.Tick < 0 {
		return fmt.Errorf("sim: tick must be >= 0, got %s", c.Tick)
	}
	if c.Warp <= 0 {
		return fmt.Errorf("sim: warp must be > 0, got %v", c.Warp)
	}
	return nil
}
