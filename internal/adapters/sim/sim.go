// Package sim is a self-contained flight simulation that implements
// ports.Provider. Craft lift off one after another, climb through the
// atmosphere, shed fairings as debris, and are destroyed when they fall
// back to the surface.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/pkg/log"
)

var craftNames = []string{"Kerbal X", "Aeris 3A", "Jumping Flea", "Dynawing", "Mun Lander", "Comet"}

type vessel struct {
	id     string
	name   string
	flight flight
	parts  domain.PhysicalState
	groups map[int]bool
}

// Sim is the simulated provider.
type Sim struct {
	cfg    Config
	logger log.Logger

	mu      sync.Mutex
	rng     *rand.Rand
	vessels map[string]*vessel
	nextID  int
	closed  bool

	stop chan struct{}
	done chan struct{}
}

// Dial connects to a fresh simulation. It is the only connection attempt;
// a failure is final.
func Dial(ctx context.Context, cfg Config, logger log.Logger) (*Sim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NoopLogger{}
	}

	s := &Sim{
		cfg:     cfg,
		logger:  log.With(logger, log.Component("sim")),
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		vessels: make(map[string]*vessel),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for i := 0; i < cfg.Vessels; i++ {
		delay := float64(i) * cfg.LaunchStagger.Seconds()
		s.launch(craftNames[i%len(craftNames)], delay)
	}

	if cfg.Tick > 0 {
		go s.loop()
	} else {
		close(s.done)
	}
	s.logger.Info("simulation connected", log.Int("vessels", cfg.Vessels))
	return s, nil
}

func (s *Sim) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()
	dt := s.cfg.Tick.Seconds() * s.cfg.Warp
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Step(dt)
		}
	}
}

// Step advances the simulation by dt simulated seconds.
func (s *Sim) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, v := range s.vessels {
		if !v.flight.step(dt) {
			delete(s.vessels, id)
			s.logger.Info("vessel destroyed", log.Entity(id), log.String("name", v.name))
		}
	}
}

// launch adds a craft. Must be called with mu held or before the loop
// starts.
func (s *Sim) launch(name string, delay float64) *vessel {
	s.nextID++
	id := fmt.Sprintf("vessel-%d", s.nextID)

	fairings := []domain.Component{
		{ID: id + "/fairing-1", Title: "AE-FF2 Airstream Protective Shell", Kind: domain.KindFairing, Actions: []string{"Deploy"}},
	}
	// Some fairings expose no module events and need direct separation.
	if s.rng.Intn(3) == 0 {
		fairings[0].Actions = nil
	}

	v := &vessel{
		id:   id,
		name: name,
		flight: flight{
			thrust: 22 + s.rng.Float64()*6,
			burn:   80 + s.rng.Float64()*30,
			delay:  delay,
		},
		parts: domain.PhysicalState{
			FairingAttached: true,
			Fairings:        fairings,
			Deployables: []domain.Component{
				{ID: id + "/solar-1", Title: "SP-L 1x6", Kind: domain.KindSolarPanel, Deployable: true},
				{ID: id + "/solar-2", Title: "SP-L 1x6", Kind: domain.KindSolarPanel, Deployable: true},
				{ID: id + "/antenna-1", Title: "Communotron 16", Kind: domain.KindAntenna, Deployable: true},
				{ID: id + "/antenna-2", Title: "Communotron 16-S", Kind: domain.KindAntenna},
			},
			LandingGear: []domain.Component{
				{ID: id + "/leg-1", Title: "LT-1 Landing Struts", Kind: domain.KindLeg, Deployable: true},
				{ID: id + "/leg-2", Title: "LT-1 Landing Struts", Kind: domain.KindLeg, Deployable: true},
				{ID: id + "/leg-3", Title: "LT-1 Landing Struts", Kind: domain.KindLeg, Deployable: true},
			},
		},
		groups: make(map[int]bool),
	}
	s.vessels[id] = v
	return v
}

// spawnDebris adds an uncontrolled fragment following parent's flight.
// Must be called with mu held.
func (s *Sim) spawnDebris(parent *vessel) {
	s.nextID++
	id := fmt.Sprintf("vessel-%d", s.nextID)
	f := parent.flight
	f.burn = 0
	f.vel -= 5 + s.rng.Float64()*10
	s.vessels[id] = &vessel{
		id:     id,
		name:   parent.name + " Debris",
		flight: f,
		groups: make(map[int]bool),
	}
	s.logger.Debug("debris spawned", log.Entity(id), log.String("parent", parent.id))
}

func (s *Sim) lookup(id string) (*vessel, error) {
	if s.closed {
		return nil, domain.ErrConnectionLost
	}
	v, ok := s.vessels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, id)
	}
	return v, nil
}

// ListEntities implements ports.Provider.
func (s *Sim) ListEntities(ctx context.Context) ([]domain.EntityInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, domain.ErrConnectionLost
	}
	out := make([]domain.EntityInfo, 0, len(s.vessels))
	for _, v := range s.vessels {
		out = append(out, domain.EntityInfo{ID: v.id, Name: v.name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ReadState implements ports.Provider.
func (s *Sim) ReadState(ctx context.Context, id string) (domain.PhysicalState, error) {
	if err := ctx.Err(); err != nil {
		return domain.PhysicalState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.lookup(id)
	if err != nil {
		return domain.PhysicalState{}, err
	}

	st := v.parts
	st.Fairings = copyParts(v.parts.Fairings)
	st.Deployables = copyParts(v.parts.Deployables)
	st.LandingGear = copyParts(v.parts.LandingGear)
	st.FairingAttached = domain.FairingAttachedIn(st.Fairings)
	st.Altitude = v.flight.alt
	st.Speed = v.flight.speed()
	st.GLoad = v.flight.gload
	st.AtmosphericDensity = v.flight.rho
	st.DynamicPressure = v.flight.q
	return st, nil
}

// TriggerAction implements ports.Provider.
func (s *Sim) TriggerAction(ctx context.Context, id, componentID, action string) error {
	return s.withVessel(ctx, id, func(v *vessel) error {
		f, err := findPart(v.parts.Fairings, componentID)
		if err != nil {
			return err
		}
		for _, a := range f.Actions {
			if a == action {
				s.separate(v, f)
				return nil
			}
		}
		return fmt.Errorf("sim: %s has no event %q", componentID, action)
	})
}

// TriggerSeparation implements ports.Provider.
func (s *Sim) TriggerSeparation(ctx context.Context, id, componentID string) error {
	return s.withVessel(ctx, id, func(v *vessel) error {
		f, err := findPart(v.parts.Fairings, componentID)
		if err != nil {
			return err
		}
		s.separate(v, f)
		return nil
	})
}

// SetDeployed implements ports.Provider.
func (s *Sim) SetDeployed(ctx context.Context, id, componentID string, deployed bool) error {
	return s.withVessel(ctx, id, func(v *vessel) error {
		for _, parts := range [][]domain.Component{v.parts.Deployables, v.parts.LandingGear} {
			if p, err := findPart(parts, componentID); err == nil {
				if !p.Deployable {
					return fmt.Errorf("sim: %s is not deployable", componentID)
				}
				p.Deployed = deployed
				return nil
			}
		}
		return fmt.Errorf("sim: no part %s on %s", componentID, id)
	})
}

// SetActionGroup implements ports.Provider.
func (s *Sim) SetActionGroup(ctx context.Context, id string, group int, state bool) error {
	if group < 0 || group > 10 {
		return fmt.Errorf("sim: action group %d out of range", group)
	}
	return s.withVessel(ctx, id, func(v *vessel) error {
		v.groups[group] = state
		return nil
	})
}

// ActionGroup reports a vessel's action group state.
func (s *Sim) ActionGroup(id string, group int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.vessels[id]; ok {
		return v.groups[group]
	}
	return false
}

// Close disconnects. Every later call fails with domain.ErrConnectionLost.
func (s *Sim) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.cfg.Tick > 0 {
		close(s.stop)
	}
	<-s.done
	s.logger.Info("simulation disconnected")
	return nil
}

func (s *Sim) withVessel(ctx context.Context, id string, fn func(*vessel) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.lookup(id)
	if err != nil {
		return err
	}
	return fn(v)
}

// separate must be called with mu held.
func (s *Sim) separate(v *vessel, f *domain.Component) {
	if f.Jettisoned {
		return
	}
	f.Jettisoned = true
	s.logger.Info("fairing separated", log.Entity(v.id), log.String("part", f.ID))
	s.spawnDebris(v)
}

func findPart(parts []domain.Component, id string) (*domain.Component, error) {
	for i := range parts {
		if parts[i].ID == id {
			return &parts[i], nil
		}
	}
	return nil, fmt.Errorf("sim: no part %s", id)
}

func copyParts(in []domain.Component) []domain.Component {
	if in == nil {
		return nil
	}
	out := make([]domain.Component, len(in))
	for i, c := range in {
		c.Actions = append([]string(nil), c.Actions...)
		out[i] = c
	}
	return out
}
