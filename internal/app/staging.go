package app

import (
	"context"
	"fmt"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/ports"
	"github.com/rspctl/rsp/pkg/log"
)

// Stager performs the physical staging actions on one vehicle. Automation
// tasks and manual commands share it.
type Stager struct {
	provider ports.Provider
	logger   log.Logger
}

// NewStager creates a stager over provider.
func NewStager(provider ports.Provider, logger log.Logger) *Stager {
	return &Stager{provider: provider, logger: logger}
}

// Jettison reads the vehicle and fires its fairings.
func (s *Stager) Jettison(ctx context.Context, id string) (int, error) {
	st, err := s.provider.ReadState(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("read state: %w", err)
	}
	return s.jettison(ctx, id, st.Fairings)
}

// jettison invokes every separation event on every attached fairing. A
// failed event is logged and does not count as fired. If no event fired it
// falls back to separating each fairing part directly.
// It returns how many triggers were issued.
func (s *Stager) jettison(ctx context.Context, id string, fairings []domain.Component) (int, error) {
	fired := 0
	for _, f := range fairings {
		if f.Jettisoned {
			continue
		}
		for _, action := range f.Actions {
			if err := s.provider.TriggerAction(ctx, id, f.ID, action); err != nil {
				if ctx.Err() != nil {
					return fired, ctx.Err()
				}
				s.logger.Debug("separation event failed",
					log.Entity(id),
					log.String("part", f.ID),
					log.String("action", action),
					log.Err(err),
				)
				continue
			}
			fired++
		}
	}
	if fired > 0 {
		return fired, nil
	}

	for _, f := range fairings {
		if f.Jettisoned {
			continue
		}
		if err := s.provider.TriggerSeparation(ctx, id, f.ID); err != nil {
			return fired, fmt.Errorf("separate %s: %w", f.ID, err)
		}
		fired++
	}
	return fired, nil
}

// DeployPayload toggles every deployable appendage. It refuses with
// domain.ErrFairingAttached, touching nothing, while a fairing is attached.
func (s *Stager) DeployPayload(ctx context.Context, id string) (int, error) {
	st, err := s.provider.ReadState(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("read state: %w", err)
	}
	if st.FairingAttached {
		s.logger.Warn("payload deploy refused",
			log.Entity(id),
			log.Err(domain.ErrFairingAttached),
		)
		return 0, domain.ErrFairingAttached
	}
	return s.toggle(ctx, id, st.Deployables)
}

// DeployGear toggles every landing leg and wheel.
func (s *Stager) DeployGear(ctx context.Context, id string) (int, error) {
	st, err := s.provider.ReadState(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("read state: %w", err)
	}
	return s.toggle(ctx, id, st.LandingGear)
}

// toggle flips each deployable part: retracted parts extend and extended
// parts retract. Fixed parts are skipped.
func (s *Stager) toggle(ctx context.Context, id string, parts []domain.Component) (int, error) {
	n := 0
	for _, p := range parts {
		if !p.Deployable {
			continue
		}
		if err := s.provider.SetDeployed(ctx, id, p.ID, !p.Deployed); err != nil {
			return n, fmt.Errorf("toggle %s %s: %w", p.Kind, p.ID, err)
		}
		n++
	}
	s.logger.Debug("toggled parts", log.Entity(id), log.Int("count", n))
	return n, nil
}
