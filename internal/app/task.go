package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/ports"
	"github.com/rspctl/rsp/pkg/log"
)

// TaskTiming holds the cadences of one automation task.
type TaskTiming struct {
	// Monitor is the fairing poll interval.
	Monitor time.Duration

	// Settle is how long to wait after a jettison trigger before
	// confirming separation.
	Settle time.Duration

	// Heartbeat is the Idle liveness probe interval.
	Heartbeat time.Duration
}

// Task drives one entity through the staging sequence:
// Monitoring, JettisonConfirmed, PayloadDeployed, GearDeployed, Idle.
// Any error moves it to Failed. A task never retries and never restarts.
type Task struct {
	entity   *domain.Entity
	provider ports.Provider
	stager   *Stager
	tunables *LiveTunables
	timing   TaskTiming
	logger   log.Logger

	state atomic.Int32
}

// NewTask creates a task in Monitoring.
func NewTask(
	entity *domain.Entity,
	provider ports.Provider,
	tunables *LiveTunables,
	timing TaskTiming,
	logger log.Logger,
) *Task {
	logger = log.With(logger, log.Component("task"), log.Entity(entity.ID))
	return &Task{
		entity:   entity,
		provider: provider,
		stager:   NewStager(provider, logger),
		tunables: tunables,
		timing:   timing,
		logger:   logger,
	}
}

// State returns the current automation state.
func (t *Task) State() domain.AutomationState {
	return domain.AutomationState(t.state.Load())
}

// Entity returns the entity the task drives.
func (t *Task) Entity() *domain.Entity {
	return t.entity
}

// Run blocks until the task terminates: on failure or when ctx is
// cancelled. It never panics and always leaves the entity inactive.
func (t *Task) Run(ctx context.Context) {
	defer t.entity.Deactivate()
	defer func() {
		if r := recover(); r != nil {
			t.fail(fmt.Errorf("panic: %v", r))
		}
	}()

	t.logger.Info("automation started", log.String("name", t.entity.Name))

	err := t.run(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		t.logger.Info("automation cancelled", log.String("state", t.State().String()))
	default:
		t.fail(err)
	}
}

func (t *Task) run(ctx context.Context) error {
	for {
		switch t.State() {
		case domain.StateMonitoring:
			if err := t.monitor(ctx); err != nil {
				return err
			}
			if err := t.advance(domain.StateJettisonConfirmed); err != nil {
				return err
			}

		case domain.StateJettisonConfirmed:
			n, err := t.stager.DeployPayload(ctx, t.entity.ID)
			if errors.Is(err, domain.ErrFairingAttached) {
				// Rejection is already logged; the step is skipped.
				err = nil
			}
			if err != nil {
				return fmt.Errorf("deploy payload: %w", err)
			}
			t.logger.Info("payload toggled", log.Int("parts", n))
			if err := t.advance(domain.StatePayloadDeployed); err != nil {
				return err
			}

		case domain.StatePayloadDeployed:
			n, err := t.stager.DeployGear(ctx, t.entity.ID)
			if err != nil {
				return fmt.Errorf("deploy gear: %w", err)
			}
			t.logger.Info("gear toggled", log.Int("parts", n))
			if err := t.advance(domain.StateGearDeployed); err != nil {
				return err
			}

		case domain.StateGearDeployed:
			if err := t.advance(domain.StateIdle); err != nil {
				return err
			}

		case domain.StateIdle:
			return t.idle(ctx)

		default:
			return nil
		}
	}
}

// monitor returns once the fairing is confirmed separated. While attached
// it triggers jettison whenever the flight is inside the jettison window.
func (t *Task) monitor(ctx context.Context) error {
	ticker := time.NewTicker(t.timing.Monitor)
	defer ticker.Stop()

	for {
		st, err := t.provider.ReadState(ctx, t.entity.ID)
		if err != nil {
			return fmt.Errorf("read state: %w", err)
		}
		if !st.FairingAttached {
			return nil
		}

		if t.tunables.Load().JettisonWindow(st.DynamicPressure, st.Altitude) {
			confirmed, err := t.jettison(ctx, st)
			if err != nil || confirmed {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// jettison fires the fairings and, when anything fired, waits the settle
// interval and re-reads the vehicle to confirm separation.
func (t *Task) jettison(ctx context.Context, st domain.PhysicalState) (bool, error) {
	fired, err := t.stager.jettison(ctx, t.entity.ID, st.Fairings)
	if err != nil {
		return false, fmt.Errorf("jettison: %w", err)
	}
	if fired == 0 {
		t.logger.Debug("no fairing part to jettison")
		return false, nil
	}
	t.logger.Info("jettison triggered",
		log.Int("triggers", fired),
		log.Float64("q", st.DynamicPressure),
		log.Float64("alt", st.Altitude),
	)

	if err := sleep(ctx, t.timing.Settle); err != nil {
		return false, err
	}
	st, err = t.provider.ReadState(ctx, t.entity.ID)
	if err != nil {
		return false, fmt.Errorf("confirm jettison: %w", err)
	}
	if st.FairingAttached {
		t.logger.Debug("jettison not confirmed yet")
		return false, nil
	}
	t.logger.Info("jettison confirmed")
	return true, nil
}

// idle probes the entity on every heartbeat. A failed read means the
// vehicle is gone.
func (t *Task) idle(ctx context.Context) error {
	ticker := time.NewTicker(t.timing.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := t.provider.ReadState(ctx, t.entity.ID); err != nil {
				return fmt.Errorf("heartbeat: %w", err)
			}
			t.logger.Debug("heartbeat")
		}
	}
}

func (t *Task) advance(next domain.AutomationState) error {
	prev := t.State()
	if !domain.CanTransition(prev, next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, prev, next)
	}
	t.state.Store(int32(next))
	t.logger.Info("automation state",
		log.String("from", prev.String()),
		log.String("to", next.String()),
	)
	return nil
}

func (t *Task) fail(err error) {
	prev := t.State()
	if prev.Terminal() {
		return
	}
	t.state.Store(int32(domain.StateFailed))
	t.logger.Error("automation failed",
		log.String("state", prev.String()),
		log.Err(err),
	)
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
