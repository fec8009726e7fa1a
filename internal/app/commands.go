package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/ports"
	"github.com/rspctl/rsp/internal/queue"
	"github.com/rspctl/rsp/pkg/log"
)

// CommandHandler applies one command.
type CommandHandler func(ctx context.Context, cmd domain.Command) error

// Dispatcher routes commands to handlers keyed by kind.
type Dispatcher struct {
	handlers map[string]CommandHandler
}

// NewDispatcher creates a dispatcher with no handlers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]CommandHandler)}
}

// Handle registers h for kind, replacing any earlier handler.
func (d *Dispatcher) Handle(kind string, h CommandHandler) {
	d.handlers[kind] = h
}

// Dispatch runs the handler for cmd.Kind synchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd domain.Command) error {
	h, ok := d.handlers[cmd.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Kind)
	}
	return h(ctx, cmd)
}

// CommandDeps are what the built-in handlers act on.
type CommandDeps struct {
	View     *View
	Registry *Registry
	Provider ports.Provider
	Tunables *LiveTunables
	Logger   log.Logger
}

// RegisterDefaultHandlers installs the view, manual staging and action
// group handlers.
func RegisterDefaultHandlers(d *Dispatcher, deps CommandDeps) {
	stager := NewStager(deps.Provider, log.With(deps.Logger, log.Component("commands")))

	d.Handle(domain.CommandSwitchTarget, func(_ context.Context, cmd domain.Command) error {
		id, err := cmd.PayloadString()
		if err != nil {
			return err
		}
		deps.View.SetFocus(id)
		return nil
	})

	d.Handle(domain.CommandSwitchMode, func(_ context.Context, cmd domain.Command) error {
		mode, err := cmd.PayloadString()
		if err != nil {
			return err
		}
		return deps.View.SetMode(mode)
	})

	manual := func(action func(context.Context, string) (int, error)) CommandHandler {
		return func(ctx context.Context, cmd domain.Command) error {
			id, err := cmd.PayloadString()
			if err != nil {
				return err
			}
			if _, ok := deps.Registry.Lookup(id); !ok {
				return fmt.Errorf("%w: %s", domain.ErrEntityNotFound, id)
			}
			_, err = action(ctx, id)
			return err
		}
	}
	d.Handle(domain.CommandDeploy, manual(stager.DeployPayload))
	d.Handle(domain.CommandGear, manual(stager.DeployGear))
	d.Handle(domain.CommandJettison, manual(stager.Jettison))

	d.Handle(domain.CommandActionGroup, func(ctx context.Context, cmd domain.Command) error {
		var p domain.ActionGroupPayload
		if err := cmd.DecodePayload(&p); err != nil {
			return err
		}
		group, ok := deps.Tunables.Load().ActionGroups[p.Group]
		if !ok {
			return fmt.Errorf("%w: unknown action group %q", domain.ErrInvalidPayload, p.Group)
		}
		if _, ok := deps.Registry.Lookup(p.Entity); !ok {
			return fmt.Errorf("%w: %s", domain.ErrEntityNotFound, p.Entity)
		}
		return deps.Provider.SetActionGroup(ctx, p.Entity, group, true)
	})
}

// CommandConsumer drains the inbound command queue on a fixed cadence.
type CommandConsumer struct {
	queue      *queue.FIFO[domain.Command]
	dispatcher *Dispatcher
	interval   time.Duration
	logger     log.Logger
}

// NewCommandConsumer creates a consumer of q.
func NewCommandConsumer(q *queue.FIFO[domain.Command], d *Dispatcher, interval time.Duration, logger log.Logger) *CommandConsumer {
	return &CommandConsumer{
		queue:      q,
		dispatcher: d,
		interval:   interval,
		logger:     log.With(logger, log.Component("commands")),
	}
}

// Run drains until ctx is done.
func (c *CommandConsumer) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.DrainOnce(ctx)
		}
	}
}

// DrainOnce dispatches every queued command in FIFO order. Failures are
// logged and the command dropped.
func (c *CommandConsumer) DrainOnce(ctx context.Context) int {
	return c.queue.Drain(func(cmd domain.Command) {
		err := c.dispatcher.Dispatch(ctx, cmd)
		switch {
		case err == nil:
			c.logger.Debug("command applied", log.String("kind", cmd.Kind))
		case errors.Is(err, domain.ErrUnknownCommand):
			c.logger.Warn("unknown command dropped", log.String("kind", cmd.Kind))
		default:
			c.logger.Warn("command failed", log.String("kind", cmd.Kind), log.Err(err))
		}
	})
}
