package app

import (
	"context"
	"time"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/ports"
	"github.com/rspctl/rsp/internal/queue"
	"github.com/rspctl/rsp/pkg/log"
)

// Publisher snapshots every active entity into one batch per cycle.
type Publisher struct {
	registry *Registry
	provider ports.Provider
	view     *View
	out      *queue.Latest[domain.Batch]
	interval time.Duration
	logger   log.Logger
	now      func() time.Time
}

// NewPublisher creates a publisher writing to out.
func NewPublisher(
	registry *Registry,
	provider ports.Provider,
	view *View,
	out *queue.Latest[domain.Batch],
	interval time.Duration,
	logger log.Logger,
) *Publisher {
	return &Publisher{
		registry: registry,
		provider: provider,
		view:     view,
		out:      out,
		interval: interval,
		logger:   log.With(logger, log.Component("publisher")),
		now:      time.Now,
	}
}

// Run publishes until ctx is done.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.PublishOnce(ctx)
		}
	}
}

// PublishOnce builds and enqueues one batch. A failed read excludes only
// that entity.
func (p *Publisher) PublishOnce(ctx context.Context) domain.Batch {
	entities := p.registry.Entities()
	batch := domain.Batch{
		At:       p.now(),
		Focus:    p.view.Focus(),
		Mode:     p.view.Mode(),
		Entities: make(map[string]domain.Reading, len(entities)),
	}

	for _, e := range entities {
		if !e.Active() {
			continue
		}
		st, err := p.provider.ReadState(ctx, e.ID)
		if err != nil {
			p.logger.Debug("read skipped", log.Entity(e.ID), log.Err(err))
			continue
		}
		batch.Entities[e.ID] = domain.ReadingOf(e.Name, st)
	}

	if p.out.Push(batch) {
		p.logger.Debug("stale batch dropped", log.Int("dropped_total", int(p.out.Dropped())))
	}
	return batch
}
