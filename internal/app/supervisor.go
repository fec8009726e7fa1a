package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/ports"
	"github.com/rspctl/rsp/internal/queue"
	"github.com/rspctl/rsp/pkg/log"
)

// SupervisorConfig contains the cadences and queue sizes of the control
// process.
type SupervisorConfig struct {
	ReconcileInterval time.Duration
	CommandInterval   time.Duration
	PublishInterval   time.Duration
	Task              TaskTiming

	CommandQueueSize   int
	TelemetryQueueSize int
}

// DefaultSupervisorConfig returns the stock cadences.
func DefaultSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		ReconcileInterval: time.Second,
		CommandInterval:   100 * time.Millisecond,
		PublishInterval:   100 * time.Millisecond,
		Task: TaskTiming{
			Monitor:   500 * time.Millisecond,
			Settle:    time.Second,
			Heartbeat: time.Second,
		},
		CommandQueueSize:   64,
		TelemetryQueueSize: 4,
	}
}

// Loop is an extra long-running sibling of the built-in loops, such as a
// transport relay. A non-nil error from Run stops the supervisor.
type Loop struct {
	Name string
	Run  func(ctx context.Context) error
}

// Supervisor owns the reconciler, command consumer and publisher loops
// and every automation task the reconciler launches.
type Supervisor struct {
	cfg      SupervisorConfig
	provider ports.Provider
	logger   log.Logger

	tunables  *LiveTunables
	view      *View
	commands  *queue.FIFO[domain.Command]
	telemetry *queue.Latest[domain.Batch]

	registry   *Registry
	dispatcher *Dispatcher
	consumer   *CommandConsumer
	publisher  *Publisher

	loops []Loop
}

// NewSupervisor wires the control process. Tasks are tracked with
// workers; pass nil to track them internally.
func NewSupervisor(
	cfg SupervisorConfig,
	provider ports.Provider,
	tunables *LiveTunables,
	workers Workers,
	logger log.Logger,
) *Supervisor {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	if tunables == nil {
		tunables = NewLiveTunables(DefaultTunables())
	}
	if workers == nil {
		workers = &WaitGroupWorkers{}
	}

	s := &Supervisor{
		cfg:       cfg,
		provider:  provider,
		logger:    log.With(logger, log.Component("supervisor")),
		tunables:  tunables,
		view:      NewView(),
		commands:  queue.NewFIFO[domain.Command](cfg.CommandQueueSize),
		telemetry: queue.NewLatest[domain.Batch](cfg.TelemetryQueueSize),
	}

	s.registry = NewRegistry(func(e *domain.Entity) *Task {
		return NewTask(e, provider, tunables, cfg.Task, logger)
	}, workers, logger)

	s.dispatcher = NewDispatcher()
	RegisterDefaultHandlers(s.dispatcher, CommandDeps{
		View:     s.view,
		Registry: s.registry,
		Provider: provider,
		Tunables: tunables,
		Logger:   logger,
	})
	s.consumer = NewCommandConsumer(s.commands, s.dispatcher, cfg.CommandInterval, logger)
	s.publisher = NewPublisher(s.registry, provider, s.view, s.telemetry, cfg.PublishInterval, logger)
	return s
}

// AddLoop registers an extra sibling loop. Call before Run.
func (s *Supervisor) AddLoop(l Loop) {
	s.loops = append(s.loops, l)
}

// Commands returns the inbound command queue.
func (s *Supervisor) Commands() *queue.FIFO[domain.Command] { return s.commands }

// Telemetry returns the outbound telemetry queue.
func (s *Supervisor) Telemetry() *queue.Latest[domain.Batch] { return s.telemetry }

// Registry returns the entity registry.
func (s *Supervisor) Registry() *Registry { return s.registry }

// Dispatcher returns the command dispatcher so callers can add handlers.
func (s *Supervisor) Dispatcher() *Dispatcher { return s.dispatcher }

// View returns the dashboard view state.
func (s *Supervisor) View() *View { return s.view }

// Tunables returns the live tunables.
func (s *Supervisor) Tunables() *LiveTunables { return s.tunables }

// Run blocks until ctx is cancelled or a loop fails. The only built-in
// failure is losing the provider connection. On return every automation
// task has been cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.reconcileLoop(gctx) })
	g.Go(func() error { return s.consumer.Run(gctx) })
	g.Go(func() error { return s.publisher.Run(gctx) })
	for _, l := range s.loops {
		l := l
		g.Go(func() error {
			if err := l.Run(gctx); err != nil && gctx.Err() == nil {
				return fmt.Errorf("%s: %w", l.Name, err)
			}
			return nil
		})
	}

	err := g.Wait()
	s.registry.CancelAll()
	if err != nil {
		s.logger.Error("supervisor stopped", log.Err(err))
	}
	return err
}

func (s *Supervisor) reconcileLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		if err := s.ReconcileOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ReconcileOnce runs one reconcile cycle. It returns an error only when
// the provider connection is lost; other enumeration failures skip the
// cycle.
func (s *Supervisor) ReconcileOnce(ctx context.Context) error {
	infos, err := s.provider.ListEntities(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrConnectionLost) {
			return err
		}
		if ctx.Err() == nil {
			s.logger.Warn("enumeration failed, skipping cycle", log.Err(err))
		}
		return nil
	}
	s.registry.Reconcile(ctx, infos)
	return nil
}

// WaitGroupWorkers adapts a sync.WaitGroup to Workers.
type WaitGroupWorkers struct {
	wg sync.WaitGroup
}

// AddWorker increments the worker count.
func (w *WaitGroupWorkers) AddWorker() { w.wg.Add(1) }

// WorkerDone decrements the worker count.
func (w *WaitGroupWorkers) WorkerDone() { w.wg.Done() }

// Wait blocks until every worker is done.
func (w *WaitGroupWorkers) Wait() { w.wg.Wait() }
