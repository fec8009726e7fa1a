package rsp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rspctl/rsp/internal/adapters/sim"
	"github.com/rspctl/rsp/internal/app"
	"github.com/rspctl/rsp/internal/cliconfig"
	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/queue"
	"github.com/rspctl/rsp/pkg/log"
)

// Config is the full control process configuration.
type Config = cliconfig.Config

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Controller is the staging supervisor as an embeddable component.
// Use New() to create an instance, then Start() to begin supervising.
type Controller struct {
	config     Config
	lifecycle  *app.Lifecycle
	supervisor *app.Supervisor
	provider   Provider
	ownsConn   bool
	logger     log.Logger
	plugins    []Plugin

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	runErr error
}

// New creates a Controller in StateStopped. Without WithProvider it dials
// the built-in simulation described by cfg.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	provider := o.provider
	owns := false
	if provider == nil {
		s, err := sim.Dial(context.Background(), cfg.Sim(), logger)
		if err != nil {
			return nil, fmt.Errorf("dial simulation: %w", err)
		}
		provider = s
		owns = true
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}
	lifecycle := app.NewLifecycle(logger, emitter)
	tunables := app.NewLiveTunables(cfg.Tunables())
	supervisor := app.NewSupervisor(cfg.Supervisor(), provider, tunables, lifecycle, logger)

	return &Controller{
		config:     cfg,
		lifecycle:  lifecycle,
		supervisor: supervisor,
		provider:   provider,
		ownsConn:   owns,
		logger:     logger,
		plugins:    o.plugins,
	}, nil
}

// Commands returns the inbound command queue. Transports feed it.
func (c *Controller) Commands() *queue.FIFO[domain.Command] {
	return c.supervisor.Commands()
}

// Telemetry returns the outbound telemetry queue. Transports drain it.
func (c *Controller) Telemetry() *queue.Latest[domain.Batch] {
	return c.supervisor.Telemetry()
}

// Tunables returns the live jettison thresholds and action groups.
func (c *Controller) Tunables() TunableStore {
	return c.supervisor.Tunables()
}

// AddLoop runs fn alongside the built-in loops. A non-nil error from fn
// crashes the Controller. Call before Start.
func (c *Controller) AddLoop(name string, fn func(ctx context.Context) error) {
	c.supervisor.AddLoop(app.Loop{Name: name, Run: fn})
}

// Start begins supervising in the background and returns immediately.
// Returns an error if already running or if a plugin fails to initialize.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := c.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.lifecycle.SetCancel(cancel)
	c.runErr = nil

	pluginCfg := PluginConfig{
		ConfigPath: c.config.ConfigPath,
		Logger:     c.logger,
		Tunables:   c.supervisor.Tunables(),
	}
	for _, p := range c.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			c.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			cancel()
			_ = c.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		c.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	done := make(chan struct{})
	c.done = done

	c.lifecycle.AddWorker()
	go func() {
		defer c.lifecycle.WorkerDone()
		defer close(done)

		if err := c.lifecycle.TransitionTo(app.StateRunning, "supervisor starting"); err != nil {
			c.logger.Error("failed to transition to running", log.Err(err))
			return
		}

		err := c.supervisor.Run(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			c.mu.Lock()
			c.runErr = err
			c.mu.Unlock()
			_ = c.lifecycle.TransitionTo(app.StateCrashed, err.Error())
			cancel()
		}
	}()

	return nil
}

// Done is closed when the supervisor stops, whether by Stop or a crash.
// It returns nil before the first Start.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Stop cancels every loop and automation task and waits up to
// ShutdownTimeout for them. After a crash it still shuts plugins down and
// returns the crash cause.
func (c *Controller) Stop() error {
	c.mu.Lock()

	crashed := false
	switch {
	case c.lifecycle.CanStop():
		if err := c.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
			c.mu.Unlock()
			return err
		}
	case c.lifecycle.State() == app.StateCrashed && c.cancel != nil:
		crashed = true
	default:
		c.mu.Unlock()
		return domain.ErrNotRunning
	}

	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	err := c.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	shutdownCtx := context.Background()
	for i := len(c.plugins) - 1; i >= 0; i-- {
		p := c.plugins[i]
		if shutdownErr := p.Shutdown(shutdownCtx); shutdownErr != nil {
			c.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(shutdownErr))
		} else {
			c.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}

	c.mu.Lock()
	c.cancel = nil
	runErr := c.runErr
	c.mu.Unlock()

	switch {
	case crashed:
		_ = c.lifecycle.TransitionTo(app.StateStopped, "stopped after crash")
		return runErr
	case err != nil:
		_ = c.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
		return err
	default:
		_ = c.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
		return nil
	}
}

// Close releases the simulation connection when New dialed it.
func (c *Controller) Close() error {
	if !c.ownsConn {
		return nil
	}
	return c.provider.Close()
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (c *Controller) Status() State {
	return convertState(c.lifecycle.State())
}

// validateModuleVersions checks that all module versions are compatible.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"rsp": {Version, MinCompatibleVersion},
		"log": {log.Version, log.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}
	return nil
}

// isVersionCompatible checks if version >= minVersion using semantic versioning.
// Assumes versions are in format "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
