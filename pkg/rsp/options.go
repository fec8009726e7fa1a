package rsp

import (
	"github.com/rspctl/rsp/internal/ports"
	"github.com/rspctl/rsp/pkg/log"
)

// Provider is the simulation connection a Controller drives.
type Provider = ports.Provider

// Option configures optional behavior of a Controller.
type Option func(*options)

type options struct {
	logger       log.Logger
	provider     Provider
	eventHandler EventHandler
	plugins      []Plugin
}

func defaultOptions() options {
	return options{
		logger: log.NoopLogger{},
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithProvider sets the simulation connection. Without it New dials the
// built-in simulation and Close releases it.
func WithProvider(p Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithEventHandler sets a handler for lifecycle events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when the Controller starts.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}
