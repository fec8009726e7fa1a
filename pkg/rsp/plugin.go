package rsp

import (
	"context"

	"github.com/rspctl/rsp/internal/app"
	"github.com/rspctl/rsp/pkg/log"
)

// Tunables are the jettison thresholds and action groups that may change
// while the Controller runs.
type Tunables = app.Tunables

// TunableStore is the live holder plugins may swap Tunables through.
type TunableStore interface {
	Load() Tunables
	Store(Tunables)
}

// Plugin extends a Controller. Plugins are initialized in registration
// order on Start and shut down in reverse order on Stop.
type Plugin interface {
	Name() string
	Initialize(ctx context.Context, cfg PluginConfig) error
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin receives on Initialize.
type PluginConfig struct {
	// ConfigPath is the file the configuration was loaded from, if any.
	ConfigPath string

	Logger   log.Logger
	Tunables TunableStore
}
