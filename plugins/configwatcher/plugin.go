// Package configwatcher reloads jettison thresholds and action groups when
// the rsp config file changes.
package configwatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rspctl/rsp/pkg/log"
	"github.com/rspctl/rsp/pkg/rsp"
)

// ReloadFunc re-reads the config file at path and returns the tunables it
// describes.
type ReloadFunc func(path string) (rsp.Tunables, error)

// Plugin watches the config file's directory and swaps the live tunables
// when the file is written, created or renamed into place.
type Plugin struct {
	mu sync.Mutex

	debounceDelay time.Duration
	reload        ReloadFunc

	path     string
	logger   log.Logger
	tunables rsp.TunableStore
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
	reloads  int
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// Reload parses the file. Without it the plugin stays disabled.
	Reload ReloadFunc
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		debounceDelay: cfg.DebounceDelay,
		reload:        cfg.Reload,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize starts watching cfg.ConfigPath.
func (p *Plugin) Initialize(ctx context.Context, cfg rsp.PluginConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	p.mu.Lock()
	p.path = cfg.ConfigPath
	p.logger = log.With(logger, log.Component("configwatcher"))
	p.tunables = cfg.Tunables
	p.mu.Unlock()

	if p.path == "" || p.reload == nil || p.tunables == nil {
		p.logger.Warn("config watcher disabled: no config file or reload func")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(p.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("config watcher initialized", log.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)
	return nil
}

// Shutdown stops the config watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// Reloads returns how many reloads have been applied.
func (p *Plugin) Reloads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.apply()
	})
}

// apply reloads the file. A file that fails to parse or validate keeps
// the previous tunables.
func (p *Plugin) apply() {
	t, err := p.reload(p.path)
	if err != nil {
		p.logger.Warn("config reload failed, keeping previous tunables", log.Err(err))
		return
	}
	p.tunables.Store(t)

	p.mu.Lock()
	p.reloads++
	p.mu.Unlock()

	p.logger.Info("tunables reloaded",
		log.Float64("max_dynamic_pressure", t.MaxDynamicPressure),
		log.Float64("min_altitude", t.MinAltitude),
		log.Int("action_groups", len(t.ActionGroups)),
	)
}

var _ rsp.Plugin = (*Plugin)(nil)
