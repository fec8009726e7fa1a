package configwatcher

import "github.com/rspctl/rsp/pkg/rsp"

// WithConfigWatcher returns an rsp Option that reloads tunables when the
// config file changes.
//
// Usage:
//
//	ctl, err := rsp.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        DebounceDelay: 100 * time.Millisecond,
//	        Reload:        reload,
//	    }),
//	)
func WithConfigWatcher(cfg Config) rsp.Option {
	return rsp.WithPlugin(New(cfg))
}
