package cliconfig

import (
	"github.com/rspctl/rsp/internal/adapters/mqtt"
	"github.com/rspctl/rsp/internal/adapters/sim"
	"github.com/rspctl/rsp/internal/app"
	"github.com/rspctl/rsp/pkg/log"
)

// Supervisor returns the control loop cadences and queue sizes.
func (c Config) Supervisor() app.SupervisorConfig {
	return app.SupervisorConfig{
		ReconcileInterval: c.ReconcileInterval,
		CommandInterval:   c.CommandInterval,
		PublishInterval:   c.PublishInterval,
		Task: app.TaskTiming{
			Monitor:   c.MonitorInterval,
			Settle:    c.SettleInterval,
			Heartbeat: c.HeartbeatInterval,
		},
		CommandQueueSize:   c.CommandQueueSize,
		TelemetryQueueSize: c.TelemetryQueueSize,
	}
}

// Tunables returns the values the configwatcher may swap at runtime.
func (c Config) Tunables() app.Tunables {
	groups := make(map[string]int, len(c.ActionGroups))
	for k, v := range c.ActionGroups {
		groups[k] = v
	}
	return app.Tunables{
		MaxDynamicPressure: c.MaxDynamicPressure,
		MinAltitude:        c.MinAltitude,
		ActionGroups:       groups,
	}
}

// MQTT returns the broker configuration.
func (c Config) MQTT() mqtt.Config {
	return mqtt.Config{
		BrokerURL:      c.MQTTBroker,
		ClientID:       c.MQTTClientID,
		Username:       c.MQTTUsername,
		Password:       c.MQTTPassword,
		TelemetryTopic: c.TelemetryTopic,
		CommandTopic:   c.CommandTopic,
		StatusTopic:    c.StatusTopic,
		QoS:            byte(c.MQTTQoS),
	}
}

// Sim returns the simulated provider configuration.
func (c Config) Sim() sim.Config {
	sc := sim.DefaultConfig()
	sc.Vessels = c.SimVessels
	sc.Tick = c.SimTick
	sc.Warp = c.SimWarp
	sc.Seed = c.SimSeed
	return sc
}

// Logging returns the mission log configuration.
func (c Config) Logging() log.FileConfig {
	return log.FileConfig{
		Dir:        c.LogDir,
		Level:      c.LogLevel,
		Console:    c.LogConsole,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
	}
}

// ReloadTunables re-reads the config file at path over base and returns
// the resulting tunables. Values set by changed flags keep their base value
// and RSP_* variables still override the file, as they do at startup.
func ReloadTunables(path string, base Config, changed map[string]bool) (app.Tunables, error) {
	fc, err := LoadFileConfig(path)
	if err != nil {
		return app.Tunables{}, err
	}
	cfg := base
	cfg.ActionGroups = nil
	if changed["action-group"] {
		cfg.ActionGroups = base.ActionGroups
	}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		return app.Tunables{}, err
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		return app.Tunables{}, err
	}
	if err := cfg.Validate(); err != nil {
		return app.Tunables{}, err
	}
	return cfg.Tunables(), nil
}
