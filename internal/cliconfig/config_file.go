package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	ReconcileInterval  string  `toml:"reconcile_interval"`
	MonitorInterval    string  `toml:"monitor_interval"`
	SettleInterval     string  `toml:"settle_interval"`
	HeartbeatInterval  string  `toml:"heartbeat_interval"`
	CommandInterval    string  `toml:"command_interval"`
	PublishInterval    string  `toml:"publish_interval"`
	CommandQueueSize   int     `toml:"command_queue_size"`
	TelemetryQueueSize int     `toml:"telemetry_queue_size"`
	MaxDynamicPressure float64 `toml:"max_dynamic_pressure"`
	MinAltitude        float64 `toml:"min_altitude"`

	ActionGroups map[string]int `toml:"action_groups"`

	Logging FileLogging `toml:"logging"`
	MQTT    FileMQTT    `toml:"mqtt"`
	Sim     FileSim     `toml:"sim"`
}

// FileLogging is the [logging] table.
type FileLogging struct {
	Dir        string `toml:"dir"`
	Level      string `toml:"level"`
	Console    *bool  `toml:"console"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// FileMQTT is the [mqtt] table.
type FileMQTT struct {
	Enabled        *bool  `toml:"enabled"`
	Broker         string `toml:"broker"`
	ClientID       string `toml:"client_id"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	QoS            *int   `toml:"qos"`
	TelemetryTopic string `toml:"telemetry_topic"`
	CommandTopic   string `toml:"command_topic"`
	StatusTopic    string `toml:"status_topic"`
}

// FileSim is the [sim] table.
type FileSim struct {
	Vessels *int    `toml:"vessels"`
	Tick    string  `toml:"tick"`
	Warp    float64 `toml:"warp"`
	Seed    *int64  `toml:"seed"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.rsp/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".rsp", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	durations := []struct {
		flag  string
		value string
		dst   *time.Duration
	}{
		{"reconcile-interval", fc.ReconcileInterval, &cfg.ReconcileInterval},
		{"monitor-interval", fc.MonitorInterval, &cfg.MonitorInterval},
		{"settle-interval", fc.SettleInterval, &cfg.SettleInterval},
		{"heartbeat-interval", fc.HeartbeatInterval, &cfg.HeartbeatInterval},
		{"command-interval", fc.CommandInterval, &cfg.CommandInterval},
		{"publish-interval", fc.PublishInterval, &cfg.PublishInterval},
		{"sim-tick", fc.Sim.Tick, &cfg.SimTick},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, d.value, d.dst); err != nil {
			return err
		}
	}

	s.setInt("command-queue-size", fc.CommandQueueSize, &cfg.CommandQueueSize)
	s.setInt("telemetry-queue-size", fc.TelemetryQueueSize, &cfg.TelemetryQueueSize)
	s.setFloat("max-q", fc.MaxDynamicPressure, &cfg.MaxDynamicPressure)
	s.setFloat("min-altitude", fc.MinAltitude, &cfg.MinAltitude)

	if len(fc.ActionGroups) > 0 && !s.changed["action-group"] {
		groups := make(map[string]int, len(cfg.ActionGroups)+len(fc.ActionGroups))
		for k, v := range cfg.ActionGroups {
			groups[k] = v
		}
		for k, v := range fc.ActionGroups {
			groups[k] = v
		}
		cfg.ActionGroups = groups
	}

	s.setString("log-dir", fc.Logging.Dir, &cfg.LogDir)
	s.setString("log-level", fc.Logging.Level, &cfg.LogLevel)
	s.setBool("log-console", fc.Logging.Console, &cfg.LogConsole)
	s.setInt("log-max-size", fc.Logging.MaxSizeMB, &cfg.LogMaxSizeMB)
	s.setInt("log-max-backups", fc.Logging.MaxBackups, &cfg.LogMaxBackups)

	s.setBool("mqtt", fc.MQTT.Enabled, &cfg.MQTTEnabled)
	s.setString("mqtt-broker", fc.MQTT.Broker, &cfg.MQTTBroker)
	s.setString("mqtt-client-id", fc.MQTT.ClientID, &cfg.MQTTClientID)
	s.setString("mqtt-username", fc.MQTT.Username, &cfg.MQTTUsername)
	s.setString("mqtt-password", fc.MQTT.Password, &cfg.MQTTPassword)
	s.setIntPtr("mqtt-qos", fc.MQTT.QoS, &cfg.MQTTQoS)
	s.setString("telemetry-topic", fc.MQTT.TelemetryTopic, &cfg.TelemetryTopic)
	s.setString("command-topic", fc.MQTT.CommandTopic, &cfg.CommandTopic)
	s.setString("status-topic", fc.MQTT.StatusTopic, &cfg.StatusTopic)

	s.setIntPtr("sim-vessels", fc.Sim.Vessels, &cfg.SimVessels)
	s.setFloat("sim-warp", fc.Sim.Warp, &cfg.SimWarp)
	s.setInt64Ptr("sim-seed", fc.Sim.Seed, &cfg.SimSeed)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
