package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rspctl/rsp/internal/domain"
)

// Config holds CLI configuration for rsp.
type Config struct {
	ConfigPath string

	ReconcileInterval time.Duration
	MonitorInterval   time.Duration
	SettleInterval    time.Duration
	HeartbeatInterval time.Duration
	CommandInterval   time.Duration
	PublishInterval   time.Duration

	CommandQueueSize   int
	TelemetryQueueSize int

	MaxDynamicPressure float64
	MinAltitude        float64
	ActionGroups       map[string]int

	LogDir        string
	LogLevel      string
	LogConsole    bool
	LogMaxSizeMB  int
	LogMaxBackups int

	MQTTEnabled    bool
	MQTTBroker     string
	MQTTClientID   string
	MQTTUsername   string
	MQTTPassword   string
	MQTTQoS        int
	TelemetryTopic string
	CommandTopic   string
	StatusTopic    string

	SimVessels int
	SimTick    time.Duration
	SimWarp    float64
	SimSeed    int64
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ReconcileInterval:  time.Second,
		MonitorInterval:    500 * time.Millisecond,
		SettleInterval:     time.Second,
		HeartbeatInterval:  time.Second,
		CommandInterval:    100 * time.Millisecond,
		PublishInterval:    100 * time.Millisecond,
		CommandQueueSize:   64,
		TelemetryQueueSize: 4,
		MaxDynamicPressure: 100,
		MinAltitude:        40000,
		ActionGroups:       map[string]int{},
		LogLevel:           "info",
		LogConsole:         true,
		LogMaxSizeMB:       50,
		LogMaxBackups:      10,
		MQTTBroker:         "tcp://127.0.0.1:1883",
		MQTTClientID:       "rsp",
		TelemetryTopic:     "rsp/telemetry",
		CommandTopic:       "rsp/commands",
		StatusTopic:        "rsp/status",
		SimVessels:         3,
		SimTick:            100 * time.Millisecond,
		SimWarp:            10,
		SimSeed:            1,
		MQTTPassword:       os.Getenv("RSP_MQTT_PASSWORD"),
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	intervals := []struct {
		name string
		d    time.Duration
	}{
		{"reconcile interval", c.ReconcileInterval},
		{"monitor interval", c.MonitorInterval},
		{"settle interval", c.SettleInterval},
		{"heartbeat interval", c.HeartbeatInterval},
		{"command interval", c.CommandInterval},
		{"publish interval", c.PublishInterval},
	}
	for _, iv := range intervals {
		if iv.d <= 0 {
			return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidConfig, iv.name)
		}
	}

	if c.CommandQueueSize <= 0 {
		return fmt.Errorf("%w: command queue size must be positive", domain.ErrInvalidConfig)
	}
	if c.TelemetryQueueSize <= 0 {
		return fmt.Errorf("%w: telemetry queue size must be positive", domain.ErrInvalidConfig)
	}
	if c.MaxDynamicPressure <= 0 {
		return fmt.Errorf("%w: max dynamic pressure must be positive", domain.ErrInvalidConfig)
	}
	if c.MQTTQoS < 0 || c.MQTTQoS > 2 {
		return fmt.Errorf("%w: mqtt qos must be 0, 1 or 2", domain.ErrInvalidConfig)
	}
	for name, group := range c.ActionGroups {
		if group < 0 || group > 10 {
			return fmt.Errorf("%w: action group %q out of range: %d", domain.ErrInvalidConfig, name, group)
		}
	}

	if c.LogDir == "" {
		if h, err := os.UserHomeDir(); err == nil {
			c.LogDir = filepath.Join(h, ".rsp", "logs")
		} else {
			c.LogDir = "logs"
		}
	}
	if c.ActionGroups == nil {
		c.ActionGroups = map[string]int{}
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value from a pointer, so zero can be configured.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setInt64Ptr sets an int64 value from a pointer, so zero can be configured.
func (s *configSetter) setInt64Ptr(flag string, value *int64, dst *int64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination.
// Used for environment variables that come as strings; zero is accepted.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if positive.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
