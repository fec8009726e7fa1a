package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvConfig applies RSP_* environment variables to the Config.
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	durations := []struct {
		flag string
		env  string
		dst  *time.Duration
	}{
		{"reconcile-interval", "RSP_RECONCILE_INTERVAL", &cfg.ReconcileInterval},
		{"monitor-interval", "RSP_MONITOR_INTERVAL", &cfg.MonitorInterval},
		{"settle-interval", "RSP_SETTLE_INTERVAL", &cfg.SettleInterval},
		{"heartbeat-interval", "RSP_HEARTBEAT_INTERVAL", &cfg.HeartbeatInterval},
		{"command-interval", "RSP_COMMAND_INTERVAL", &cfg.CommandInterval},
		{"publish-interval", "RSP_PUBLISH_INTERVAL", &cfg.PublishInterval},
		{"sim-tick", "RSP_SIM_TICK", &cfg.SimTick},
	}
	for _, d := range durations {
		if err := s.setDuration(d.flag, os.Getenv(d.env), d.dst); err != nil {
			return err
		}
	}

	ints := []struct {
		flag string
		env  string
		dst  *int
	}{
		{"command-queue-size", "RSP_COMMAND_QUEUE_SIZE", &cfg.CommandQueueSize},
		{"telemetry-queue-size", "RSP_TELEMETRY_QUEUE_SIZE", &cfg.TelemetryQueueSize},
		{"log-max-size", "RSP_LOG_MAX_SIZE_MB", &cfg.LogMaxSizeMB},
		{"log-max-backups", "RSP_LOG_MAX_BACKUPS", &cfg.LogMaxBackups},
		{"mqtt-qos", "RSP_MQTT_QOS", &cfg.MQTTQoS},
		{"sim-vessels", "RSP_SIM_VESSELS", &cfg.SimVessels},
	}
	for _, i := range ints {
		if err := s.setIntFromString(i.flag, os.Getenv(i.env), i.dst); err != nil {
			return err
		}
	}

	if err := s.setFloatFromString("max-q", os.Getenv("RSP_MAX_DYNAMIC_PRESSURE"), &cfg.MaxDynamicPressure); err != nil {
		return err
	}
	if err := s.setFloatFromString("min-altitude", os.Getenv("RSP_MIN_ALTITUDE"), &cfg.MinAltitude); err != nil {
		return err
	}
	if err := s.setFloatFromString("sim-warp", os.Getenv("RSP_SIM_WARP"), &cfg.SimWarp); err != nil {
		return err
	}
	if err := s.setInt64FromString("sim-seed", os.Getenv("RSP_SIM_SEED"), &cfg.SimSeed); err != nil {
		return err
	}

	s.setString("log-dir", os.Getenv("RSP_LOG_DIR"), &cfg.LogDir)
	s.setString("log-level", os.Getenv("RSP_LOG_LEVEL"), &cfg.LogLevel)
	s.setBoolFromString("log-console", os.Getenv("RSP_LOG_CONSOLE"), &cfg.LogConsole)

	s.setBoolFromString("mqtt", os.Getenv("RSP_MQTT"), &cfg.MQTTEnabled)
	s.setString("mqtt-broker", os.Getenv("RSP_MQTT_BROKER"), &cfg.MQTTBroker)
	s.setString("mqtt-client-id", os.Getenv("RSP_MQTT_CLIENT_ID"), &cfg.MQTTClientID)
	s.setString("mqtt-username", os.Getenv("RSP_MQTT_USERNAME"), &cfg.MQTTUsername)
	s.setString("mqtt-password", os.Getenv("RSP_MQTT_PASSWORD"), &cfg.MQTTPassword)
	s.setString("telemetry-topic", os.Getenv("RSP_TELEMETRY_TOPIC"), &cfg.TelemetryTopic)
	s.setString("command-topic", os.Getenv("RSP_COMMAND_TOPIC"), &cfg.CommandTopic)
	s.setString("status-topic", os.Getenv("RSP_STATUS_TOPIC"), &cfg.StatusTopic)

	if v := os.Getenv("RSP_ACTION_GROUPS"); v != "" && !changed["action-group"] {
		groups, err := ParseActionGroups(strings.Split(v, ","))
		if err != nil {
			return fmt.Errorf("parse RSP_ACTION_GROUPS: %w", err)
		}
		cfg.ActionGroups = groups
	}

	return nil
}

// ParseActionGroups parses name=group pairs, as given by --action-group
// or RSP_ACTION_GROUPS.
func ParseActionGroups(pairs []string) (map[string]int, error) {
	groups := make(map[string]int, len(pairs))
	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name, num, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("action group %q: want name=number", p)
		}
		g, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			return nil, fmt.Errorf("action group %q: %w", p, err)
		}
		groups[name] = g
	}
	return groups, nil
}
