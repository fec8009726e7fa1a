package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies valid env vars",
			envVars: map[string]string{
				"RSP_RECONCILE_INTERVAL":   "2s",
				"RSP_COMMAND_QUEUE_SIZE":   "16",
				"RSP_MAX_DYNAMIC_PRESSURE": "80",
				"RSP_LOG_LEVEL":            "debug",
				"RSP_MQTT":                 "true",
				"RSP_SIM_SEED":             "42",
			},
			changed: map[string]bool{},
			expected: Config{
				ReconcileInterval:  2 * time.Second,
				CommandQueueSize:   16,
				MaxDynamicPressure: 80,
				LogLevel:           "debug",
				MQTTEnabled:        true,
				SimSeed:            42,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"RSP_LOG_LEVEL":   "debug",
				"RSP_MQTT_BROKER": "tcp://env:1883",
			},
			changed: map[string]bool{"log-level": true},
			initial: Config{LogLevel: "warn"},
			expected: Config{
				LogLevel:   "warn",
				MQTTBroker: "tcp://env:1883",
			},
		},
		{
			name:    "zero vessels accepted",
			envVars: map[string]string{"RSP_SIM_VESSELS": "0"},
			changed: map[string]bool{},
			initial: Config{SimVessels: 3},
			expected: Config{
				SimVessels: 0,
			},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"RSP_MONITOR_INTERVAL": "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"RSP_TELEMETRY_QUEUE_SIZE": "four"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid float",
			envVars: map[string]string{"RSP_MIN_ALTITUDE": "high"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid action groups",
			envVars: map[string]string{"RSP_ACTION_GROUPS": "science"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "handles bool '1' as true",
			envVars: map[string]string{"RSP_LOG_CONSOLE": "1"},
			changed: map[string]bool{},
			expected: Config{
				LogConsole: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}

			if cfg.ReconcileInterval != tt.expected.ReconcileInterval {
				t.Errorf("ReconcileInterval = %v, want %v", cfg.ReconcileInterval, tt.expected.ReconcileInterval)
			}
			if cfg.CommandQueueSize != tt.expected.CommandQueueSize {
				t.Errorf("CommandQueueSize = %v, want %v", cfg.CommandQueueSize, tt.expected.CommandQueueSize)
			}
			if cfg.MaxDynamicPressure != tt.expected.MaxDynamicPressure {
				t.Errorf("MaxDynamicPressure = %v, want %v", cfg.MaxDynamicPressure, tt.expected.MaxDynamicPressure)
			}
			if cfg.LogLevel != tt.expected.LogLevel {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.expected.LogLevel)
			}
			if cfg.LogConsole != tt.expected.LogConsole {
				t.Errorf("LogConsole = %v, want %v", cfg.LogConsole, tt.expected.LogConsole)
			}
			if cfg.MQTTEnabled != tt.expected.MQTTEnabled {
				t.Errorf("MQTTEnabled = %v, want %v", cfg.MQTTEnabled, tt.expected.MQTTEnabled)
			}
			if cfg.MQTTBroker != tt.expected.MQTTBroker {
				t.Errorf("MQTTBroker = %v, want %v", cfg.MQTTBroker, tt.expected.MQTTBroker)
			}
			if cfg.SimSeed != tt.expected.SimSeed {
				t.Errorf("SimSeed = %v, want %v", cfg.SimSeed, tt.expected.SimSeed)
			}
			if cfg.SimVessels != tt.expected.SimVessels {
				t.Errorf("SimVessels = %v, want %v", cfg.SimVessels, tt.expected.SimVessels)
			}
		})
	}
}

func TestParseActionGroups(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]int
		wantErr bool
	}{
		{name: "single", pairs: []string{"science=1"}, want: map[string]int{"science": 1}},
		{name: "spaces and blanks", pairs: []string{" science = 1 ", "", "chutes=3"}, want: map[string]int{"science": 1, "chutes": 3}},
		{name: "missing number", pairs: []string{"science"}, wantErr: true},
		{name: "missing name", pairs: []string{"=2"}, wantErr: true},
		{name: "not a number", pairs: []string{"science=one"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActionGroups(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseActionGroups() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseActionGroups() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("group %q = %d, want %d", k, got[k], v)
				}
			}
		})
	}
}

func TestReloadTunables_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RSP_MAX_DYNAMIC_PRESSURE", "50")
	t.Setenv("RSP_ACTION_GROUPS", "abort=2")

	changed := map[string]bool{}
	base := DefaultConfig()
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyFileConfig(&base, fc, changed); err != nil {
		t.Fatal(err)
	}
	if err := ApplyEnvConfig(&base, changed); err != nil {
		t.Fatal(err)
	}
	if base.MaxDynamicPressure != 50 {
		t.Fatalf("startup MaxDynamicPressure = %v, want 50", base.MaxDynamicPressure)
	}

	if err := os.WriteFile(path, []byte("max_dynamic_pressure = 100\n[action_groups]\nscience = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tun, err := ReloadTunables(path, base, changed)
	if err != nil {
		t.Fatalf("ReloadTunables() error = %v", err)
	}
	if tun.MaxDynamicPressure != 50 {
		t.Errorf("MaxDynamicPressure = %v, want env value 50", tun.MaxDynamicPressure)
	}
	if len(tun.ActionGroups) != 1 || tun.ActionGroups["abort"] != 2 {
		t.Errorf("ActionGroups = %v, want env groups map[abort:2]", tun.ActionGroups)
	}
}
