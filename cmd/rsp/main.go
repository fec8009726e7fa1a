package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/rspctl/rsp/internal/cliconfig"
	"github.com/rspctl/rsp/pkg/log"
)

const helpDescription = `
Supervise staging automation for every vessel in flight.

Highlights:
  - Discovers vessels continuously and runs one automation task per vessel.
  - Jettisons fairings inside the safe window, then deploys payload and gear.
  - Takes operator commands and publishes telemetry over MQTT.
  - Configure via file, env (RSP_*), or flags; thresholds reload live.
`

var exampleUsage = strings.TrimSpace(`
  rsp --mqtt --mqtt-broker tcp://127.0.0.1:1883
  rsp --config $HOME/.rsp/config.toml --sim-vessels 5
  rsp dashboard
  rsp command switch_mode orbit
  rsp command action_group '{"entity":"vessel-1","group":"science"}'
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli holds the flag-bound configuration shared by every subcommand.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	groups  []string
	changed map[string]bool
}

// load resolves flags, environment and config file into c.cfg.
// Precedence: changed flags, RSP_* env, config file, defaults.
func (c *cli) load(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	c.changed = map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { c.changed[f.Name] = true })

	if c.changed["action-group"] {
		groups, err := cliconfig.ParseActionGroups(c.groups)
		if err != nil {
			return err
		}
		c.cfg.ActionGroups = groups
	}

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, c.changed); err != nil {
			return err
		}
		c.cfg.ConfigPath = cfgFile
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, c.changed); err != nil {
		return err
	}
	return c.cfg.Validate()
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig()}
	console := log.NewZerologAdapterWithWriter(log.ConsoleWriter(os.Stderr), "info")

	root := &cobra.Command{
		Use:           "rsp",
		Short:         "Supervise staging automation for every vessel in flight",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			return runSupervisor(c.cfg, c.changed)
		},
	}

	cfg := &c.cfg
	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.rsp/config.toml)")
	pf.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "mission log directory (default: $HOME/.rsp/logs)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	pf.StringVar(&cfg.MQTTBroker, "mqtt-broker", cfg.MQTTBroker, "MQTT broker URL")
	pf.StringVar(&cfg.MQTTClientID, "mqtt-client-id", cfg.MQTTClientID, "MQTT client id")
	pf.StringVar(&cfg.MQTTUsername, "mqtt-username", cfg.MQTTUsername, "MQTT username")
	pf.StringVar(&cfg.MQTTPassword, "mqtt-password", cfg.MQTTPassword, "MQTT password")
	pf.IntVar(&cfg.MQTTQoS, "mqtt-qos", cfg.MQTTQoS, "MQTT QoS for both queues (0-2)")
	pf.StringVar(&cfg.TelemetryTopic, "telemetry-topic", cfg.TelemetryTopic, "topic carrying telemetry batches")
	pf.StringVar(&cfg.CommandTopic, "command-topic", cfg.CommandTopic, "topic carrying operator commands")
	pf.StringVar(&cfg.StatusTopic, "status-topic", cfg.StatusTopic, "retained online/offline status topic")

	f := root.Flags()
	f.DurationVar(&cfg.ReconcileInterval, "reconcile-interval", cfg.ReconcileInterval, "vessel discovery cadence")
	f.DurationVar(&cfg.MonitorInterval, "monitor-interval", cfg.MonitorInterval, "fairing monitor cadence")
	f.DurationVar(&cfg.SettleInterval, "settle-interval", cfg.SettleInterval, "wait after jettison before confirming")
	f.DurationVar(&cfg.HeartbeatInterval, "heartbeat-interval", cfg.HeartbeatInterval, "idle liveness probe cadence")
	f.DurationVar(&cfg.CommandInterval, "command-interval", cfg.CommandInterval, "command drain cadence")
	f.DurationVar(&cfg.PublishInterval, "publish-interval", cfg.PublishInterval, "telemetry publish cadence")
	f.IntVar(&cfg.CommandQueueSize, "command-queue-size", cfg.CommandQueueSize, "inbound command queue capacity")
	f.IntVar(&cfg.TelemetryQueueSize, "telemetry-queue-size", cfg.TelemetryQueueSize, "outbound telemetry queue capacity")
	f.Float64Var(&cfg.MaxDynamicPressure, "max-q", cfg.MaxDynamicPressure, "jettison only below this dynamic pressure (Pa)")
	f.Float64Var(&cfg.MinAltitude, "min-altitude", cfg.MinAltitude, "jettison only above this altitude (m)")
	f.StringSliceVar(&c.groups, "action-group", nil, "action group as name=number (repeatable)")
	f.BoolVar(&cfg.LogConsole, "log-console", cfg.LogConsole, "mirror the mission log to stderr")
	f.IntVar(&cfg.LogMaxSizeMB, "log-max-size", cfg.LogMaxSizeMB, "rotate the mission log past this size (MB)")
	f.IntVar(&cfg.LogMaxBackups, "log-max-backups", cfg.LogMaxBackups, "rotated mission logs to keep")
	f.BoolVar(&cfg.MQTTEnabled, "mqtt", cfg.MQTTEnabled, "attach the command and telemetry queues to MQTT")
	f.IntVar(&cfg.SimVessels, "sim-vessels", cfg.SimVessels, "vessels on the pad at start")
	f.DurationVar(&cfg.SimTick, "sim-tick", cfg.SimTick, "simulation step period")
	f.Float64Var(&cfg.SimWarp, "sim-warp", cfg.SimWarp, "simulated seconds per wall-clock second")
	f.Int64Var(&cfg.SimSeed, "sim-seed", cfg.SimSeed, "simulation random seed")

	root.AddCommand(newDashboardCmd(c), newCommandCmd(c))

	if err := root.Execute(); err != nil {
		console.Error("rsp", log.Err(err))
		os.Exit(1)
	}
}
