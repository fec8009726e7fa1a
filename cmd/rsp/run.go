package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rspctl/rsp/internal/adapters/mqtt"
	"github.com/rspctl/rsp/internal/adapters/sim"
	"github.com/rspctl/rsp/internal/app"
	"github.com/rspctl/rsp/internal/cliconfig"
	"github.com/rspctl/rsp/pkg/log"
	"github.com/rspctl/rsp/pkg/rsp"
	"github.com/rspctl/rsp/plugins/configwatcher"
)

// runSupervisor runs the control process until a signal or a crash.
func runSupervisor(cfg cliconfig.Config, changed map[string]bool) error {
	logger, closer, err := log.NewMissionLogger(cfg.Logging(), time.Now())
	if err != nil {
		return fmt.Errorf("open mission log: %w", err)
	}
	defer closer.Close()

	logCfg := cfg
	if logCfg.MQTTPassword != "" {
		logCfg.MQTTPassword = "*****"
	}
	logger.Info("configuration", log.Any("config", logCfg))

	provider, err := sim.Dial(context.Background(), cfg.Sim(), logger)
	if err != nil {
		logger.Error("connect to simulation failed", log.Err(err))
		return fmt.Errorf("connect to simulation: %w", err)
	}
	defer provider.Close()

	reload := func(path string) (rsp.Tunables, error) {
		return cliconfig.ReloadTunables(path, cfg, changed)
	}
	ctl, err := rsp.New(cfg,
		rsp.WithLogger(logger),
		rsp.WithProvider(provider),
		configwatcher.WithConfigWatcher(configwatcher.Config{Reload: reload}),
	)
	if err != nil {
		return fmt.Errorf("create supervisor: %w", err)
	}

	if cfg.MQTTEnabled {
		client, err := mqtt.Connect(cfg.MQTT(), logger)
		if err != nil {
			return fmt.Errorf("connect to broker: %w", err)
		}
		defer client.Close()

		qos := byte(cfg.MQTTQoS)
		if err := mqtt.SubscribeCommands(client, cfg.CommandTopic, qos, ctl.Commands()); err != nil {
			return fmt.Errorf("subscribe commands: %w", err)
		}
		relay := app.RelayLoop("mqtt-relay", ctl.Telemetry(), mqtt.NewBatchSink(client, cfg.TelemetryTopic, qos), logger)
		ctl.AddLoop(relay.Name, relay.Run)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := ctl.Start(context.Background()); err != nil {
		return fmt.Errorf("start supervisor: %w", err)
	}

	select {
	case <-sigCh:
		logger.Info("received signal, stopping...")
	case <-ctl.Done():
		logger.Error("supervisor crashed")
	}

	if err := ctl.Stop(); err != nil {
		return fmt.Errorf("stop supervisor: %w", err)
	}
	return nil
}
