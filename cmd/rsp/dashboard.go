package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rspctl/rsp/internal/adapters/mqtt"
	"github.com/rspctl/rsp/internal/dashboard"
	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/queue"
	"github.com/rspctl/rsp/pkg/log"
)

func newDashboardCmd(c *cli) *cobra.Command {
	refresh := 100 * time.Millisecond

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render live telemetry from the broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}

			logCfg := c.cfg.Logging()
			logCfg.Console = false
			logger, closer, err := log.NewMissionLogger(logCfg, time.Now())
			if err != nil {
				return fmt.Errorf("open mission log: %w", err)
			}
			defer closer.Close()

			mcfg := c.cfg.MQTT()
			mcfg.ClientID += "-dashboard"
			mcfg.StatusTopic = ""
			client, err := mqtt.Connect(mcfg, logger)
			if err != nil {
				return fmt.Errorf("connect to broker: %w", err)
			}
			defer client.Close()

			batches := queue.NewLatest[domain.Batch](c.cfg.TelemetryQueueSize)
			if err := mqtt.SubscribeBatches(client, mcfg.TelemetryTopic, mcfg.QoS, batches); err != nil {
				return fmt.Errorf("subscribe telemetry: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return dashboard.NewWatcher(batches, os.Stdout, refresh, logger).Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&refresh, "refresh", refresh, "screen refresh period")
	return cmd
}
