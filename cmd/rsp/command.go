package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rspctl/rsp/internal/adapters/mqtt"
	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/pkg/log"
)

func newCommandCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "command <kind> [payload]",
		Short: "Send one operator command to the supervisor",
		Long: strings.TrimSpace(`
Send one operator command. Kinds: switch_target, switch_mode, deploy,
gear, jettison, action_group. A payload starting with '{' is sent as JSON;
anything else is sent as a string.`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}

			command, err := buildCommand(args)
			if err != nil {
				return err
			}

			logger := log.NewZerologAdapterWithWriter(log.ConsoleWriter(os.Stderr), c.cfg.LogLevel)
			mcfg := c.cfg.MQTT()
			mcfg.ClientID += "-cli"
			mcfg.StatusTopic = ""
			client, err := mqtt.Connect(mcfg, logger)
			if err != nil {
				return fmt.Errorf("connect to broker: %w", err)
			}
			defer client.Close()

			if err := mqtt.SendCommand(client, mcfg.CommandTopic, mcfg.QoS, command); err != nil {
				return fmt.Errorf("send command: %w", err)
			}
			logger.Info("command sent", log.String("kind", command.Kind))
			return nil
		},
	}
}

// buildCommand turns CLI arguments into a command.
func buildCommand(args []string) (domain.Command, error) {
	kind := args[0]
	if len(args) == 1 {
		return domain.Command{Kind: kind}, nil
	}
	payload := strings.TrimSpace(args[1])
	if strings.HasPrefix(payload, "{") {
		if !json.Valid([]byte(payload)) {
			return domain.Command{}, fmt.Errorf("%w: payload is not valid JSON", domain.ErrInvalidPayload)
		}
		return domain.Command{Kind: kind, Payload: json.RawMessage(payload)}, nil
	}
	return domain.NewCommand(kind, payload)
}
