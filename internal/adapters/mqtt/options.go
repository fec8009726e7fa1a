package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 250 // milliseconds
	defaultKeepAlive         = 30 * time.Second
	maxQoS                   = 2

	// maxPayloadSize bounds one message. A batch for a few hundred
	// vessels is well under this.
	maxPayloadSize = 1 << 20
)

// Config describes the broker and the two queue topics.
type Config struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string

	TelemetryTopic string
	CommandTopic   string
	StatusTopic    string

	QoS byte
}

// DefaultConfig returns a configuration for a local broker.
func DefaultConfig() Config {
	return Config{
		BrokerURL:      "tcp://127.0.0.1:1883",
		ClientID:       "rsp",
		TelemetryTopic: "rsp/telemetry",
		CommandTopic:   "rsp/commands",
		StatusTopic:    "rsp/status",
		QoS:            0,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.BrokerURL == "" {
		return fmt.Errorf("mqtt: broker url is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("mqtt: client id is required")
	}
	if c.TelemetryTopic == "" || c.CommandTopic == "" {
		return ErrInvalidTopic
	}
	if c.QoS > maxQoS {
		return ErrInvalidQoS
	}
	return nil
}

// buildClientOptions maps Config onto paho options.
func buildClientOptions(cfg Config) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)
	opts.SetOrderMatters(true)

	if cfg.StatusTopic != "" {
		opts.SetWill(cfg.StatusTopic, statusPayload(cfg.ClientID, "offline", "unexpected_disconnect"), 1, true)
	}
	return opts
}

func statusPayload(clientID, status, reason string) string {
	if reason == "" {
		return fmt.Sprintf(`{"status":%q,"client_id":%q,"timestamp":%q}`,
			status, clientID, time.Now().UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf(`{"status":%q,"client_id":%q,"reason":%q,"timestamp":%q}`,
		status, clientID, reason, time.Now().UTC().Format(time.RFC3339))
}
