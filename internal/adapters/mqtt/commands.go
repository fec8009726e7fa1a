package mqtt

import (
	"encoding/json"
	"fmt"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/queue"
)

// SubscribeCommands feeds every command received on topic into the
// inbound queue. A full queue rejects the command, which is logged by the
// client and lost; commands carry no acknowledgement.
func SubscribeCommands(sub Subscriber, topic string, qos byte, in *queue.FIFO[domain.Command]) error {
	return sub.Subscribe(topic, qos, func(_ string, payload []byte) error {
		var cmd domain.Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
		}
		if cmd.Kind == "" {
			return fmt.Errorf("%w: missing kind", domain.ErrInvalidPayload)
		}
		return in.Offer(cmd)
	})
}

// SendCommand publishes one command.
func SendCommand(pub Publisher, topic string, qos byte, cmd domain.Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	return pub.Publish(topic, payload, qos, false)
}
