package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/queue"
)

// BatchSink publishes telemetry batches as JSON. It implements
// ports.BatchSink.
type BatchSink struct {
	pub   Publisher
	topic string
	qos   byte
}

// NewBatchSink creates a sink publishing on topic.
func NewBatchSink(pub Publisher, topic string, qos byte) *BatchSink {
	return &BatchSink{pub: pub, topic: topic, qos: qos}
}

// Send publishes one batch. Telemetry is never retained: a late
// subscriber waits for the next cycle instead of rendering stale data.
func (s *BatchSink) Send(ctx context.Context, batch domain.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	return s.pub.Publish(s.topic, payload, s.qos, false)
}

// SubscribeBatches feeds every batch received on topic into out. The
// queue drops the oldest batch when the consumer falls behind.
func SubscribeBatches(sub Subscriber, topic string, qos byte, out *queue.Latest[domain.Batch]) error {
	return sub.Subscribe(topic, qos, func(_ string, payload []byte) error {
		var batch domain.Batch
		if err := json.Unmarshal(payload, &batch); err != nil {
			return fmt.Errorf("decode batch: %w", err)
		}
		out.Push(batch)
		return nil
	})
}
