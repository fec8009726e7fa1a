package ports

import (
	"context"

	"github.com/rspctl/rsp/internal/domain"
)

// BatchSink receives telemetry batches drained from the outbound queue.
type BatchSink interface {
	// Send delivers one batch. A failure loses only that batch.
	Send(ctx context.Context, batch domain.Batch) error
}
