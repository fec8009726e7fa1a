package app

import (
	"context"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/ports"
	"github.com/rspctl/rsp/internal/queue"
	"github.com/rspctl/rsp/pkg/log"
)

// RelayLoop forwards the newest pending batch in q to sink whenever one
// is available. Older pending batches are discarded. A failed send is
// logged and the batch dropped; the next one supersedes it.
func RelayLoop(name string, q *queue.Latest[domain.Batch], sink ports.BatchSink, logger log.Logger) Loop {
	logger = log.With(logger, log.Component(name))
	return Loop{
		Name: name,
		Run: func(ctx context.Context) error {
			for {
				batch, err := q.Next(ctx)
				if err != nil {
					return nil
				}
				if err := sink.Send(ctx, batch); err != nil && ctx.Err() == nil {
					logger.Warn("batch not relayed",
						log.Int("entities", len(batch.Entities)),
						log.Err(err),
					)
				}
			}
		},
	}
}
