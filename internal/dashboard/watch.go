package dashboard

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rspctl/rsp/internal/domain"
	"github.com/rspctl/rsp/internal/queue"
	"github.com/rspctl/rsp/pkg/log"
)

// clearScreen homes the cursor and clears the terminal.
const clearScreen = "\033[H\033[2J"

// Watcher renders the newest batch in a queue on a fixed cadence.
type Watcher struct {
	in       *queue.Latest[domain.Batch]
	out      io.Writer
	renderer *Renderer
	interval time.Duration
	logger   log.Logger
	now      func() time.Time
}

// NewWatcher creates a watcher drawing to out.
func NewWatcher(in *queue.Latest[domain.Batch], out io.Writer, interval time.Duration, logger log.Logger) *Watcher {
	return &Watcher{
		in:       in,
		out:      out,
		renderer: NewRenderer(),
		interval: interval,
		logger:   log.With(logger, log.Component("dashboard")),
		now:      time.Now,
	}
}

// Run renders until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("render loop started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.Tick(); err != nil {
				w.logger.Error("render failed", log.Err(err))
			}
		}
	}
}

// Tick discards all but the newest pending batch and draws it. Nothing is
// drawn when no batch arrived since the last tick.
func (w *Watcher) Tick() error {
	batch, ok := w.in.Latest()
	if !ok {
		return nil
	}
	_, err := fmt.Fprint(w.out, clearScreen+w.renderer.Render(batch, w.now())+"\n")
	return err
}
