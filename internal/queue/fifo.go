package queue

import (
	"context"

	"github.com/rspctl/rsp/internal/domain"
)

// FIFO is a bounded, strictly ordered queue.
type FIFO[T any] struct {
	ch chan T
}

// NewFIFO creates a queue holding at most size elements.
func NewFIFO[T any](size int) *FIFO[T] {
	if size <= 0 {
		size = 1
	}
	return &FIFO[T]{ch: make(chan T, size)}
}

// Offer enqueues v without blocking.
func (q *FIFO[T]) Offer(v T) error {
	select {
	case q.ch <- v:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Push enqueues v, waiting for space until ctx is done.
func (q *FIFO[T]) Push(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain dequeues the elements present when it was called and hands each
// to fn in order. Elements arriving during the drain wait for the next one.
func (q *FIFO[T]) Drain(fn func(T)) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		select {
		case v := <-q.ch:
			fn(v)
		default:
			return i
		}
	}
	return n
}

// Len returns the number of queued elements.
func (q *FIFO[T]) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *FIFO[T]) Cap() int {
	return cap(q.ch)
}
