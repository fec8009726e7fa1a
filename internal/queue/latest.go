package queue

import (
	"context"
	"sync"
	"sync/atomic"
)

// Latest is a bounded queue that drops its oldest element when full.
type Latest[T any] struct {
	mu      sync.Mutex // serializes producers so evict+insert is atomic
	ch      chan T
	dropped atomic.Uint64
}

// NewLatest creates a queue holding at most size elements.
func NewLatest[T any](size int) *Latest[T] {
	if size <= 0 {
		size = 1
	}
	return &Latest[T]{ch: make(chan T, size)}
}

// Push enqueues v and never blocks. It reports whether an older element
// was evicted to make room.
func (q *Latest[T]) Push(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	select {
	case q.ch <- v:
		return false
	default:
	}

	evicted := false
	select {
	case <-q.ch:
		evicted = true
		q.dropped.Add(1)
	default:
	}
	// Only producers hold mu, so the slot freed above is still free.
	q.ch <- v
	return evicted
}

// Latest empties the queue and returns its newest element.
func (q *Latest[T]) Latest() (T, bool) {
	var (
		last T
		ok   bool
	)
	for {
		select {
		case v := <-q.ch:
			last, ok = v, true
		default:
			return last, ok
		}
	}
}

// Next waits for at least one element, then coalesces to the newest.
func (q *Latest[T]) Next(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-q.ch:
		if newer, ok := q.Latest(); ok {
			return newer, nil
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Len returns the number of queued elements.
func (q *Latest[T]) Len() int {
	return len(q.ch)
}

// Dropped returns how many elements were evicted unread.
func (q *Latest[T]) Dropped() uint64 {
	return q.dropped.Load()
}
