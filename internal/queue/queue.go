// Package queue provides the bounded hand-off queue between the
// candidate producer and the checker pool. Capacity is fixed at
// construction; a full queue applies backpressure to the producer
// instead of dropping work.
package queue

import (
	"context"
	"sync"
	"time"
)

// PopOutcome reports what a Pop call observed.
type PopOutcome int

const (
	// PopItem means a value was dequeued.
	PopItem PopOutcome = iota
	// PopEmpty means the timeout elapsed with the queue open but empty.
	// It is a retry condition, not an error.
	PopEmpty
	// PopClosed means the queue was closed and fully drained.
	PopClosed
)

// Queue is a bounded FIFO safe for concurrent use. A single producer
// pushes and closes; any number of consumers pop.
type Queue[T any] struct {
	ch        chan T
	closeOnce sync.Once
}

func NewBounded[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push blocks while the queue is full. It returns false when ctx is
// cancelled before the item was accepted; the item is not enqueued in
// that case. Push must not be called after Close.
func (q *Queue[T]) Push(ctx context.Context, v T) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case q.ch <- v:
		return true
	}
}

// Pop waits up to timeout for an item. Buffered items remain available
// after Close until the queue is drained.
func (q *Queue[T]) Pop(timeout time.Duration) (T, PopOutcome) {
	var zero T
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case v, ok := <-q.ch:
		if !ok {
			return zero, PopClosed
		}
		return v, PopItem
	case <-t.C:
		return zero, PopEmpty
	}
}

// Close marks end of input. Idempotent.
func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() { close(q.ch) })
}

// Len is the number of currently buffered items.
func (q *Queue[T]) Len() int { return len(q.ch) }

// Cap is the configured capacity.
func (q *Queue[T]) Cap() int { return cap(q.ch) }
