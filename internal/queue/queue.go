// Package queue provides a cancellable FIFO mailbox used to decouple
// synchronous requests from background execution. Each purpose gets its own
// Queue instance; items are homogeneous per queue.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Enqueue and Dequeue after Close.
var ErrClosed = errors.New("queue: closed")

// Queue is an unbounded FIFO safe for concurrent producers and consumers.
// The zero value is not usable; call New.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	ready  chan struct{} // closed and replaced on every enqueue
	closed bool
}

// New creates an empty Queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{ready: make(chan struct{})}
}

// Enqueue appends an item and wakes waiting consumers.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, item)
	close(q.ready)
	q.ready = make(chan struct{})
	return nil
}

// Dequeue removes and returns the oldest item, blocking until an item is
// available, ctx is cancelled, or the queue is closed. A cancelled wait
// consumes nothing: any item enqueued afterwards remains available to the
// next Dequeue.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return zero, ErrClosed
		}
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return item, nil
		}
		ready := q.ready
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-ready:
		}
	}
}

// Len returns the number of items waiting to be dequeued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed. Subsequent Enqueue and Dequeue calls fail
// with ErrClosed, as do consumers already blocked in Dequeue. Closing twice
// is a no-op.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ready)
}
