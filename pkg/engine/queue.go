package engine

import (
	"context"
	"sync"

	"github.com/pl728/taskengine/pkg/types"
)

// Queue is a thread-safe multi-producer, multi-consumer task queue with
// competing-consumers delivery: each enqueued task is received by exactly one
// worker. A single producer's tasks are delivered in send order relative to
// each other; no ordering is guaranteed across producers.
//
// Lifecycle: open (sends and receives proceed) -> closing (sends rejected,
// buffered tasks still drainable) -> drained (every receiver observes
// end-of-stream).
type Queue[P any] struct {
	ch chan types.Task[P]

	// mu guards the closed flag against the send path so a late Send fails
	// with ErrQueueClosed instead of panicking on the closed channel.
	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a task queue with the given buffer capacity. A capacity of
// zero yields a rendezvous queue where every send waits for a receiver.
func NewQueue[P any](capacity int) *Queue[P] {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue[P]{
		ch: make(chan types.Task[P], capacity),
	}
}

// Send enqueues one task. It blocks while the buffer is full and returns
// ErrQueueClosed if the queue has already been closed. Sending after Close is
// coordinator misuse and is surfaced immediately, never deferred.
func (q *Queue[P]) Send(ctx context.Context, task types.Task[P]) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return types.ErrQueueClosed
	}

	select {
	case q.ch <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close transitions the queue to closing. Outstanding buffered tasks remain
// receivable; once the buffer empties every Receive returns ErrQueueDrained.
// Close must be called exactly once per run, after the last Send; a second
// Close reports misuse.
func (q *Queue[P]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return types.ErrQueueClosed
	}
	q.closed = true
	close(q.ch)
	return nil
}

// Receive dequeues one task, blocking until a task is available, the queue is
// drained (ErrQueueDrained), or the context is cancelled. Safe for concurrent
// use by any number of workers.
func (q *Queue[P]) Receive(ctx context.Context) (types.Task[P], error) {
	var zero types.Task[P]

	select {
	case task, ok := <-q.ch:
		if !ok {
			return zero, types.ErrQueueDrained
		}
		return task, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Len returns the number of buffered tasks.
func (q *Queue[P]) Len() int {
	return len(q.ch)
}

// Cap returns the buffer capacity.
func (q *Queue[P]) Cap() int {
	return cap(q.ch)
}

// IsClosed reports whether Close has been called.
func (q *Queue[P]) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
