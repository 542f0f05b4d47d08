package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pl728/taskengine/pkg/types"
)

// WorkerState defines the state of a Worker
type WorkerState int32

const (
	// WorkerStateIdle represents a worker blocked waiting for a task
	WorkerStateIdle WorkerState = iota
	// WorkerStateExecuting represents a worker running the execution function
	WorkerStateExecuting
	// WorkerStateReporting represents a worker publishing an outcome
	WorkerStateReporting
	// WorkerStateStopped represents a worker that observed end-of-stream
	WorkerStateStopped
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateIdle:
		return "idle"
	case WorkerStateExecuting:
		return "executing"
	case WorkerStateReporting:
		return "reporting"
	case WorkerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Worker is one goroutine running the dequeue-execute-report loop. It owns a
// dequeued task exclusively, forwards the outcome on the shared result
// channel, then records it in the shared stats before returning to idle.
type Worker[P any] struct {
	id      int
	state   int32 // atomic state
	queue   *Queue[P]
	results chan<- types.Outcome
	stats   *Stats
	exec    types.ExecFunc[P]

	// per-worker counters, for introspection only; the run-wide totals live
	// in the shared Stats
	processed int64
	failed    int64

	// error handling
	errorHandler types.ErrorHandler

	// time operations
	clock types.Clock

	// synchronization
	mu sync.RWMutex
}

// newWorker creates a worker bound to the shared queue, result channel and
// stats handles.
func newWorker[P any](id int, queue *Queue[P], results chan<- types.Outcome, stats *Stats, exec types.ExecFunc[P], clock types.Clock) *Worker[P] {
	if clock == nil {
		clock = types.NewRealClock()
	}

	return &Worker[P]{
		id:      id,
		state:   int32(WorkerStateIdle),
		queue:   queue,
		results: results,
		stats:   stats,
		exec:    exec,
		clock:   clock,
	}
}

// ID returns the Worker ID
func (w *Worker[P]) ID() int {
	return w.id
}

// State returns the current Worker state
func (w *Worker[P]) State() WorkerState {
	return WorkerState(atomic.LoadInt32(&w.state))
}

// SetErrorHandler sets the failure observer
func (w *Worker[P]) SetErrorHandler(handler types.ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errorHandler = handler
}

// run executes the worker loop until the queue is drained or the context is
// cancelled. A context error is returned so the pool can distinguish an
// aborted run from a normal end-of-stream stop.
func (w *Worker[P]) run(ctx context.Context) error {
	defer atomic.StoreInt32(&w.state, int32(WorkerStateStopped))

	for {
		task, err := w.queue.Receive(ctx)
		if err != nil {
			if err == types.ErrQueueDrained {
				return nil
			}
			return err
		}
		w.process(ctx, task)
	}
}

// process executes a single task and reports its outcome
func (w *Worker[P]) process(ctx context.Context, task types.Task[P]) {
	atomic.StoreInt32(&w.state, int32(WorkerStateExecuting))
	w.stats.workerActive()

	start := w.clock.Now()
	desc, err := w.executeTask(ctx, task)
	elapsed := w.clock.Since(start)

	atomic.StoreInt32(&w.state, int32(WorkerStateReporting))

	outcome := types.Outcome{
		TaskID:      task.ID,
		Description: desc,
		Err:         err,
		Duration:    elapsed,
	}

	if err != nil {
		atomic.AddInt64(&w.failed, 1)
		w.handleError(err)
	} else {
		atomic.AddInt64(&w.processed, 1)
	}

	// outcomes are 1:1 with dequeued tasks; the coordinator drains every one
	// before joining, so this send never leaks
	w.results <- outcome

	w.stats.Record(outcome)
	w.stats.workerIdle()
	atomic.StoreInt32(&w.state, int32(WorkerStateIdle))
}

// executeTask invokes the execution function with panic recovery. A trap in
// the execution function becomes a Failure outcome for that task; the worker
// survives and keeps the pool's join guarantee intact.
func (w *Worker[P]) executeTask(ctx context.Context, task types.Task[P]) (desc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)

			switch v := r.(type) {
			case error:
				err = types.NewTaskError(task.ID, "execute", v)
			default:
				err = types.NewTaskError(task.ID, "execute", fmt.Errorf("panic: %v", v))
			}

			if te, ok := err.(*types.TaskError); ok {
				te.WithContext("stack_trace", string(buf[:n]))
				te.WithContext("worker_id", w.id)
			}
		}
	}()

	return w.exec(ctx, task)
}

// handleError notifies the failure observer, if any
func (w *Worker[P]) handleError(err error) {
	w.mu.RLock()
	handler := w.errorHandler
	w.mu.RUnlock()

	if handler != nil {
		_ = handler(err)
	}
}

// Stats gets Worker statistics
func (w *Worker[P]) Stats() WorkerStats {
	return WorkerStats{
		ID:        w.id,
		State:     w.State(),
		Processed: atomic.LoadInt64(&w.processed),
		Failed:    atomic.LoadInt64(&w.failed),
	}
}

// WorkerStats defines per-worker statistics
type WorkerStats struct {
	ID        int
	State     WorkerState
	Processed int64
	Failed    int64
}

// IsActive checks if the worker is executing a task
func (ws WorkerStats) IsActive() bool {
	return ws.State == WorkerStateExecuting || ws.State == WorkerStateReporting
}

// IsIdle checks if the worker is waiting for a task
func (ws WorkerStats) IsIdle() bool {
	return ws.State == WorkerStateIdle
}
