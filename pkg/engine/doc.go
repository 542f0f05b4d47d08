/*
Package engine implements a bounded worker pool that drains a shared task
queue, executes tasks in parallel and reports per-task outcomes through a
result channel while keeping a globally consistent stats aggregate.

# Core Components

## Queue

Thread-safe multi-producer, multi-consumer task queue with competing-consumers
delivery: each task is received by exactly one worker. Closing the queue
signals end-of-stream to every current and future receiver once the buffer
empties; sending after close fails with types.ErrQueueClosed.

## Worker

One goroutine running the dequeue-execute-report loop. The execution function
is supplied by the caller and is the only extension point; an error it returns
becomes a Failure outcome and never aborts the pool. Panics inside the
execution function are recovered and converted into Failure outcomes carrying
the stack trace, so a trapped task cannot silently kill a worker.

## Pool

Fixed-size set of workers sharing the queue, result channel and stats handles.
Join blocks until every worker has observed end-of-stream; the result channel
is closed when the last worker exits, so consumers can range over it.

## Stats

Lock-protected aggregate of completed/failed counts, cumulative duration and
the active worker gauge. Record is atomic as a whole; Snapshot returns a
consistent copy, quiescent once taken after Join.

## Coordinator

Drives the full run protocol: construct, start, feed, close, drain, join,
snapshot. Task failures are data in the report; engine-level faults (context
cancellation) are returned as an error and never mixed into the stats.

# Usage

	coord, err := engine.NewCoordinator(engine.DefaultConfig(),
		func(ctx context.Context, task types.Task[int]) (string, error) {
			return fmt.Sprintf("computed %d", task.Payload), nil
		})
	if err != nil {
		log.Fatal(err)
	}

	report, err := coord.Run(ctx, tasks)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("completed=%d failed=%d\n", report.Stats.Completed, report.Stats.Failed)

For streaming progress, register an observer before Run:

	coord.SetOutcomeObserver(func(o types.Outcome) {
		fmt.Printf("task %d done in %v\n", o.TaskID, o.Duration)
	})

# Concurrency

Outcomes arrive in no particular order across workers; per worker they follow
dequeue order. Workers hold at most one lock at a time (the stats lock), and
only briefly after reporting, so lock-ordering deadlocks are impossible by
construction. There is no built-in task timeout: an execution function that
never returns blocks its worker, so callers wanting cancellation must honor
the supplied context.
*/
package engine
