// Package types defines the core types shared across the task engine
package types

import (
	"context"
	"time"
)

// Task is one unit of work. The ID identifies the task across outcomes and
// stats; the payload is opaque to the engine and only interpreted by the
// execution function. Once enqueued, a task is owned exclusively by whichever
// worker dequeues it.
type Task[P any] struct {
	// ID is the caller-assigned task identifier, unique within a run
	ID int

	// Payload carries the caller-defined work description
	Payload P
}

// NewTask creates a task with the given ID and payload.
func NewTask[P any](id int, payload P) Task[P] {
	return Task[P]{ID: id, Payload: payload}
}

// ExecFunc executes one task and returns a human-readable description of the
// result, or an error when the task fails. It is the single caller-pluggable
// extension point of the engine and must be safe for concurrent invocation
// from multiple workers on disjoint tasks.
type ExecFunc[P any] func(ctx context.Context, task Task[P]) (string, error)

// Outcome is the immutable record produced after executing exactly one task.
// A nil Err marks success; a non-nil Err marks failure and carries the reason.
type Outcome struct {
	// TaskID is the identifier of the executed task
	TaskID int

	// Description is the execution function's result description (success only)
	Description string

	// Err is the failure reason, nil on success
	Err error

	// Duration is the wall time the execution took
	Duration time.Duration
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// StatsSnapshot is a consistent point-in-time copy of the aggregate run
// statistics. It is quiescent only when taken after the pool has been joined.
type StatsSnapshot struct {
	// Completed is the number of tasks that succeeded
	Completed int64

	// Failed is the number of tasks whose execution returned an error
	Failed int64

	// TotalDuration is the cumulative execution time across all tasks
	TotalDuration time.Duration

	// ActiveWorkers is the number of workers executing a task at snapshot time
	ActiveWorkers int
}

// Total returns the number of tasks accounted for in the snapshot.
func (s StatsSnapshot) Total() int64 {
	return s.Completed + s.Failed
}

// ErrorHandler observes task execution failures. Returning a non-nil error is
// informational only; it never aborts the pool.
type ErrorHandler func(error) error
