// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrQueueClosed indicates a send was attempted after the queue was closed
	ErrQueueClosed = errors.New("task queue is closed")

	// ErrQueueDrained indicates the queue is closed and empty (end-of-stream)
	ErrQueueDrained = errors.New("task queue is drained")

	// ErrPoolNotStarted indicates the pool has not been started
	ErrPoolNotStarted = errors.New("worker pool is not started")

	// ErrPoolRunning indicates the pool is already running
	ErrPoolRunning = errors.New("worker pool is already running")

	// ErrPoolStopped indicates the pool has already stopped
	ErrPoolStopped = errors.New("worker pool is stopped")

	// ErrNilExecFunc indicates no execution function was supplied
	ErrNilExecFunc = errors.New("execution function cannot be nil")
)

// TaskError represents a failure while executing one task. Execution failures
// are data: they travel inside Outcome values and never abort the pool.
type TaskError struct {
	// TaskID is the identifier of the task that failed
	TaskID int

	// Op is the operation during which the failure occurred
	Op string

	// Cause is the underlying error
	Cause error

	// Context contains additional failure context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d failed in %s: %v", e.TaskID, e.Op, e.Cause)
}

// Unwrap returns the underlying error
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is a specific error
func (e *TaskError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewTaskError creates a new task error
func NewTaskError(taskID int, op string, cause error) *TaskError {
	return &TaskError{
		TaskID:  taskID,
		Op:      op,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds failure context
func (e *TaskError) WithContext(key string, value interface{}) *TaskError {
	e.Context[key] = value
	return e
}
