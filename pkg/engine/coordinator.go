package engine

import (
	"context"

	"github.com/pl728/taskengine/pkg/types"
)

// OutcomeObserver is called for every outcome as it arrives, in drain order.
// It runs on the coordinator goroutine and must not block indefinitely.
type OutcomeObserver func(types.Outcome)

// Coordinator drives one processing run end to end: it builds the queue,
// result channel, stats and pool, feeds the tasks, closes the queue, drains
// the result channel to exhaustion, joins the pool and reads the final
// quiescent snapshot.
type Coordinator[P any] struct {
	config   *Config
	exec     types.ExecFunc[P]
	observer OutcomeObserver
}

// NewCoordinator creates a coordinator for the given execution function.
func NewCoordinator[P any](cfg *Config, exec types.ExecFunc[P]) (*Coordinator[P], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if exec == nil {
		return nil, types.ErrNilExecFunc
	}

	return &Coordinator[P]{
		config: cfg,
		exec:   exec,
	}, nil
}

// SetOutcomeObserver registers a progress callback invoked for each outcome.
// Must be set before Run.
func (c *Coordinator[P]) SetOutcomeObserver(observer OutcomeObserver) {
	c.observer = observer
}

// Report is the final result of one processing run. Task-level failures live
// in Outcomes and Stats; they are never conflated with engine-level faults,
// which Run returns as an error.
type Report struct {
	// Outcomes holds one outcome per task consumed, in arrival order
	Outcomes []types.Outcome

	// Stats is the quiescent snapshot taken after the pool was joined
	Stats types.StatsSnapshot
}

// Failures returns the failed outcomes.
func (r *Report) Failures() []types.Outcome {
	var failures []types.Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			failures = append(failures, o)
		}
	}
	return failures
}

// Run processes the given batch of tasks and blocks until the pool has fully
// stopped. It holds for any worker count and any task count, including zero
// tasks and pools larger than the batch. Feeding interleaves with draining,
// so a queue smaller than the batch cannot deadlock the run.
//
// On context cancellation the run is cut short: remaining tasks are not
// executed, outcomes already produced are still returned, and the context
// error is reported alongside the partial report.
func (c *Coordinator[P]) Run(ctx context.Context, tasks []types.Task[P]) (*Report, error) {
	queue := NewQueue[P](c.config.QueueSize)
	results := make(chan types.Outcome, c.config.ResultBuffer)
	stats := NewStats()

	pool, err := NewPool(c.config, queue, results, stats, c.exec)
	if err != nil {
		return nil, err
	}
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}

	// feed the queue concurrently with draining, closing it after the last
	// send so the workers observe end-of-stream. The send error must be kept:
	// workers racing a cancelled context against buffered tasks may all exit
	// through the drained branch, so the feeder can be the only witness that
	// the run was cut short.
	feedErr := make(chan error, 1)
	go func() {
		defer func() {
			_ = queue.Close()
		}()
		for _, task := range tasks {
			if err := queue.Send(ctx, task); err != nil {
				feedErr <- err
				return
			}
		}
		feedErr <- nil
	}()

	outcomes := make([]types.Outcome, 0, len(tasks))
	for outcome := range results {
		if c.observer != nil {
			c.observer(outcome)
		}
		outcomes = append(outcomes, outcome)
	}

	joinErr := pool.Join()
	if sendErr := <-feedErr; joinErr == nil {
		joinErr = sendErr
	}

	report := &Report{
		Outcomes: outcomes,
		Stats:    stats.Snapshot(),
	}
	return report, joinErr
}
