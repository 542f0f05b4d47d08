package retry

import (
	"context"
	"time"

	"github.com/pl728/taskengine/pkg/types"
)

// Wrap decorates an execution function with a retry policy. The returned
// function keeps the ExecFunc contract: the last attempt's error surfaces as
// the task's failure reason, earlier failures are retried after the policy's
// delay. Waiting between attempts is cancellable through the task context.
func Wrap[P any](fn types.ExecFunc[P], policy Policy, clock types.Clock) types.ExecFunc[P] {
	if policy == nil {
		return fn
	}
	if clock == nil {
		clock = types.NewRealClock()
	}

	return func(ctx context.Context, task types.Task[P]) (string, error) {
		attempt := 0
		for {
			attempt++

			desc, err := fn(ctx, task)
			if err == nil {
				return desc, nil
			}

			if !policy.ShouldRetry(err, attempt) {
				return "", err
			}

			if waitErr := wait(ctx, clock, policy.NextDelay(attempt)); waitErr != nil {
				return "", waitErr
			}
		}
	}
}

// wait blocks for the given delay or until the context is cancelled
func wait(ctx context.Context, clock types.Clock, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := clock.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
