// Package retry provides retry policies for task execution functions
package retry

import (
	"math"
	"time"
)

// Policy defines the retry strategy interface
type Policy interface {
	// ShouldRetry determines whether to retry after a failed attempt
	ShouldRetry(err error, attempt int) bool

	// NextDelay returns the delay before the next attempt
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the maximum number of attempts
	MaxAttempts() int
}

// Condition determines whether an error is retryable
type Condition func(error) bool

// DefaultCondition retries every non-nil error
func DefaultCondition(err error) bool {
	return err != nil
}

// FixedDelayPolicy retries with a constant delay between attempts
type FixedDelayPolicy struct {
	maxAttempts int
	delay       time.Duration
	condition   Condition
}

// NewFixedDelay creates a fixed-delay retry policy
func NewFixedDelay(maxAttempts int, delay time.Duration) *FixedDelayPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &FixedDelayPolicy{
		maxAttempts: maxAttempts,
		delay:       delay,
		condition:   DefaultCondition,
	}
}

// WithCondition sets the retryable-error condition
func (p *FixedDelayPolicy) WithCondition(cond Condition) *FixedDelayPolicy {
	p.condition = cond
	return p
}

// ShouldRetry determines whether to retry
func (p *FixedDelayPolicy) ShouldRetry(err error, attempt int) bool {
	return attempt < p.maxAttempts && p.condition(err)
}

// NextDelay returns the delay before the next attempt
func (p *FixedDelayPolicy) NextDelay(attempt int) time.Duration {
	return p.delay
}

// MaxAttempts returns the maximum number of attempts
func (p *FixedDelayPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// ExponentialBackoffPolicy doubles the delay after each failed attempt, up to
// a maximum delay
type ExponentialBackoffPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	condition   Condition
}

// NewExponentialBackoff creates an exponential backoff retry policy
func NewExponentialBackoff(maxAttempts int, baseDelay, maxDelay time.Duration) *ExponentialBackoffPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if maxDelay < baseDelay {
		maxDelay = baseDelay
	}
	return &ExponentialBackoffPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		condition:   DefaultCondition,
	}
}

// WithCondition sets the retryable-error condition
func (p *ExponentialBackoffPolicy) WithCondition(cond Condition) *ExponentialBackoffPolicy {
	p.condition = cond
	return p
}

// ShouldRetry determines whether to retry
func (p *ExponentialBackoffPolicy) ShouldRetry(err error, attempt int) bool {
	return attempt < p.maxAttempts && p.condition(err)
}

// NextDelay returns the delay before the next attempt, doubled per attempt
// and capped at the maximum delay
func (p *ExponentialBackoffPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	multiplier := math.Pow(2, float64(attempt-1))
	delay := time.Duration(float64(p.baseDelay) * multiplier)
	if delay > p.maxDelay || delay < 0 {
		delay = p.maxDelay
	}
	return delay
}

// MaxAttempts returns the maximum number of attempts
func (p *ExponentialBackoffPolicy) MaxAttempts() int {
	return p.maxAttempts
}
