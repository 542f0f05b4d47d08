package engine

import (
	"fmt"

	"github.com/pl728/taskengine/pkg/types"
)

// Config defines configuration for one processing run
type Config struct {
	// Workers is the fixed number of worker goroutines
	Workers int

	// QueueSize is the task queue buffer capacity
	QueueSize int

	// ResultBuffer is the result channel buffer capacity
	ResultBuffer int

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// ErrorHandler observes task execution failures (optional)
	ErrorHandler types.ErrorHandler
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Workers:      4,
		QueueSize:    64,
		ResultBuffer: 64,
		Clock:        types.NewRealClock(),
	}
}

// validate checks the configuration and fills optional fields.
func (c *Config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.Workers)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("queue size cannot be negative, got %d", c.QueueSize)
	}
	if c.ResultBuffer < 0 {
		return fmt.Errorf("result buffer cannot be negative, got %d", c.ResultBuffer)
	}
	if c.Clock == nil {
		c.Clock = types.NewRealClock()
	}
	return nil
}
