// Package config loads engine configuration from YAML files for runnable
// binaries. The library itself is configured through engine.Config directly.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pl728/taskengine/pkg/engine"
	"github.com/pl728/taskengine/pkg/retry"
)

// Engine is the engine section of the YAML schema
type Engine struct {
	Workers      int `yaml:"workers"`
	QueueSize    int `yaml:"queue_size"`
	ResultBuffer int `yaml:"result_buffer"`
}

// Retry is the retry section of the YAML schema
type Retry struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// File is the top-level YAML schema
type File struct {
	Engine Engine `yaml:"engine"`
	Retry  Retry  `yaml:"retry"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse unmarshals YAML config bytes, filling defaults for omitted fields.
func Parse(raw []byte) (*File, error) {
	f := &File{
		Engine: Engine{
			Workers:      4,
			QueueSize:    64,
			ResultBuffer: 64,
		},
	}
	if err := yaml.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if f.Engine.Workers <= 0 {
		return nil, fmt.Errorf("config: workers must be positive, got %d", f.Engine.Workers)
	}
	return f, nil
}

// EngineConfig converts the engine section into an engine.Config.
func (f *File) EngineConfig() *engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Workers = f.Engine.Workers
	cfg.QueueSize = f.Engine.QueueSize
	cfg.ResultBuffer = f.Engine.ResultBuffer
	return cfg
}

// RetryPolicy converts the retry section into a retry policy, or nil when
// retries are not configured.
func (f *File) RetryPolicy() retry.Policy {
	if f.Retry.MaxAttempts <= 1 {
		return nil
	}
	if f.Retry.MaxDelay > f.Retry.BaseDelay {
		return retry.NewExponentialBackoff(f.Retry.MaxAttempts, f.Retry.BaseDelay, f.Retry.MaxDelay)
	}
	return retry.NewFixedDelay(f.Retry.MaxAttempts, f.Retry.BaseDelay)
}
