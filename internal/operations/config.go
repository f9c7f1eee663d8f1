package operations

import (
	"fmt"
	"time"
)

// Config represents the pipeline execution configuration
type Config struct {
	// Step-specific timeouts
	StageTimeouts map[string]time.Duration `json:"stage_timeouts"`

	// DefaultTimeout applies to steps without their own timeout
	DefaultTimeout time.Duration `json:"default_timeout"`
}

// NewConfig returns the default pipeline configuration
func NewConfig() *Config {
	return &Config{
		StageTimeouts:  make(map[string]time.Duration),
		DefaultTimeout: DefaultStepTimeout,
	}
}

// GetStageTimeout returns the timeout for a specific Step
func (c *Config) GetStageTimeout(stageID string) time.Duration {
	if timeout, ok := c.StageTimeouts[stageID]; ok && timeout > 0 {
		return timeout
	}
	if c.DefaultTimeout > 0 {
		return c.DefaultTimeout
	}
	return DefaultStepTimeout
}

// SetStageTimeout sets the timeout for a specific Step
func (c *Config) SetStageTimeout(stageID string, timeout time.Duration) {
	if c.StageTimeouts == nil {
		c.StageTimeouts = make(map[string]time.Duration)
	}
	c.StageTimeouts[stageID] = timeout
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.DefaultTimeout < 0 {
		return fmt.Errorf("default timeout cannot be negative")
	}
	for id, timeout := range c.StageTimeouts {
		if timeout < 0 {
			return fmt.Errorf("timeout for step %s cannot be negative", id)
		}
	}
	return nil
}
