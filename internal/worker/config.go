package worker

import (
	"fmt"
	"time"
)

// Config tunes how expiry jobs are picked up and run.
//
// Expiry jobs are single-row updates scheduled at a boost or subscription
// end date, so they finish in milliseconds. PollInterval is the main knob:
// it bounds how late after its end date a boost keeps ranking as boosted.
type Config struct {
	Concurrency  int
	PollInterval time.Duration

	// JobTimeout bounds one expiry run. It must stay below
	// StaleJobThreshold or a slow job would be handed to a second worker
	// while the first still holds it.
	JobTimeout time.Duration

	// ShutdownTimeout is how long Run waits for claimed jobs after its
	// context is cancelled.
	ShutdownTimeout time.Duration

	// StaleJobThreshold is the age after which a 'running' job is assumed
	// abandoned and reset to pending.
	StaleJobThreshold time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Concurrency:       2,
		PollInterval:      5 * time.Second,
		JobTimeout:        10 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		StaleJobThreshold: 5 * time.Minute,
	}
}

// maxPollInterval keeps expiry lag within a few minutes of the end date.
const maxPollInterval = 5 * time.Minute

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Concurrency < 1 || c.Concurrency > 100 {
		return fmt.Errorf("concurrency must be between 1 and 100, got %d", c.Concurrency)
	}
	if c.PollInterval < time.Second || c.PollInterval > maxPollInterval {
		return fmt.Errorf("poll interval must be between 1s and %v, got %v", maxPollInterval, c.PollInterval)
	}
	if c.JobTimeout < time.Second {
		return fmt.Errorf("job timeout must be at least 1 second, got %v", c.JobTimeout)
	}
	if c.ShutdownTimeout < time.Second {
		return fmt.Errorf("shutdown timeout must be at least 1 second, got %v", c.ShutdownTimeout)
	}
	if c.StaleJobThreshold < time.Minute {
		return fmt.Errorf("stale job threshold must be at least 1 minute, got %v", c.StaleJobThreshold)
	}
	if c.JobTimeout >= c.StaleJobThreshold {
		return fmt.Errorf("job timeout %v must be shorter than stale job threshold %v", c.JobTimeout, c.StaleJobThreshold)
	}
	return nil
}
