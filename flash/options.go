package flash

import (
	"time"

	"github.com/moffa90/go-ryflash/protocol"
)

// Config holds the driver configuration.
type Config struct {
	// ProgressCallback is called after every sector, chunk or instance (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// PollDelay is the delay between two status register reads
	PollDelay time.Duration

	// EraseTimeout is the number of status reads allowed for an erase command
	EraseTimeout int

	// ProgramTimeout is the number of status reads allowed for a program step
	ProgramTimeout int

	// Sleep is the blocking delay primitive used between status reads
	Sleep func(time.Duration)
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		PollDelay:      protocol.DefaultPollDelay,
		EraseTimeout:   protocol.DefaultPollTimeout,
		ProgramTimeout: protocol.DefaultPollTimeout,
		Sleep:          time.Sleep,
	}
}

// Option is a functional option for configuring the Driver.
type Option func(*Config)

// WithProgressCallback sets a callback function to track operation progress.
//
// Example:
//
//	drv := flash.New(tgt, dev,
//	    flash.WithProgressCallback(func(p flash.Progress) {
//	        fmt.Printf("%s %.1f%%\n", p.Operation, p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the driver operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithPollDelay sets the delay between status register reads.
// Default is 10ms. A zero delay polls back to back.
func WithPollDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.PollDelay = delay
		}
	}
}

// WithEraseTimeout sets the status read budget for sector and mass erase.
//
// Example:
//
//	drv := flash.New(tgt, dev, flash.WithEraseTimeout(500))
func WithEraseTimeout(polls int) Option {
	return func(c *Config) {
		if polls > 0 {
			c.EraseTimeout = polls
		}
	}
}

// WithProgramTimeout sets the status read budget for each program step.
func WithProgramTimeout(polls int) Option {
	return func(c *Config) {
		if polls > 0 {
			c.ProgramTimeout = polls
		}
	}
}

// WithSleep replaces the delay primitive used between status reads.
// Tests use it to count delays without waiting.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Config) {
		if sleep != nil {
			c.Sleep = sleep
		}
	}
}
