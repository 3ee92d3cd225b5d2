package qkernel

import (
	"fmt"

	"github.com/qkernel-go/qkernel/clock"
)

// Option configures a Kernel. Use NewOptions(opts...) to construct one
// via options instead of a raw Config.
type Option func(*Config)

// WithPQueueCapacity bounds the deferred-event priority queue (must be > 0).
func WithPQueueCapacity(n int) Option {
	return func(c *Config) { c.PQueueCapacity = n }
}

// WithMaxTaskCount fixes the task arena to n slots instead of letting it
// grow dynamically.
func WithMaxTaskCount(n uint) Option {
	return func(c *Config) { c.MaxTaskCount = int(n) }
}

// WithCycleCounting enables per-task dispatch-count bookkeeping.
func WithCycleCounting() Option {
	return func(c *Config) { c.CycleCounting = true }
}

// WithClock overrides the clock.Provider used for readiness evaluation;
// tests use this to install a clock.Manual.
func WithClock(p clock.Provider) Option {
	return func(c *Config) { c.ClockProvider = p }
}

// WithErrorsBuffer sets the size of the outgoing error channel buffer.
func WithErrorsBuffer(size uint) Option {
	return func(c *Config) { c.ErrorsBufferSize = size }
}

// WithHaltOnTaskError makes an unrecovered task error or panic call
// Release after being forwarded on the error channel.
func WithHaltOnTaskError() Option {
	return func(c *Config) { c.HaltOnTaskError = true }
}

// NewOptions creates a new Kernel using functional options.
func NewOptions(opts ...Option) (*Kernel, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("nil qkernel option")
		}
		opt(&cfg)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid qkernel config: %w", err)
	}
	return New(&cfg)
}
