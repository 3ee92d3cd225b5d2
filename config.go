package qkernel

import "github.com/qkernel-go/qkernel/clock"

// Config holds Kernel configuration.
type Config struct {
	// PQueueCapacity bounds the deferred-event priority queue.
	// Default: 16.
	PQueueCapacity int

	// MaxTaskCount sets the capacity of the task arena backing AddTask
	// and friends. Zero (default) means a dynamically growing arena.
	// Default: 0 (dynamic)
	MaxTaskCount int

	// CycleCounting enables per-task dispatch-count bookkeeping,
	// exposed via Task.Cycles.
	// Default: false
	CycleCounting bool

	// ClockProvider supplies Now() for the readiness evaluator. Tests
	// substitute a clock.Manual; production code leaves this nil to
	// get a clock.System.
	// Default: nil (resolved to clock.System at New)
	ClockProvider clock.Provider

	// ErrorsBufferSize sizes the outgoing error-forwarding channel.
	// Default: 64.
	ErrorsBufferSize uint

	// HaltOnTaskError makes an unrecovered task error or panic call
	// Release after it has been forwarded on the error channel, instead
	// of letting the scheduler loop continue past it.
	// Default: false.
	HaltOnTaskError bool
}

// defaultConfig centralizes default values for Config.
func defaultConfig() Config {
	return Config{
		PQueueCapacity:   16,
		MaxTaskCount:     0,
		CycleCounting:    false,
		ClockProvider:    nil,
		ErrorsBufferSize: 64,
		HaltOnTaskError:  false,
	}
}

// validateConfig performs lightweight invariant checks.
func validateConfig(cfg *Config) error {
	if cfg.PQueueCapacity <= 0 {
		return ErrInvalidConfig
	}
	if cfg.MaxTaskCount < 0 {
		return ErrInvalidConfig
	}
	return nil
}
