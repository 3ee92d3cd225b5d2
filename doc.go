// Package qkernel implements a cooperative, non-preemptive, single-threaded
// task scheduler in the spirit of a small embedded RTOS kernel.
//
// A Kernel holds a priority-sorted chain of Tasks plus an optional bounded
// deferred-event queue. Run drives a single loop: deferred events are
// dispatched first, then the chain is swept for tasks made ready by an
// elapsed interval, a queue condition, or an asynchronous notification, and
// finally an idle callback runs if nothing was ready. Exactly one task body
// (or FSM, or coroutine step) executes at a time and runs to completion;
// there is no preemption.
//
// Constructors
//   - New(*Config): accepts an explicit Config; a nil Config is equivalent
//     to defaultConfig(). Fields left unset are their Go zero value, not
//     merged onto the default — use NewOptions for partial overrides.
//   - NewOptions(opts ...Option): functional-options constructor, preferred
//     in new code and the only way to override a subset of fields without
//     restating the rest.
//
// Defaults
// Unless overridden, a newly built Kernel has:
//   - PQueueCapacity: 16
//   - MaxTaskCount: 0 (dynamically growing task arena)
//   - CycleCounting: false
//   - ClockProvider: a clock.System at millisecond resolution
//   - ErrorsBufferSize: 64
//   - metrics provider: metrics.NoopProvider
//
// Channels
// Errors recovered from task callbacks (including panics) are delivered on
// the channel returned by Kernel.Errors, non-blocking: a full or unbuffered
// channel drops the error rather than stalling the scheduler loop.
package qkernel
