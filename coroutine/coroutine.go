// Package coroutine implements the stackless-coroutine contract: a
// persistent resume point plus yield/wait/delay/do-until helpers, driven
// entirely by re-invocation from the scheduler (there is no background
// wake-up anywhere in this package).
//
// The source this is translated from keys each resume point off a
// switch on the source line number reached via a computed label. Go has
// no equivalent of a computed goto, so each yield point here takes an
// explicit integer step supplied by the caller; the step plays exactly
// the role of the original resume_pc.
package coroutine

import "github.com/qkernel-go/qkernel/clock"

// Sentinel step values, mirroring the C instance's INITVAL/SUSPENDEDVAL.
const (
	StepInit      = -1
	StepSuspended = -2
)

// Instance is the persistent state bound to one coroutine-shaped
// function scope. The zero value is ready to use: its Step reports 0,
// the top, the same as a NewInstance.
type Instance struct {
	pc     int32
	prevPC int32
	timer  clock.SoftTimer
}

// NewInstance returns an Instance ready to begin at the top.
func NewInstance() *Instance {
	return &Instance{pc: StepInit}
}

// Step returns the step to resume at. Callers write
//
//	switch in.Step() {
//	case 0: ...
//	case 1: ...
//	}
//
// A freshly constructed or Restart-ed Instance reports step 0 (the top),
// matching the source's INIT sentinel falling through to the first case.
func (in *Instance) Step() int {
	if in.pc == StepInit {
		return 0
	}
	if in.pc == StepSuspended {
		return -1
	}
	return int(in.pc)
}

// Yield records next as the step to resume at. The caller must return
// immediately after calling Yield; the body resumes at next on the
// following invocation.
func (in *Instance) Yield(next int) {
	in.pc = int32(next)
}

// Restart resets the instance so the next invocation begins at step 0,
// matching the source's Restart macro (sets resume_pc back to INIT).
func (in *Instance) Restart() {
	in.pc = StepInit
}

// WaitUntil yields at next unless cond already holds. It returns true
// when the caller should proceed past the wait, false when the caller
// must Yield (return) and retry on the next invocation. cond is
// re-evaluated on every resume; there is no background notification.
func (in *Instance) WaitUntil(cond bool, next int) bool {
	if cond {
		return true
	}
	in.Yield(next)
	return false
}

// TimedWaitUntil behaves like WaitUntil but also proceeds once the
// coroutine's delay timer (armed by a prior Delay call, or armed here on
// first entry with d) has expired.
func (in *Instance) TimedWaitUntil(now clock.Tick, cond bool, d clock.Tick, next int) bool {
	if !in.timer.Armed() {
		in.timer.Arm(now, d)
	}
	if cond || in.timer.Expired(now) {
		in.timer.Disarm()
		return true
	}
	in.Yield(next)
	return false
}

// Delay arms the coroutine's timer for d ticks (on first entry) and
// yields at next until it expires.
func (in *Instance) Delay(now clock.Tick, d clock.Tick, next int) bool {
	return in.TimedWaitUntil(now, false, d, next)
}

// Repeat implements Do...Until: it always resumes at next, running body
// once per invocation and yielding (returning false) if body reports the
// loop should continue. body returning true means the until-condition
// was satisfied and the loop is done.
func (in *Instance) Repeat(next int, body func() bool) bool {
	if body() {
		return true
	}
	in.Yield(next)
	return false
}

// PositionGet snapshots the current resume point into dst, per the
// PositionGet/PositionRestore/PositionReset contract used for manual
// position bookmarking.
func (in *Instance) PositionGet(dst *int32) {
	*dst = in.pc
}

// PositionRestore resumes execution at the previously captured point src.
func (in *Instance) PositionRestore(src int32) {
	in.pc = src
}

// PositionReset clears the bookmark and resumes at the top on next entry.
func (in *Instance) PositionReset() {
	in.pc = StepInit
}
