package coroutine

// Action is one of the external control verbs applicable to a coroutine
// instance from outside its own body.
type Action int

const (
	ActionRestart Action = iota
	ActionPositionSet
	ActionSuspend
	ActionResume
)

// Control is a narrow external view over an Instance, used by code that
// does not own the coroutine body but needs to steer it: restart it,
// force it to resume at a specific step, or suspend/resume it. Suspend
// and Resume swap pc and prevPC, matching the source's extern-control
// behavior of stashing the live resume point while suspended.
type Control struct {
	in *Instance
}

// NewControl returns a Control bound to in.
func NewControl(in *Instance) Control {
	return Control{in: in}
}

// Apply performs action against the bound instance. For ActionPositionSet,
// position is the step to resume at; an out-of-range position (negative)
// suspends the coroutine instead, matching the source's "invalid
// position suspends" contract.
func (c Control) Apply(action Action, position int) {
	switch action {
	case ActionRestart:
		c.in.Restart()
	case ActionPositionSet:
		if position < 0 {
			c.suspend()
			return
		}
		c.in.pc = int32(position)
	case ActionSuspend:
		c.suspend()
	case ActionResume:
		c.resume()
	}
}

func (c Control) suspend() {
	if c.in.pc == StepSuspended {
		return
	}
	c.in.prevPC, c.in.pc = c.in.pc, StepSuspended
}

func (c Control) resume() {
	if c.in.pc != StepSuspended {
		return
	}
	c.in.pc = c.in.prevPC
}

// Suspended reports whether the bound instance is currently suspended.
func (c Control) Suspended() bool { return c.in.pc == StepSuspended }
