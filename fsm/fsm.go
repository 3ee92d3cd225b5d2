// Package fsm implements the finite state machine runtime hookable as a
// task body: entry/exit signalling, a signal queue, a linear transition
// table, and before/success/failure/unexpected substate hooks.
package fsm

import "github.com/qkernel-go/qkernel/queue"

// StateFunc is a state body. It receives the machine's Handler and
// returns a tagged Outcome; the source's raw-integer return is modeled
// here as Outcome per the design notes.
type StateFunc func(*Handler) Outcome

// SubStateFunc is a side-effect-only hook: before-any, and the
// success/failure/unexpected dispatch after a state returns.
type SubStateFunc func(*Handler)

// State identifies one state of a Machine. Two States are the same
// state iff they are the same *State value; Go functions are not
// comparable, so identity is carried by this small pointer-identified
// wrapper instead of by the StateFunc itself (mirroring how the source
// compares raw function pointers).
type State struct {
	Name string
	fn   StateFunc
}

// NewState wraps fn as a named, comparable State.
func NewState(name string, fn StateFunc) *State {
	return &State{Name: name, fn: fn}
}

// Handler is the data every state/substate callback receives: the
// machine's public view of itself, equivalent to qSM_Handler_t.
type Handler struct {
	NextState      *State
	PreviousState  *State
	LastState      *State
	Signal         Signal
	LastReturn     Outcome
	PreviousReturn Outcome
	Data           any
	Parent         *Machine
}

// Machine is one finite state machine instance.
type Machine struct {
	handler Handler

	beforeAny  SubStateFunc
	success    SubStateFunc
	failure    SubStateFunc
	unexpected SubStateFunc

	table       *TransitionTable
	signalQueue *queue.Ring[Signal]

	// Owner associates this machine with the task (or other collaborator)
	// it is the body of; purely bookkeeping, the runtime never reads it.
	Owner any
}

// NewMachine returns an unconfigured Machine; call Setup before Run.
func NewMachine() *Machine { return &Machine{} }

// Setup initializes the machine with its initial state and substate
// hooks. initState must be non-nil.
func (m *Machine) Setup(initState *State, success, failure, unexpected, beforeAny SubStateFunc) error {
	if m == nil {
		return ErrNilMachine
	}
	if initState == nil {
		return ErrNilInitState
	}
	m.handler.NextState = initState
	m.handler.PreviousState = nil
	m.handler.LastState = nil
	m.handler.Signal = SignalNone
	m.handler.PreviousReturn = Success()
	m.success = success
	m.failure = failure
	m.unexpected = unexpected
	m.beforeAny = beforeAny
	m.table = nil
	return nil
}

// Handler returns the machine's public handler, or nil for a nil Machine.
func (m *Machine) Handler() *Handler {
	if m == nil {
		return nil
	}
	return &m.handler
}

// Run executes one step of the FSM with data attached to the handler.
// It returns the outcome of the last state actually executed this call —
// not a hardcoded failure (see SPEC_FULL.md §9's first open-question
// resolution).
func (m *Machine) Run(data any) Outcome {
	if m == nil {
		return Failure()
	}

	m.handler.Data = data
	m.handler.Signal = SignalNone

	current := m.handler.NextState
	if m.handler.LastState != current {
		// Entry: the state we're about to run differs from the last one executed.
		m.handler.PreviousState = m.handler.LastState
		m.handler.PreviousReturn = m.handler.LastReturn
		m.handler.Signal = SignalEntry
		m.execState(current)
	} else {
		if m.handler.Signal == SignalNone && m.signalQueue != nil && !m.signalQueue.IsEmpty() {
			if sig, err := m.signalQueue.PopFront(); err == nil {
				m.handler.Signal = sig
				m.SweepTransitionTable()
			}
		}
		m.execState(current)
		if current != m.handler.NextState {
			// A transition fired during execState: re-run the prior state with EXIT,
			// then enter the new state with ENTRY in the same step.
			m.handler.Signal = SignalExit
			m.execState(current)

			next := m.handler.NextState
			m.handler.PreviousState = m.handler.LastState
			m.handler.PreviousReturn = m.handler.LastReturn
			m.handler.Signal = SignalEntry
			m.execState(next)
		}
	}
	return m.handler.LastReturn
}

// execState runs beforeAny (if any), then state (if any), then the
// outcome-matched substate hook, recording LastReturn/LastState.
func (m *Machine) execState(state *State) {
	if m.beforeAny != nil {
		m.beforeAny(&m.handler)
	}

	outcome := Failure()
	if state != nil {
		outcome = state.fn(&m.handler)
	}

	m.handler.LastReturn = outcome
	m.handler.LastState = state

	switch outcome.Kind() {
	case KindFailure:
		if m.failure != nil {
			m.failure(&m.handler)
		}
	case KindSuccess:
		if m.success != nil {
			m.success(&m.handler)
		}
	default:
		if m.unexpected != nil {
			m.unexpected(&m.handler)
		}
	}
}

// SetParent records parent as child's FSM parent, visible to state
// callbacks via Handler.Parent.
func SetParent(child, parent *Machine) {
	if child == nil {
		return
	}
	child.handler.Parent = parent
}
