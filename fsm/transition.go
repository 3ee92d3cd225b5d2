package fsm

import "github.com/qkernel-go/qkernel/queue"

// Signal is a discrete numeric event delivered to an FSM, either via the
// signal queue or synthesized by the runtime for entry/exit.
type Signal int32

const (
	// SignalNone is the reserved "no signal" value; SendSignal rejects it.
	SignalNone Signal = 0

	// SignalRangeMax bounds ordinary, table-matchable signals: only
	// signals strictly less than this are considered by
	// SweepTransitionTable, matching the source's QSM_SIGNAL_RANGE_MAX
	// guard.
	SignalRangeMax Signal = 1 << 20

	// SignalEntry and SignalExit are synthesized by Run itself and
	// never come from the signal queue; both are negative so they never
	// collide with an ordinary (non-negative) user signal.
	SignalEntry Signal = -1
	SignalExit  Signal = -2
)

// Transition is one entry of a TransitionTable: when the machine is in
// From and receives Signal, it moves to To, running Action first if set.
type Transition struct {
	From   *State
	Signal Signal
	To     *State
	Action func()
}

// TransitionTable is a flat, linearly-scanned set of Transitions.
type TransitionTable struct {
	entries []Transition
}

// NewTransitionTable builds a table from the given entries.
func NewTransitionTable(entries ...Transition) *TransitionTable {
	return &TransitionTable{entries: entries}
}

// InstallTransitionTable attaches t to the machine. t must be non-nil
// and contain at least one entry.
func (m *Machine) InstallTransitionTable(t *TransitionTable) error {
	if m == nil {
		return ErrNilMachine
	}
	if t == nil || len(t.entries) == 0 {
		return ErrInvalidTransitionTable
	}
	m.table = t
	return nil
}

// SweepTransitionTable scans the installed table for the first entry
// matching the machine's current NextState and Signal, applies its
// action and target state, and stops. It reports whether a transition
// fired. A nil machine, a machine with no installed table, or a signal
// outside (SignalNone, SignalRangeMax) all report false without
// scanning — this keeps the reserved SignalEntry/SignalExit sentinels
// from ever spuriously matching a table entry.
func (m *Machine) SweepTransitionTable() bool {
	if m == nil || m.table == nil {
		return false
	}
	sig := m.handler.Signal
	if sig >= SignalRangeMax || sig <= SignalNone {
		return false
	}
	current := m.handler.NextState
	for _, tr := range m.table.entries {
		if tr.From == current && tr.Signal == sig {
			if tr.Action != nil {
				tr.Action()
			}
			m.handler.NextState = tr.To
			return true
		}
	}
	return false
}

// SetupSignalQueue installs a bounded signal queue of the given
// capacity, backing SendSignal and the dequeue step of Run. Unlike the
// source's SignalQueueSetup, this null-checks its receiver (see
// SPEC_FULL.md §9's second open-question resolution).
func (m *Machine) SetupSignalQueue(capacity int) error {
	if m == nil {
		return ErrNilMachine
	}
	if capacity <= 0 {
		return ErrInvalidSignalQueueCapacity
	}
	m.signalQueue = queue.NewRing[Signal](capacity)
	return nil
}

// SendSignal enqueues signal for later delivery to the machine, to the
// back of the queue, or to the front if urgent is true. Any signal at
// or below SignalNone is rejected, including SignalEntry and
// SignalExit: those are synthesized internally by Run and must never
// be enqueued by a caller.
func (m *Machine) SendSignal(signal Signal, urgent bool) error {
	if m == nil {
		return ErrNilMachine
	}
	if signal <= SignalNone {
		return ErrSignalIsNone
	}
	if m.signalQueue == nil {
		return ErrSignalQueueNotConfigured
	}

	var err error
	if urgent {
		err = m.signalQueue.PushFront(signal)
	} else {
		err = m.signalQueue.PushBack(signal)
	}
	if err != nil {
		return ErrSignalQueueFull
	}
	return nil
}
