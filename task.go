package qkernel

import (
	"github.com/qkernel-go/qkernel/clock"
	"github.com/qkernel-go/qkernel/coroutine"
	"github.com/qkernel-go/qkernel/fsm"
	"github.com/qkernel-go/qkernel/queue"
)

// Trigger tags why a task was made ready, or why the idle/deferred paths
// were taken for a given dispatch.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerTimeElapsed
	TriggerQueueFull
	TriggerQueueCount
	TriggerQueueReceiver
	TriggerQueueEmpty
	TriggerNotificationSimple
	TriggerNotificationQueued
	TriggerNoReadyTasks
)

func (t Trigger) String() string {
	switch t {
	case TriggerTimeElapsed:
		return "TimeElapsed"
	case TriggerQueueFull:
		return "QueueFull"
	case TriggerQueueCount:
		return "QueueCount"
	case TriggerQueueReceiver:
		return "QueueReceiver"
	case TriggerQueueEmpty:
		return "QueueEmpty"
	case TriggerNotificationSimple:
		return "NotificationSimple"
	case TriggerNotificationQueued:
		return "NotificationQueued"
	case TriggerNoReadyTasks:
		return "NoReadyTasks"
	default:
		return "None"
	}
}

// State is a task's scheduling state.
type State int

const (
	StateDisabled State = iota
	StateSuspended
	StateWaiting
	StateReady
	StateRunning
)

// Periodic, passed as a task's iteration count, means "run forever".
const Periodic int32 = -1

// Event is the per-dispatch info struct passed to a task's Callback. It
// is owned and reset by the dispatcher between dispatches; callbacks
// must not retain it.
type Event struct {
	Trigger        Trigger
	FirstCall      bool
	FirstIteration bool
	LastIteration  bool
	TaskData       any
	EventData      any
}

// Callback is a task's body. A non-nil error return (or a recovered
// panic) is forwarded on the Kernel's error channel rather than
// propagated to the caller of Run, per the cooperative kernel's
// no-exceptions contract.
type Callback func(*Event) error

// Task is one scheduling record: a callback (or FSM) plus the metadata
// the chain, priority queue, and readiness evaluator consult.
type Task struct {
	Name     string
	Callback Callback
	Priority uint8

	Interval clock.Tick

	iterTarget  int32
	iterCounter int32
	periodic    bool

	enabled  bool
	initDone bool

	notificationCount int
	asyncData         any

	clockStart clock.Tick

	queueRef            *queue.Ring[any]
	queueReceiver       bool
	queueFull           bool
	queueCountThreshold int
	queueEmpty          bool

	fsmRef    *fsm.Machine
	Coroutine *coroutine.Instance

	state   State
	trigger Trigger

	next *Task

	cycles uint64

	UserData any
}

// newTask builds a Task record with the given scheduling parameters.
// iterations is Periodic for an infinite task, or a positive count for
// a bounded one; it is stored negated internally until the first
// dispatch, per §4 of the design.
func newTask(cb Callback, priority uint8, interval clock.Tick, iterations int32, enabled bool, userData any) *Task {
	t := &Task{
		Callback: cb,
		Priority: priority,
		Interval: interval,
		enabled:  enabled,
		UserData: userData,
		state:    StateSuspended,
	}
	if iterations == Periodic {
		t.periodic = true
		t.iterTarget = Periodic
		t.iterCounter = Periodic
	} else {
		if iterations < 0 {
			iterations = 0
		}
		t.iterTarget = iterations
		t.iterCounter = -iterations
	}
	if !enabled {
		t.state = StateDisabled
	}
	return t
}

// Enabled reports whether the task is eligible for time-triggered dispatch.
func (t *Task) Enabled() bool { return t.enabled }

// SetEnabled flips the task's enable flag.
func (t *Task) SetEnabled(enabled bool) {
	t.enabled = enabled
	if !enabled && t.state != StateRunning {
		t.state = StateDisabled
	} else if enabled && t.state == StateDisabled {
		t.state = StateSuspended
	}
}

// State returns the task's current scheduling state.
func (t *Task) State() State { return t.state }

// Cycles returns the number of times this task has been dispatched,
// when cycle counting is enabled on the owning Kernel.
func (t *Task) Cycles() uint64 { return t.cycles }

// AttachQueue binds an event queue to the task and configures which
// queue conditions (in §4.3 precedence order) make it ready.
func (t *Task) AttachQueue(q *queue.Ring[any], receiver, full, empty bool, countThreshold int) {
	t.queueRef = q
	t.queueReceiver = receiver
	t.queueFull = full
	t.queueEmpty = empty
	t.queueCountThreshold = countThreshold
}

// Queue returns the task's attached event queue, or nil.
func (t *Task) Queue() *queue.Ring[any] { return t.queueRef }

// AttachFSM makes the task FSM-owned: the dispatcher runs m instead of
// Callback. Passing nil detaches any previously attached FSM.
func (t *Task) AttachFSM(m *fsm.Machine) { t.fsmRef = m }

// FSM returns the task's attached state machine, or nil.
func (t *Task) FSM() *fsm.Machine { return t.fsmRef }

// notify increments the task's pending simple-notification count and
// records data as the payload delivered on the next dispatch. It takes
// no lock itself; Kernel.Notify, one of the kernel's ISR-safe entry
// points, calls it under the kernel mutex.
func (t *Task) notify(data any) {
	t.notificationCount++
	t.asyncData = data
}
