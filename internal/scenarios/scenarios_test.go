// Package scenarios holds end-to-end tests driving the kernel against a
// virtual clock, the way the ancestor's separate tests package exercises
// its worker pool end to end rather than unit by unit.
package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qkernel "github.com/qkernel-go/qkernel"
	"github.com/qkernel-go/qkernel/clock"
	"github.com/qkernel-go/qkernel/coroutine"
	"github.com/qkernel-go/qkernel/fsm"
	"github.com/qkernel-go/qkernel/queue"
)

// S1: two periodic tasks at the same interval, different priorities;
// the higher-priority task is always dispatched first within an
// iteration, and both run exactly once per elapsed interval.
func TestS1TwoPeriodicTasksDispatchHighPriorityFirst(t *testing.T) {
	mc := clock.NewManual(0)
	k, err := qkernel.New(&qkernel.Config{PQueueCapacity: 4, ClockProvider: mc})
	require.NoError(t, err)

	var order []string
	var countA, countB int

	_, err = k.AddTask(func(*qkernel.Event) error {
		order = append(order, "A")
		countA++
		mc.Advance(10)
		if countA >= 100 {
			k.Release()
		}
		return nil
	}, 2, 10, qkernel.Periodic, true, nil)
	require.NoError(t, err)

	_, err = k.AddTask(func(*qkernel.Event) error {
		order = append(order, "B")
		countB++
		return nil
	}, 5, 10, qkernel.Periodic, true, nil)
	require.NoError(t, err)

	k.SetIdle(func(*qkernel.Event) { mc.Advance(10) })

	k.Run()

	assert.Equal(t, 100, countA)
	assert.Equal(t, 100, countB)
	require.Len(t, order, 200)
	for i := 0; i < len(order); i += 2 {
		assert.Equal(t, "B", order[i], "B must dispatch before A within iteration %d", i/2)
		assert.Equal(t, "A", order[i+1])
	}
}

// S2: a single-shot task disables itself after its one iteration, and
// every iteration after that dispatches only the idle callback.
func TestS2SingleShotTaskDisablesAfterOneDispatch(t *testing.T) {
	mc := clock.NewManual(0)
	k, err := qkernel.New(&qkernel.Config{PQueueCapacity: 4, ClockProvider: mc})
	require.NoError(t, err)

	var dispatches int
	tk, err := k.AddTask(func(ev *qkernel.Event) error {
		dispatches++
		assert.True(t, ev.FirstIteration)
		assert.True(t, ev.LastIteration)
		return nil
	}, 1, 0, 1, true, nil)
	require.NoError(t, err)

	var idleCalls int
	k.SetIdle(func(*qkernel.Event) {
		idleCalls++
		if idleCalls >= 3 {
			k.Release()
		}
	})

	k.Run()

	assert.Equal(t, 1, dispatches)
	assert.False(t, tk.Enabled())
	assert.GreaterOrEqual(t, idleCalls, 3)
}

// S3: a task with an attached capacity-4 queue and the "full" trigger
// enabled dispatches with TriggerQueueFull and the queue handle as
// EventData once an ISR-style producer has filled the queue.
func TestS3QueueFullTriggerCarriesQueueHandle(t *testing.T) {
	mc := clock.NewManual(0)
	k, err := qkernel.New(&qkernel.Config{PQueueCapacity: 4, ClockProvider: mc})
	require.NoError(t, err)

	q := queue.NewRing[any](4)
	var gotTrigger qkernel.Trigger
	var gotQueue *queue.Ring[any]

	tk, err := k.AddEventTask(func(ev *qkernel.Event) error {
		gotTrigger = ev.Trigger
		gotQueue, _ = ev.EventData.(*queue.Ring[any])
		k.Release()
		return nil
	}, 1, nil)
	require.NoError(t, err)
	tk.AttachQueue(q, false, true, false, 0)

	for i := 0; i < q.Cap(); i++ {
		require.NoError(t, q.PushBack(i))
	}

	k.Run()

	assert.Equal(t, qkernel.TriggerQueueFull, gotTrigger)
	assert.Same(t, q, gotQueue)
}

// S4: deferred events extract in priority order regardless of insertion
// order, across three successive scheduler iterations.
func TestS4DeferredQueueExtractsByPriority(t *testing.T) {
	k, err := qkernel.New(&qkernel.Config{PQueueCapacity: 4})
	require.NoError(t, err)

	var order []string
	makeTask := func(name string, priority uint8) *qkernel.Task {
		tk, err := k.AddEventTask(func(ev *qkernel.Event) error {
			order = append(order, name+":"+ev.EventData.(string))
			if len(order) == 3 {
				k.Release()
			}
			return nil
		}, priority, nil)
		require.NoError(t, err)
		return tk
	}

	tLow := makeTask("low", 1)
	tHigh := makeTask("high", 5)
	tMid := makeTask("mid", 3)

	require.NoError(t, k.InsertDeferred(tLow, "p1"))
	require.NoError(t, k.InsertDeferred(tHigh, "p2"))
	require.NoError(t, k.InsertDeferred(tMid, "p3"))

	k.Run()

	require.Equal(t, []string{"high:p2", "mid:p3", "low:p1"}, order)
}

// S5: a two-state machine transitions from S0 to S1 on signal X: S0 runs
// with the dequeued signal, then with Exit, before S1 runs with Entry.
func TestS5FSMTransitionsOnSignal(t *testing.T) {
	const signalX fsm.Signal = 1

	var trace []string
	s0 := fsm.NewState("S0", func(h *fsm.Handler) fsm.Outcome {
		trace = append(trace, "S0:"+signalLabel(h.Signal))
		return fsm.Success()
	})
	s1 := fsm.NewState("S1", func(h *fsm.Handler) fsm.Outcome {
		trace = append(trace, "S1:"+signalLabel(h.Signal))
		return fsm.Success()
	})

	m := fsm.NewMachine()
	require.NoError(t, m.Setup(s0, nil, nil, nil, nil))
	require.NoError(t, m.InstallTransitionTable(fsm.NewTransitionTable(
		fsm.Transition{From: s0, Signal: signalX, To: s1},
	)))
	require.NoError(t, m.SetupSignalQueue(2))

	m.Run(nil)
	require.NoError(t, m.SendSignal(signalX, false))
	m.Run(nil)

	require.Equal(t, []string{"S0:ENTRY", "S0:SIGNAL", "S0:EXIT", "S1:ENTRY"}, trace)
}

func signalLabel(s fsm.Signal) string {
	switch s {
	case fsm.SignalEntry:
		return "ENTRY"
	case fsm.SignalExit:
		return "EXIT"
	case fsm.SignalNone:
		return "NONE"
	default:
		return "SIGNAL"
	}
}

// S6: a coroutine delaying between two prints yields on every call
// before the delay expires, then proceeds once the virtual clock has
// advanced past it.
func TestS6CoroutineDelayBetweenTwoPrints(t *testing.T) {
	mc := clock.NewManual(0)
	in := coroutine.NewInstance()

	var printed []string
	run := func() {
		switch in.Step() {
		case 0:
			printed = append(printed, "A")
			if !in.Delay(mc.Now(), 50, 1) {
				return
			}
			fallthrough
		case 1:
			if !in.Delay(mc.Now(), 50, 1) {
				return
			}
			printed = append(printed, "B")
		}
	}

	run()
	assert.Equal(t, []string{"A"}, printed)

	mc.Advance(10)
	run()
	assert.Equal(t, []string{"A"}, printed, "delay not yet expired, should still yield")

	mc.Advance(10)
	run()
	assert.Equal(t, []string{"A"}, printed, "still short of 50 ticks total")

	mc.Advance(30)
	run()
	assert.Equal(t, []string{"A", "B"}, printed, "delay expired: proceeds to second print")
}
