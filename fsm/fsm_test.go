package fsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qkernel-go/qkernel/fsm"
)

const signalX fsm.Signal = 1

func newS0S1(t *testing.T, log *[]string) (*fsm.State, *fsm.State) {
	t.Helper()
	var s0, s1 *fsm.State
	s0 = fsm.NewState("S0", func(h *fsm.Handler) fsm.Outcome {
		*log = append(*log, "S0:"+signalName(h.Signal))
		return fsm.Success()
	})
	s1 = fsm.NewState("S1", func(h *fsm.Handler) fsm.Outcome {
		*log = append(*log, "S1:"+signalName(h.Signal))
		return fsm.Success()
	})
	return s0, s1
}

func signalName(s fsm.Signal) string {
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

func TestRunEntersInitialStateOnFirstRun(t *testing.T) {
	var log []string
	s0, _ := newS0S1(t, &log)

	m := fsm.NewMachine()
	require.NoError(t, m.Setup(s0, nil, nil, nil, nil))

	outcome := m.Run(nil)
	assert.True(t, outcome.IsSuccess())
	assert.Equal(t, []string{"S0:ENTRY"}, log)
}

func TestTransitionFiresExitThenEntry(t *testing.T) {
	// Scenario S5: S0 -> S1 on signal X.
	var log []string
	s0, s1 := newS0S1(t, &log)

	table := fsm.NewTransitionTable(fsm.Transition{From: s0, Signal: signalX, To: s1})

	m := fsm.NewMachine()
	require.NoError(t, m.Setup(s0, nil, nil, nil, nil))
	require.NoError(t, m.InstallTransitionTable(table))
	require.NoError(t, m.SetupSignalQueue(4))

	m.Run(nil)
	assert.Equal(t, []string{"S0:ENTRY"}, log)

	require.NoError(t, m.SendSignal(signalX, false))

	log = nil
	m.Run(nil)
	// The dequeued signal drives the transition sweep, then S0 still runs
	// once with that raw signal (mirroring the source's unconditional
	// ExecStateIfAvailable call), and only once the sweep has actually
	// changed NextState does S0 re-run with EXIT before S1 enters.
	assert.Equal(t, []string{"S0:SIGNAL", "S0:EXIT", "S1:ENTRY"}, log,
		"exactly one EXIT at the pre-transition state before the next ENTRY")
}

func TestSendSignalRejectsNone(t *testing.T) {
	m := fsm.NewMachine()
	s0 := fsm.NewState("S0", func(*fsm.Handler) fsm.Outcome { return fsm.Success() })
	require.NoError(t, m.Setup(s0, nil, nil, nil, nil))
	require.NoError(t, m.SetupSignalQueue(1))

	err := m.SendSignal(fsm.SignalNone, false)
	assert.ErrorIs(t, err, fsm.ErrSignalIsNone)
}

func TestSendSignalRejectsReservedSentinels(t *testing.T) {
	m := fsm.NewMachine()
	s0 := fsm.NewState("S0", func(*fsm.Handler) fsm.Outcome { return fsm.Success() })
	require.NoError(t, m.Setup(s0, nil, nil, nil, nil))
	require.NoError(t, m.SetupSignalQueue(1))

	assert.ErrorIs(t, m.SendSignal(fsm.SignalEntry, false), fsm.ErrSignalIsNone)
	assert.ErrorIs(t, m.SendSignal(fsm.SignalExit, false), fsm.ErrSignalIsNone)
}

func TestSweepTransitionTableIgnoresReservedSentinels(t *testing.T) {
	// A transition table entry keyed on the internal ENTRY sentinel must
	// never fire, even if handler.Signal happens to hold that value when
	// the sweep runs — it must never be mistaken for a caller-sent signal.
	s0 := fsm.NewState("S0", func(*fsm.Handler) fsm.Outcome { return fsm.Success() })
	s1 := fsm.NewState("S1", func(*fsm.Handler) fsm.Outcome { return fsm.Success() })
	table := fsm.NewTransitionTable(fsm.Transition{From: s0, Signal: fsm.SignalEntry, To: s1})

	m := fsm.NewMachine()
	require.NoError(t, m.Setup(s0, nil, nil, nil, nil))
	require.NoError(t, m.InstallTransitionTable(table))

	m.Handler().Signal = fsm.SignalEntry
	assert.False(t, m.SweepTransitionTable())
	assert.Same(t, s0, m.Handler().NextState)
}

func TestSendSignalWithoutQueueConfigured(t *testing.T) {
	m := fsm.NewMachine()
	s0 := fsm.NewState("S0", func(*fsm.Handler) fsm.Outcome { return fsm.Success() })
	require.NoError(t, m.Setup(s0, nil, nil, nil, nil))

	err := m.SendSignal(signalX, false)
	assert.ErrorIs(t, err, fsm.ErrSignalQueueNotConfigured)
}

func TestSetupSignalQueueNilMachine(t *testing.T) {
	var m *fsm.Machine
	err := m.SetupSignalQueue(4)
	assert.ErrorIs(t, err, fsm.ErrNilMachine, "SetupSignalQueue must null-check its receiver defensively")
}

func TestRunReturnsLastOutcomeNotHardcodedFailure(t *testing.T) {
	m := fsm.NewMachine()
	s0 := fsm.NewState("S0", func(*fsm.Handler) fsm.Outcome { return fsm.Success() })
	require.NoError(t, m.Setup(s0, nil, nil, nil, nil))

	outcome := m.Run(nil)
	assert.True(t, outcome.IsSuccess(), "Run must surface the last state's actual outcome")
}

func TestSubstateDispatchByOutcome(t *testing.T) {
	var got string
	s0 := fsm.NewState("S0", func(*fsm.Handler) fsm.Outcome { return fsm.Unexpected(7) })

	m := fsm.NewMachine()
	require.NoError(t, m.Setup(
		s0,
		func(*fsm.Handler) { got = "success" },
		func(*fsm.Handler) { got = "failure" },
		func(h *fsm.Handler) { got = "unexpected" },
		nil,
	))

	outcome := m.Run(nil)
	assert.True(t, outcome.IsUnexpected())
	assert.Equal(t, int16(7), outcome.Code())
	assert.Equal(t, "unexpected", got)
}

func TestAttributeRestartReentersWithEntry(t *testing.T) {
	var log []string
	s0, s1 := newS0S1(t, &log)

	m := fsm.NewMachine()
	require.NoError(t, m.Setup(s0, nil, nil, nil, nil))
	m.Run(nil)
	log = nil

	m.SetAttribute(fsm.AttrRestart, s1, nil)
	outcome := m.Run(nil)

	assert.True(t, outcome.IsSuccess())
	assert.Equal(t, []string{"S1:ENTRY"}, log)
}

func TestBeforeAnyRunsOnEveryExecution(t *testing.T) {
	count := 0
	s0 := fsm.NewState("S0", func(*fsm.Handler) fsm.Outcome { return fsm.Success() })

	m := fsm.NewMachine()
	require.NoError(t, m.Setup(s0, nil, nil, nil, func(*fsm.Handler) { count++ }))

	m.Run(nil)
	m.Run(nil)
	assert.Equal(t, 2, count)
}
