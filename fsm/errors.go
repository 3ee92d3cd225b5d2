package fsm

import "errors"

// Namespace prefixes every sentinel error exported by this package.
const Namespace = "fsm"

var (
	// ErrNilMachine is returned by every error-returning method when
	// called on a nil *Machine receiver, SetupSignalQueue included —
	// this is the defensive null-check the original SignalQueueSetup
	// omitted (see the "open question" entries in SPEC_FULL.md §9).
	ErrNilMachine = errors.New(Namespace + ": nil machine")

	// ErrNilInitState is returned by Setup when InitState is nil.
	ErrNilInitState = errors.New(Namespace + ": nil initial state")

	// ErrInvalidTransitionTable is returned by InstallTransitionTable
	// when given a nil table or one with no entries.
	ErrInvalidTransitionTable = errors.New(Namespace + ": invalid transition table")

	// ErrInvalidSignalQueueCapacity is returned by SetupSignalQueue for
	// a non-positive capacity.
	ErrInvalidSignalQueueCapacity = errors.New(Namespace + ": invalid signal queue capacity")

	// ErrSignalIsNone is returned by SendSignal for SignalNone or any
	// other signal at or below it, including the internally-reserved
	// SignalEntry/SignalExit sentinels.
	ErrSignalIsNone = errors.New(Namespace + ": signal is none")

	// ErrSignalQueueNotConfigured is returned by SendSignal when no
	// signal queue has been installed via SetupSignalQueue.
	ErrSignalQueueNotConfigured = errors.New(Namespace + ": signal queue not configured")

	// ErrSignalQueueFull is returned by SendSignal when the signal
	// queue has no remaining capacity.
	ErrSignalQueueFull = errors.New(Namespace + ": signal queue full")
)
