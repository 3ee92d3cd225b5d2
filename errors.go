package qkernel

import "errors"

// Namespace prefixes every sentinel error this package defines.
const Namespace = "qkernel"

var (
	ErrNilCallback             = errors.New(Namespace + ": task callback must not be nil")
	ErrNilTask                 = errors.New(Namespace + ": task must not be nil")
	ErrTaskNotFound            = errors.New(Namespace + ": task not registered with this kernel")
	ErrInvalidPriority         = errors.New(Namespace + ": priority out of range")
	ErrInvalidInterval         = errors.New(Namespace + ": negative time interval")
	ErrPQueueFull              = errors.New(Namespace + ": deferred-event queue is full")
	ErrNoQueueAttached         = errors.New(Namespace + ": task has no event queue attached")
	ErrInvalidConfig           = errors.New(Namespace + ": invalid configuration")
	ErrSchedulerAlreadyRunning = errors.New(Namespace + ": scheduler is already running")
	ErrTaskPanicked            = errors.New(Namespace + ": task callback panicked")
	ErrFSMPanicked             = errors.New(Namespace + ": fsm machine panicked")
	ErrArenaExhausted          = errors.New(Namespace + ": task arena is at capacity")
)
