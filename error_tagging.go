package qkernel

import (
	"errors"
	"fmt"
)

// DispatchMetaError exposes correlation metadata for an error raised
// while dispatching a task: which task produced it, and under which
// trigger.
type DispatchMetaError interface {
	error
	Unwrap() error
	TaskName() (string, bool)
	Trigger() Trigger
}

type dispatchTaggedError struct {
	err     error
	name    string
	trigger Trigger
}

func newDispatchTaggedError(err error, name string, trigger Trigger) error {
	if err == nil {
		return nil
	}
	return &dispatchTaggedError{err: err, name: name, trigger: trigger}
}

func (e *dispatchTaggedError) Error() string { return e.err.Error() }
func (e *dispatchTaggedError) Unwrap() error { return e.err }

func (e *dispatchTaggedError) TaskName() (string, bool) {
	if e.name == "" {
		return "", false
	}
	return e.name, true
}

func (e *dispatchTaggedError) Trigger() Trigger { return e.trigger }

func (e *dispatchTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "task(name=%s,trigger=%s): %+v", e.name, e.trigger, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractTaskName returns the name of the task that produced err, if tagged.
func ExtractTaskName(err error) (string, bool) {
	var dme DispatchMetaError
	if errors.As(err, &dme) {
		return dme.TaskName()
	}
	return "", false
}

// ExtractTrigger returns the Trigger active when err was produced, if tagged.
func ExtractTrigger(err error) (Trigger, bool) {
	var dme DispatchMetaError
	if errors.As(err, &dme) {
		return dme.Trigger(), true
	}
	return TriggerNone, false
}
