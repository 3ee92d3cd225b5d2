package qkernel

import "fmt"

// dispatch runs one task for the given trigger, with payload carrying
// whatever the caller already extracted (a priority-queue payload) or
// nil when the trigger was produced by the ready sweep. It returns the
// error surfaced by the task, if any; a panic during the callback or
// FSM run is recovered and converted to the same kind of error instead
// of unwinding the scheduler loop.
func (k *Kernel) dispatch(t *Task, trigger Trigger, payload any) (err error) {
	ev := &Event{Trigger: trigger, TaskData: t.UserData}

	switch trigger {
	case TriggerTimeElapsed:
		if !t.periodic && t.iterTarget != 0 && t.iterCounter < 0 {
			ev.FirstIteration = true
			t.iterCounter = -t.iterCounter
		}
		if !t.periodic && t.iterTarget != 0 {
			t.iterCounter--
			if t.iterCounter == 0 {
				ev.LastIteration = true
				t.enabled = false
			}
		}
	case TriggerNotificationSimple:
		ev.EventData = t.asyncData
		t.notificationCount--
	case TriggerQueueReceiver:
		if t.queueRef != nil {
			if v, peekErr := t.queueRef.PeekFront(); peekErr == nil {
				ev.EventData = v
			}
		}
	case TriggerQueueFull, TriggerQueueCount, TriggerQueueEmpty:
		ev.EventData = t.queueRef
	case TriggerNotificationQueued:
		ev.EventData = payload
	}

	ev.FirstCall = !t.initDone

	t.state = StateRunning
	k.currentRunning = t

	defer func() {
		if r := recover(); r != nil {
			sentinel := ErrTaskPanicked
			if t.fsmRef != nil {
				sentinel = ErrFSMPanicked
			}
			err = newDispatchTaggedError(fmt.Errorf("%w: %v", sentinel, r), t.Name, trigger)
		} else if err != nil {
			err = newDispatchTaggedError(err, t.Name, trigger)
		}
		if trigger == TriggerQueueReceiver && t.queueRef != nil {
			_, _ = t.queueRef.PopFront()
		}
		t.initDone = true
		t.state = StateSuspended
		k.currentRunning = nil
		if k.cfg.CycleCounting {
			t.cycles++
		}
		if err != nil {
			k.forwardError(err)
			if k.cfg.HaltOnTaskError {
				k.Release()
			}
		}
	}()

	if t.fsmRef != nil {
		// A Failure/Unexpected Outcome is ordinary FSM control flow, not
		// a dispatch error; only a panic recovered above is forwarded.
		t.fsmRef.Run(ev)
		return nil
	}
	if t.Callback != nil {
		err = t.Callback(ev)
	}
	return err
}

// dispatchIdle invokes the configured idle callback with a synthesized
// event when no task was ready this iteration.
func (k *Kernel) dispatchIdle() {
	if k.idle == nil {
		return
	}
	ev := &Event{Trigger: TriggerNoReadyTasks, FirstCall: !k.idleCalled}
	k.idleCalled = true

	defer func() {
		if r := recover(); r != nil {
			k.forwardError(fmt.Errorf("%w: idle callback: %v", ErrTaskPanicked, r))
		}
	}()
	k.idle(ev)
}
