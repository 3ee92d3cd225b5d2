package qkernel

import "github.com/qkernel-go/qkernel/clock"

// evaluateReadiness tags t with the first matching trigger in the §4.3
// precedence order (time-elapsed, queue event, async notification),
// promoting it to StateReady, or leaves/returns it to StateSuspended if
// nothing matches. It returns true iff t became ready.
func evaluateReadiness(t *Task, now clock.Tick) bool {
	if t.state == StateRunning {
		return false
	}

	if timeElapsed(t, now) {
		t.clockStart = now
		t.trigger = TriggerTimeElapsed
		t.state = StateReady
		return true
	}

	if t.queueRef != nil {
		switch {
		case t.queueFull && t.queueRef.IsFull():
			t.trigger = TriggerQueueFull
			t.state = StateReady
			return true
		case t.queueCountThreshold > 0 && t.queueRef.Len() >= t.queueCountThreshold:
			t.trigger = TriggerQueueCount
			t.state = StateReady
			return true
		case t.queueReceiver && t.queueRef.Len() > 0:
			t.trigger = TriggerQueueReceiver
			t.state = StateReady
			return true
		case t.queueEmpty && t.queueRef.IsEmpty():
			t.trigger = TriggerQueueEmpty
			t.state = StateReady
			return true
		}
	}

	if t.notificationCount > 0 {
		t.trigger = TriggerNotificationSimple
		t.state = StateReady
		return true
	}

	t.trigger = TriggerNone
	t.state = StateSuspended
	return false
}

// timeElapsed reports whether t's time-triggered condition holds: it
// must be enabled, have remaining iterations (or be periodic), and
// either run on every sweep (Interval == 0) or have its deadline reached.
func timeElapsed(t *Task, now clock.Tick) bool {
	if !t.enabled {
		return false
	}
	if !t.periodic && t.iterCounter == 0 {
		return false
	}
	if t.Interval == 0 {
		return true
	}
	return now-t.clockStart >= t.Interval
}

// readySweep evaluates every task in chain order and reports whether at
// least one task became ready.
func readySweep(c *chain, now clock.Tick) bool {
	any := false
	c.each(func(t *Task) bool {
		if evaluateReadiness(t, now) {
			any = true
		}
		return true
	})
	return any
}
