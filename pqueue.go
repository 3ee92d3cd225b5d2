package qkernel

// deferredEvent is one entry of the scheduler's deferred-event priority
// queue: a task made ready from outside the normal time/queue/async
// evaluation (e.g. SpreadNotification, InsertDeferred), tagged with the
// trigger and payload it should be dispatched with.
type deferredEvent struct {
	task    *Task
	trigger Trigger
	payload any
}

// pqueue is a small bounded max-priority queue of deferredEvents. Each
// scheduler iteration extracts at most one event from it, before the
// regular readiness sweep runs, per _qScheduler_PriorityQueueGet's
// precedence.
type pqueue struct {
	cells []deferredEvent
}

func newPQueue(capacity int) *pqueue {
	return &pqueue{cells: make([]deferredEvent, 0, capacity)}
}

// insert appends an event, rejecting it with ErrPQueueFull once the
// queue reaches its configured capacity.
func (q *pqueue) insert(ev deferredEvent) error {
	if len(q.cells) >= cap(q.cells) {
		return ErrPQueueFull
	}
	q.cells = append(q.cells, ev)
	return nil
}

// extractMax scans for the highest-priority task among queued events,
// removes it by shifting the remainder left (preserving relative order
// of the rest), and returns it. ok is false when the queue is empty.
func (q *pqueue) extractMax() (ev deferredEvent, ok bool) {
	if len(q.cells) == 0 {
		return deferredEvent{}, false
	}
	best := 0
	for i := 1; i < len(q.cells); i++ {
		if q.cells[i].task.Priority > q.cells[best].task.Priority {
			best = i
		}
	}
	ev = q.cells[best]
	copy(q.cells[best:], q.cells[best+1:])
	q.cells = q.cells[:len(q.cells)-1]
	return ev, true
}

func (q *pqueue) len() int { return len(q.cells) }

// removeTask drops any pending events referencing t, used when a task is
// removed from the scheduler entirely.
func (q *pqueue) removeTask(t *Task) {
	out := q.cells[:0]
	for _, ev := range q.cells {
		if ev.task != t {
			out = append(out, ev)
		}
	}
	q.cells = out
}
