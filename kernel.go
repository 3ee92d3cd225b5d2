package qkernel

import (
	"sync"
	"time"

	"github.com/qkernel-go/qkernel/clock"
	"github.com/qkernel-go/qkernel/fsm"
	"github.com/qkernel-go/qkernel/metrics"
	"github.com/qkernel-go/qkernel/taskarena"
)

// taskArena abstracts over taskarena.Fixed and taskarena.Dynamic so the
// Kernel can honor Config.MaxTaskCount without two code paths.
type taskArena interface {
	New() *Task
	Free(*Task)
}

type dynamicArena struct{ a *taskarena.Dynamic[Task] }

func (d dynamicArena) New() *Task   { return d.a.New() }
func (d dynamicArena) Free(t *Task) { d.a.Free(t) }

type fixedArena struct{ a *taskarena.Fixed[Task] }

// New panics if the fixed arena is exhausted; AddTask and AddFSMTask
// pre-check taskCount against Config.MaxTaskCount under the kernel mutex,
// so this path is not reached in normal use.
func (f fixedArena) New() *Task {
	t, ok := f.a.New()
	if !ok {
		panic("qkernel: fixed task arena exhausted despite capacity check")
	}
	return t
}
func (f fixedArena) Free(t *Task) { f.a.Free(t) }

// IdleFunc is invoked once per scheduler iteration in which no task
// became ready.
type IdleFunc func(*Event)

// ReleaseFunc is invoked once, after Run's loop has actually stopped,
// as the last step of the release sequence.
type ReleaseFunc func()

// Kernel is one cooperative scheduler instance: a priority-sorted task
// chain, a deferred-event priority queue, and the readiness/dispatch
// loop that drives them. A Kernel is not safe for concurrent Run calls,
// but its ISR-style entry points (Notify, InsertDeferred,
// SpreadNotification) take a critical-section mutex so they may be
// called from a goroutine standing in for a hardware interrupt.
type Kernel struct {
	cfg   Config
	clock clock.Provider

	mu        sync.Mutex
	chain     chain
	pq        *pqueue
	arena     taskArena
	taskCount int

	currentRunning *Task
	idle           IdleFunc
	idleCalled     bool

	running        bool
	released       bool
	needsRearrange bool
	release        releaseCoordinator

	errorsCh chan error
	metrics  metrics.Provider
	inst     metrics.SchedulerInstruments
}

// New builds a Kernel from an explicit Config. A nil cfg is equivalent
// to defaultConfig().
func New(cfg *Config) (*Kernel, error) {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	cp := c.ClockProvider
	if cp == nil {
		cp = clock.NewSystem(time.Millisecond)
	}

	var arena taskArena
	if c.MaxTaskCount > 0 {
		arena = fixedArena{a: taskarena.NewFixed(c.MaxTaskCount, func() *Task { return &Task{} })}
	} else {
		arena = dynamicArena{a: taskarena.NewDynamic(func() *Task { return &Task{} })}
	}

	k := &Kernel{
		cfg:            c,
		clock:          cp,
		pq:             newPQueue(c.PQueueCapacity),
		arena:          arena,
		errorsCh:       make(chan error, c.ErrorsBufferSize),
		needsRearrange: true,
	}
	k.SetMetricsProvider(metrics.NoopProvider{})
	return k, nil
}

// SetMetricsProvider installs a metrics.Provider used to record
// dispatch counts and priority-queue depth. The default is a no-op
// provider.
func (k *Kernel) SetMetricsProvider(p metrics.Provider) {
	if p == nil {
		p = metrics.NoopProvider{}
	}
	k.metrics = p
	k.inst = metrics.NewSchedulerInstruments(p)
}

// Errors returns the channel on which dispatch panics and other
// kernel-observed failures are forwarded.
func (k *Kernel) Errors() <-chan error { return k.errorsCh }

func (k *Kernel) forwardError(err error) {
	select {
	case k.errorsCh <- err:
	default:
		// Outward errors channel full: drop rather than block the
		// single-threaded scheduler loop.
	}
}

// AddTask registers a new periodic or bounded task.
func (k *Kernel) AddTask(cb Callback, priority uint8, interval clock.Tick, iterations int32, enabled bool, userData any) (*Task, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cfg.MaxTaskCount > 0 && k.taskCount >= k.cfg.MaxTaskCount {
		return nil, ErrArenaExhausted
	}

	t := k.arena.New()
	*t = *newTask(cb, priority, interval, iterations, enabled, userData)
	k.chain.insert(t)
	k.taskCount++
	return t, nil
}

// AddEventTask registers a single-shot, initially-disabled task meant
// to be driven purely by notifications or queue events rather than time.
func (k *Kernel) AddEventTask(cb Callback, priority uint8, userData any) (*Task, error) {
	return k.AddTask(cb, priority, 0, 1, false, userData)
}

// AddFSMTask registers a task whose body is an FSM instead of a plain
// Callback; the dispatcher runs the machine directly.
func (k *Kernel) AddFSMTask(m *fsm.Machine, priority uint8, interval clock.Tick, enabled bool, userData any) (*Task, error) {
	if m == nil {
		return nil, ErrNilTask
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cfg.MaxTaskCount > 0 && k.taskCount >= k.cfg.MaxTaskCount {
		return nil, ErrArenaExhausted
	}

	t := k.arena.New()
	*t = *newTask(nil, priority, interval, Periodic, enabled, userData)
	t.fsmRef = m
	k.chain.insert(t)
	k.taskCount++
	return t, nil
}

// UpdatePriority changes t's Priority and marks the chain for
// rearrangement on Run's next iteration, mirroring the source's
// explicit scheme-reload step after a runtime priority change.
func (k *Kernel) UpdatePriority(t *Task, priority uint8) error {
	if t == nil {
		return ErrNilTask
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	t.Priority = priority
	k.needsRearrange = true
	return nil
}

// RemoveTask unlinks t from the chain and drops any of its pending
// deferred events. Must not be called on the task currently executing
// its own callback.
func (k *Kernel) RemoveTask(t *Task) error {
	if t == nil {
		return ErrNilTask
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.chain.remove(t) {
		return ErrTaskNotFound
	}
	k.pq.removeTask(t)
	k.arena.Free(t)
	k.taskCount--
	return nil
}

// SetIdle installs the callback run once per iteration in which no
// task became ready.
func (k *Kernel) SetIdle(fn IdleFunc) { k.idle = fn }

// SetReleaseCallback installs the callback run once, after Run's loop
// has stopped.
func (k *Kernel) SetReleaseCallback(fn ReleaseFunc) { k.release.callback = fn }

// Release requests that Run stop at the start of its next iteration.
func (k *Kernel) Release() {
	k.mu.Lock()
	k.released = true
	k.mu.Unlock()
}

// SpreadNotification applies mode to every task currently in the
// chain, returning the conjunction of its results. The chain is
// snapshotted under the critical-section mutex and mode runs after it
// is released, so mode may call Notify or InsertDeferred.
func (k *Kernel) SpreadNotification(data any, mode func(*Task, any) bool) bool {
	k.mu.Lock()
	var tasks []*Task
	k.chain.each(func(t *Task) bool {
		tasks = append(tasks, t)
		return true
	})
	k.mu.Unlock()

	all := true
	for _, t := range tasks {
		if !mode(t, data) {
			all = false
		}
	}
	return all
}

// Notify is the ISR-safe entry point for a simple async notification.
func (k *Kernel) Notify(t *Task, data any) error {
	if t == nil {
		return ErrNilTask
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	t.notify(data)
	return nil
}

// InsertDeferred is the ISR-safe entry point for the deferred-event
// priority queue: it stages (t, payload) for dispatch with trigger
// NotificationQueued ahead of the next ready sweep.
func (k *Kernel) InsertDeferred(t *Task, payload any) error {
	if t == nil {
		return ErrNilTask
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.pq.insert(deferredEvent{task: t, trigger: TriggerNotificationQueued, payload: payload}); err != nil {
		return err
	}
	k.inst.PQueueDepth.Add(1)
	return nil
}

// Run enters the scheduler loop. It returns only after Release has been
// called and the in-progress iteration has completed. Run is not
// re-entrant: calling it while it is already running on another
// goroutine returns ErrSchedulerAlreadyRunning immediately instead of
// starting a second loop over the same kernel state.
//
// The critical-section mutex is held only while consulting or mutating
// kernel-owned structures (the chain, the arena, the priority queue),
// never while a task's callback or FSM is actually executing: a task
// body is free to call Release, Notify, or InsertDeferred on itself
// without deadlocking against the scheduler goroutine that is running it.
func (k *Kernel) Run() error {
	k.mu.Lock()
	if k.running {
		k.mu.Unlock()
		return ErrSchedulerAlreadyRunning
	}
	k.running = true
	k.mu.Unlock()

	defer func() {
		k.mu.Lock()
		k.running = false
		k.mu.Unlock()
	}()

	k.released = false
	for {
		k.mu.Lock()
		if k.released {
			k.mu.Unlock()
			break
		}
		if k.needsRearrange {
			k.chain.rearrange()
			k.needsRearrange = false
		}

		deferredEv, hasDeferred := k.pq.extractMax()
		if hasDeferred {
			k.inst.PQueueDepth.Add(-1)
		}

		ready := readySweep(&k.chain, k.clock.Now())
		var readyTasks []*Task
		if ready {
			k.chain.each(func(t *Task) bool {
				if t.state == StateReady {
					readyTasks = append(readyTasks, t)
				} else {
					t.state = StateWaiting
				}
				return true
			})
		}
		k.inst.ReadyTasks.Record(float64(len(readyTasks)))
		k.mu.Unlock()

		if hasDeferred {
			k.dispatch(deferredEv.task, deferredEv.trigger, deferredEv.payload)
			k.inst.DispatchCount.Add(1)
		}
		if ready {
			for _, t := range readyTasks {
				k.dispatch(t, t.trigger, nil)
				k.inst.DispatchCount.Add(1)
			}
		} else {
			k.dispatchIdle()
		}
	}

	k.release.run()
	return nil
}
