package metrics

// Instrument names for the three measurements the scheduler loop
// records every Run iteration. Centralizing the names here (rather
// than scattering string literals through the kernel package) keeps a
// Provider implementation and its caller from drifting apart on what
// a name means.
const (
	NameDispatchCount = "qkernel.dispatch.count"
	NamePQueueDepth   = "qkernel.pqueue.depth"
	NameReadyTasks    = "qkernel.ready.tasks"
)

// SchedulerInstruments bundles the fixed set of instruments a Kernel
// wires on every SetMetricsProvider call: a monotonic count of
// dispatches, the live depth of the deferred-event priority queue, and
// a distribution of how many tasks a single readiness sweep found
// ready. Building them through one constructor, instead of three
// separate Provider calls inline in the kernel package, keeps the
// names, descriptions, and units attached to a given Provider instance
// consistent across every Kernel that shares it.
type SchedulerInstruments struct {
	DispatchCount Counter
	PQueueDepth   UpDownCounter
	ReadyTasks    Histogram
}

// NewSchedulerInstruments creates the scheduler's instruments against
// p. A nil p is replaced with NoopProvider, matching
// Kernel.SetMetricsProvider's own nil handling.
func NewSchedulerInstruments(p Provider) SchedulerInstruments {
	if p == nil {
		p = NoopProvider{}
	}
	return SchedulerInstruments{
		DispatchCount: p.Counter(NameDispatchCount,
			WithDescription("tasks dispatched"), WithUnit("1")),
		PQueueDepth: p.UpDownCounter(NamePQueueDepth,
			WithDescription("deferred-event queue depth"), WithUnit("1")),
		ReadyTasks: p.Histogram(NameReadyTasks,
			WithDescription("tasks found ready per sweep"), WithUnit("1")),
	}
}
