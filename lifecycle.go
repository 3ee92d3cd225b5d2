package qkernel

import "sync"

// releaseCoordinator runs the kernel's shutdown sequence exactly once,
// after Run's loop has actually stopped: it is a wiring helper, not an
// owner of any channel or goroutine, mirroring the role of a lifecycle
// coordinator in a concurrent pipeline reduced to this kernel's
// single-goroutine case.
type releaseCoordinator struct {
	once     sync.Once
	callback ReleaseFunc
}

func (r *releaseCoordinator) run() {
	r.once.Do(func() {
		if r.callback != nil {
			r.callback()
		}
	})
}
