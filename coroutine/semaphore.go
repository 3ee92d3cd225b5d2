package coroutine

// Semaphore is the coroutine-scoped counting semaphore: Wait polls
// TryLock through WaitUntil (no blocking, no background wake), and
// Signal simply increments the count.
type Semaphore struct {
	count int32
}

// NewSemaphore returns a Semaphore initialized with n permits.
func NewSemaphore(n int32) *Semaphore {
	return &Semaphore{count: n}
}

// TryLock atomically decrements the count if it is positive and reports
// whether it succeeded.
func (s *Semaphore) TryLock() bool {
	if s.count > 0 {
		s.count--
		return true
	}
	return false
}

// Signal increments the permit count, waking no one (the next poller to
// call Wait will observe the increment).
func (s *Semaphore) Signal() {
	s.count++
}

// Wait is sugar for the coroutine WaitUntil(TryLock(), next) idiom.
func (s *Semaphore) Wait(in *Instance, next int) bool {
	return in.WaitUntil(s.TryLock(), next)
}

// Count returns the current permit count, for tests and introspection.
func (s *Semaphore) Count() int32 { return s.count }
