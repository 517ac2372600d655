package workspace

import (
	"sync"
	"time"
)

// Scheduler coalesces bursts of mutations into one deferred sync run. Each
// Schedule call replaces any pending timer, so the function fires once per
// quiet window rather than once per call. Cancel, Flush, and Stop make the
// timer explicit and deterministic instead of a fire-and-forget timeout.
type Scheduler struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

// NewScheduler returns a scheduler that runs fn after a quiet window.
func NewScheduler(window time.Duration, fn func()) *Scheduler {
	return &Scheduler{window: window, fn: fn}
}

// Schedule arms (or re-arms) the timer. The previous pending run, if any, is
// discarded.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, func() {
		s.mu.Lock()
		s.timer = nil
		stopped := s.stopped
		s.mu.Unlock()
		if !stopped {
			s.fn()
		}
	})
}

// Pending reports whether a run is armed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Cancel discards a pending run without executing it.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Flush runs a pending run immediately. No-op when nothing is armed or the
// timer already fired.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer == nil || !s.timer.Stop() {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()
	s.fn()
}

// Stop cancels any pending run and refuses future schedules.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
