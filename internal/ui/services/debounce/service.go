package debounce

import (
	"sync"
	"time"
)

// Service runs only the most recently scheduled action once the caller has
// been quiet for the scheduled delay.
type Service struct {
	mu         sync.Mutex
	timer      *time.Timer
	pending    func()
	generation uint64
	stopped    bool
}

// NewService creates a new debouncer
func NewService() *Service {
	return &Service{}
}

// Schedule replaces any pending action with action, to run after delay
func (s *Service) Schedule(action func(), delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.cancelLocked()
	gen := s.generation
	s.pending = action
	s.timer = time.AfterFunc(delay, func() {
		s.fire(gen)
	})
}

// Cancel drops the pending action, if any
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Flush runs the pending action now instead of waiting for the delay.
// Returns false when nothing was pending.
func (s *Service) Flush() bool {
	s.mu.Lock()
	action := s.pending
	s.cancelLocked()
	s.mu.Unlock()

	if action == nil {
		return false
	}
	action()
	return true
}

// Pending reports whether an action is waiting to run
func (s *Service) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Stop cancels the pending action and ignores all later Schedule calls
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.stopped = true
}

// fire runs the action armed by generation gen unless it was superseded
// while the timer was already firing.
func (s *Service) fire(gen uint64) {
	s.mu.Lock()
	if s.generation != gen || s.stopped || s.pending == nil {
		s.mu.Unlock()
		return
	}
	action := s.pending
	s.pending = nil
	s.timer = nil
	s.generation++
	s.mu.Unlock()

	action()
}

func (s *Service) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.generation++
}
