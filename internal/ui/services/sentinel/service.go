package sentinel

import "sync"

// Service watches the last rendered item and reports when it scrolls into
// view. At most one item is watched at a time.
type Service struct {
	mu         sync.Mutex
	state      *State
	gate       GateFunc
	onReachEnd func()
}

// NewService creates a sentinel calling onReachEnd when the watched item
// becomes visible and gate allows it. A nil gate always allows.
func NewService(gate GateFunc, onReachEnd func()) *Service {
	return &Service{
		state:      &State{},
		gate:       gate,
		onReachEnd: onReachEnd,
	}
}

// Observe watches handle, replacing any previous watch. Observing the
// handle that is already watched keeps its visibility.
func (s *Service) Observe(handle Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Active && s.state.Watched == handle {
		return
	}
	s.state.Watched = handle
	s.state.Active = true
	s.state.Visible = false
}

// Detach stops watching
func (s *Service) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Watched = ""
	s.state.Active = false
	s.state.Visible = false
}

// Watched returns the watched handle, if any
func (s *Service) Watched() (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Watched, s.state.Active
}

// Visibility records whether handle is on screen. A hidden to visible
// transition of the watched handle signals reach-end once. When the gate
// refuses, the next visible report is treated as a new transition.
// Reports for other handles are ignored. Returns whether the signal was
// delivered.
func (s *Service) Visibility(handle Handle, visible bool) bool {
	s.mu.Lock()
	if !s.state.Active || s.state.Watched != handle {
		s.mu.Unlock()
		return false
	}
	wasVisible := s.state.Visible
	s.state.Visible = visible
	if !visible || wasVisible {
		s.mu.Unlock()
		return false
	}
	gate, fire := s.gate, s.onReachEnd
	s.mu.Unlock()

	allowed := gate == nil || gate()
	s.mu.Lock()
	if !allowed {
		// a refused signal does not consume the transition
		if s.state.Watched == handle {
			s.state.Visible = false
		}
		s.mu.Unlock()
		return false
	}
	s.state.Fired++
	s.mu.Unlock()
	if fire != nil {
		fire()
	}
	return true
}

// Fired returns how many reach-end signals were delivered
func (s *Service) Fired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Fired
}
