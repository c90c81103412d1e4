package suggestions

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"photogrip/internal/domain"
	"photogrip/internal/eventbus"
	"photogrip/internal/kvstore"
	"photogrip/internal/logger"
)

// Service remembers successful search queries and matches them against input.
// When the backing store fails it keeps working from memory for the rest of
// the process lifetime.
type Service struct {
	mu       sync.RWMutex
	state    *State
	store    kvstore.Store
	bus      eventbus.EventBus
	log      *logger.Logger
	minChars int
}

// NewService loads remembered queries from store. A nil store or a failing
// read starts the service degraded.
func NewService(store kvstore.Store, bus eventbus.EventBus, log *logger.Logger, minChars int) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if minChars < 1 {
		minChars = DefaultMinChars
	}
	s := &Service{
		state:    &State{Seen: make(map[string]struct{})},
		store:    store,
		bus:      bus,
		log:      log.WithComponent("suggestions"),
		minChars: minChars,
	}

	if store == nil {
		s.state.Degraded = true
		return s
	}

	keys, err := store.Keys()
	if err != nil {
		s.degrade(err)
		return s
	}
	for _, key := range keys {
		if q, ok := strings.CutPrefix(key, KeyPrefix); ok && q != "" {
			s.state.Seen[q] = struct{}{}
		}
	}
	s.log.WithField(logger.FieldCount, len(s.state.Seen)).Debug("suggestions loaded")
	return s
}

// Has reports whether query has been remembered
func (s *Service) Has(query string) bool {
	query = strings.TrimSpace(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.state.Seen[query]
	return ok
}

// Remember records query. Blank and already known queries are no-ops.
func (s *Service) Remember(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.mu.Lock()
	if _, ok := s.state.Seen[query]; ok {
		s.mu.Unlock()
		return
	}
	s.state.Seen[query] = struct{}{}
	degraded := s.state.Degraded
	s.mu.Unlock()

	if degraded {
		return
	}
	if err := s.store.Set(KeyPrefix+query, query); err != nil {
		s.mu.Lock()
		s.degrade(err)
		s.mu.Unlock()
		return
	}
	s.log.WithField(logger.FieldQuery, query).Debug("suggestion remembered")
}

// All returns every remembered query in sorted order
func (s *Service) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.state.Seen))
	for q := range s.state.Seen {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

// Match returns remembered queries containing text, ignoring case.
// Inputs shorter than the configured minimum match nothing.
func (s *Service) Match(text string) []string {
	if utf8.RuneCountInString(text) < s.minChars {
		return nil
	}
	needle := strings.ToLower(text)

	var out []string
	for _, q := range s.All() {
		if strings.Contains(strings.ToLower(q), needle) {
			out = append(out, q)
		}
	}
	return out
}

// Forget removes every remembered query
func (s *Service) Forget() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Degraded {
		for q := range s.state.Seen {
			if err := s.store.Delete(KeyPrefix + q); err != nil {
				return err
			}
		}
	}
	s.state.Seen = make(map[string]struct{})
	return nil
}

// Degraded reports whether persistence has been disabled
func (s *Service) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Degraded
}

// degrade must be called with s.mu held or before the service is shared
func (s *Service) degrade(err error) {
	if s.state.Degraded {
		return
	}
	s.state.Degraded = true
	s.log.WithError(err).Warn("suggestion storage unavailable, continuing in memory")
	if s.bus != nil {
		s.bus.Publish(domain.StorageDegradedEvent{Err: err})
	}
}
