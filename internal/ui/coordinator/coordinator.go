package coordinator

import (
	"context"
	"strings"
	"sync"
	"time"

	"photogrip/internal/domain"
	"photogrip/internal/eventbus"
	"photogrip/internal/kvstore"
	"photogrip/internal/logger"
	"photogrip/internal/ui/services/debounce"
	"photogrip/internal/ui/services/sentinel"
	"photogrip/internal/ui/services/session"
	"photogrip/internal/ui/services/suggestions"
)

// DefaultDebounce is the quiet period before a typed query is fetched
const DefaultDebounce = 500 * time.Millisecond

// Options tunes the coordinator
type Options struct {
	Debounce           time.Duration
	SuggestionMinChars int
	PerPage            int
	FetchTimeout       time.Duration
}

// Coordinator turns typing, suggestion picks and scrolling into one
// ordered stream of session transitions
type Coordinator struct {
	// Services
	Session     *session.Service
	Suggestions *suggestions.Service
	Sentinel    *sentinel.Service
	Debouncer   *debounce.Service

	// Dependencies
	bus    eventbus.EventBus
	ownBus bool
	log    *logger.Logger

	opts      Options
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	visible   []string
	closeOnce sync.Once
}

// NewCoordinator creates a coordinator with all services wired together.
// A nil bus is replaced by a private one that Close shuts down.
func NewCoordinator(fetcher session.Fetcher, store kvstore.Store, bus eventbus.EventBus, log *logger.Logger, opts Options) *Coordinator {
	if log == nil {
		log = logger.Discard()
	}
	ownBus := bus == nil
	if ownBus {
		bus = eventbus.New(log)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		Session: session.NewService(fetcher, bus, log, session.Options{
			PerPage:      opts.PerPage,
			FetchTimeout: opts.FetchTimeout,
		}),
		Suggestions: suggestions.NewService(store, bus, log, opts.SuggestionMinChars),
		Debouncer:   debounce.NewService(),
		bus:         bus,
		ownBus:      ownBus,
		log:         log.WithComponent("coordinator"),
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
	}

	c.wireServices()
	return c
}

// wireServices connects services with their dependencies
func (c *Coordinator) wireServices() {
	c.Sentinel = sentinel.NewService(func() bool {
		return c.Session.Snapshot().Status == domain.StatusLoaded
	}, func() {
		c.OnScrollReachEnd()
	})

	c.Session.SetSuccessFunc(func(query string, page, count int) {
		if count > 0 {
			c.OnSuccessfulExplicitSearch(query)
		}
	})
}

// Start loads the first page of the recent feed
func (c *Coordinator) Start() error {
	return c.Session.Fetch(c.ctx, "", 1)
}

// OnTextChanged resets the session to text right away and schedules the
// first page fetch after the debounce window
func (c *Coordinator) OnTextChanged(text string) {
	query := c.resetTo(text)
	c.setSuggestions(query, c.Suggestions.Match(query))
}

// OnSuggestionSelected behaves like typing text but hides the suggestions
// instead of offering matches for the chosen entry
func (c *Coordinator) OnSuggestionSelected(text string) {
	query := c.resetTo(text)
	c.setSuggestions(query, nil)
}

func (c *Coordinator) resetTo(text string) string {
	query := strings.TrimSpace(text)
	c.Session.SetQuery(query)
	c.Sentinel.Detach()
	c.Debouncer.Schedule(func() {
		c.fetch(query, 1)
	}, c.opts.Debounce)
	return query
}

// OnScrollReachEnd fetches the next page immediately. It is ignored unless
// the current page has loaded and more may exist. Returns whether a fetch
// was issued.
func (c *Coordinator) OnScrollReachEnd() bool {
	snap := c.Session.Snapshot()
	if snap.Status != domain.StatusLoaded {
		return false
	}
	return c.fetch(snap.Query, snap.Page+1)
}

// OnSuccessfulExplicitSearch remembers a search that returned photos
func (c *Coordinator) OnSuccessfulExplicitSearch(query string) {
	if query == "" || c.Suggestions.Has(query) {
		return
	}
	c.Suggestions.Remember(query)
}

// Retry re-issues the request that failed
func (c *Coordinator) Retry() error {
	return c.Session.Retry(c.ctx)
}

// Flush runs a pending debounced fetch now
func (c *Coordinator) Flush() bool {
	return c.Debouncer.Flush()
}

// RegisterLastItem watches the element rendered for the last photo.
// An empty handle stops watching.
func (c *Coordinator) RegisterLastItem(handle string) {
	if handle == "" {
		c.Sentinel.Detach()
		return
	}
	c.Sentinel.Observe(sentinel.Handle(handle))
}

// ReportVisibility forwards a visibility change from the rendering layer
func (c *Coordinator) ReportVisibility(handle string, visible bool) bool {
	return c.Sentinel.Visibility(sentinel.Handle(handle), visible)
}

// Snapshot returns the current session state
func (c *Coordinator) Snapshot() domain.Snapshot {
	return c.Session.Snapshot()
}

// VisibleSuggestions returns the suggestions currently offered for the input
func (c *Coordinator) VisibleSuggestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.visible))
	copy(out, c.visible)
	return out
}

// Subscribe delivers every event the rendering layer needs to fn
func (c *Coordinator) Subscribe(fn eventbus.EventHandler) func() {
	types := []eventbus.EventType{
		eventbus.EventStateChanged,
		eventbus.EventSuggestionsChanged,
		eventbus.EventFetchCompleted,
		eventbus.EventStorageDegraded,
		eventbus.EventError,
	}
	unsubs := make([]func(), 0, len(types))
	for _, t := range types {
		unsubs = append(unsubs, c.bus.Subscribe(t, fn))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Close cancels the pending debounce, detaches the sentinel and abandons
// the in-flight request
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.Debouncer.Stop()
		c.Sentinel.Detach()
		c.cancel()
		c.Session.Close()
		if c.ownBus {
			c.bus.Close()
		}
	})
}

// fetch asks the session for a page. Rejections are expected when triggers
// race, so they are only logged.
func (c *Coordinator) fetch(query string, page int) bool {
	if err := c.Session.Fetch(c.ctx, query, page); err != nil {
		c.log.WithFields(logger.Fields{
			logger.FieldQuery: query,
			logger.FieldPage:  page,
		}).WithError(err).Debug("fetch rejected")
		return false
	}
	return true
}

func (c *Coordinator) setSuggestions(text string, list []string) {
	c.mu.Lock()
	if len(list) == 0 && len(c.visible) == 0 {
		c.mu.Unlock()
		return
	}
	c.visible = list
	c.mu.Unlock()

	c.bus.Publish(domain.SuggestionsChangedEvent{Text: text, Suggestions: list})
}
