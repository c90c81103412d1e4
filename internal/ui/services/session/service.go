package session

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"photogrip/internal/domain"
	"photogrip/internal/eventbus"
	"photogrip/internal/logger"
)

// Service owns the state of a single search session: the current query,
// the pages loaded so far and the one request that may be in flight.
//
// Every response is matched against the request the session is waiting
// for. Responses for an abandoned query or page are dropped.
type Service struct {
	mu        sync.Mutex
	state     *State
	inflight  *request
	cancel    context.CancelFunc
	closed    bool
	wg        sync.WaitGroup
	fetcher   Fetcher
	bus       eventbus.EventBus
	log       *logger.Logger
	opts      Options
	onSuccess SuccessFunc
}

// NewService creates an idle session for the recent feed
func NewService(fetcher Fetcher, bus eventbus.EventBus, log *logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if opts.PerPage <= 0 {
		opts.PerPage = PerPage
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Service{
		state:   &State{Page: 1, Status: domain.StatusIdle},
		fetcher: fetcher,
		bus:     bus,
		log:     log.WithComponent("session"),
		opts:    opts,
	}
}

// SetSuccessFunc registers fn to run after each applied successful page
func (s *Service) SetSuccessFunc(fn SuccessFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSuccess = fn
}

// SetQuery resets the session to query. Results are cleared, page goes back
// to 1 and any in-flight response becomes stale.
func (s *Service) SetQuery(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.dropInflightLocked()
	s.state.Generation++
	s.state.Query = query
	s.state.Page = 1
	s.state.Results = nil
	s.state.Status = domain.StatusIdle
	s.state.Err = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.WithFields(logger.Fields{
		logger.FieldQuery:      query,
		logger.FieldGeneration: snap.Generation,
	}).Debug("session reset")
	s.publish(domain.StateChangedEvent{Snapshot: snap})
}

// Fetch starts loading page of query in the background. The page must be
// the current one when idle or errored, or the next one once loaded.
func (s *Service) Fetch(ctx context.Context, query string, page int) error {
	s.mu.Lock()
	if err := s.checkFetchLocked(query, page); err != nil {
		s.mu.Unlock()
		return err
	}

	req := request{generation: s.state.Generation, query: query, page: page}
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	s.inflight = &req
	s.cancel = cancel
	s.state.Page = page
	s.state.Status = domain.StatusLoading
	s.state.Err = nil
	snap := s.snapshotLocked()
	s.wg.Add(1)
	s.mu.Unlock()

	s.log.WithFields(logger.Fields{
		logger.FieldQuery: query,
		logger.FieldPage:  page,
	}).Debug("fetch started")
	s.publish(domain.FetchStartedEvent{Query: query, Page: page})
	s.publish(domain.StateChangedEvent{Snapshot: snap})

	go s.run(fetchCtx, cancel, req)
	return nil
}

// Retry re-issues the request that failed last
func (s *Service) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Status != domain.StatusErrored {
		s.mu.Unlock()
		return ErrNothingToRetry
	}
	query, page := s.state.Query, s.state.Page
	s.mu.Unlock()
	return s.Fetch(ctx, query, page)
}

// Snapshot returns a copy of the current state
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Wait blocks until no fetch goroutine is running
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close cancels the in-flight request and waits for it to finish.
// Later calls to Fetch return ErrClosed.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.dropInflightLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) checkFetchLocked(query string, page int) error {
	switch {
	case s.closed:
		return ErrClosed
	case query != s.state.Query:
		return errors.Wrapf(ErrStaleQuery, "fetch %q while session holds %q", query, s.state.Query)
	}

	switch s.state.Status {
	case domain.StatusLoading:
		return ErrBusy
	case domain.StatusExhausted:
		return ErrExhausted
	case domain.StatusLoaded:
		if page != s.state.Page+1 {
			return errors.Wrapf(ErrPageOutOfOrder, "page %d after %d", page, s.state.Page)
		}
	default:
		if page != s.state.Page {
			return errors.Wrapf(ErrPageOutOfOrder, "page %d, expected %d", page, s.state.Page)
		}
	}
	return nil
}

func (s *Service) run(ctx context.Context, cancel context.CancelFunc, req request) {
	defer s.wg.Done()
	defer cancel()

	start := time.Now()
	page, err := s.call(ctx, req)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = errors.Wrapf(err, "page %d timed out after %s", req.page, s.opts.FetchTimeout)
	}
	s.complete(req, page, err, time.Since(start))
}

// call never panics; a panicking fetcher is reported as an error
func (s *Service) call(ctx context.Context, req request) (page domain.PhotoPage, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("stack", string(debug.Stack())).Errorf("fetcher panicked: %v", r)
			err = errors.Newf("fetcher panicked: %v", r)
		}
	}()

	if req.query == "" {
		return s.fetcher.Recent(ctx, req.page, s.opts.PerPage)
	}
	return s.fetcher.Search(ctx, req.query, req.page, s.opts.PerPage)
}

func (s *Service) complete(req request, page domain.PhotoPage, err error, elapsed time.Duration) {
	fields := logger.Fields{
		logger.FieldQuery:      req.query,
		logger.FieldPage:       req.page,
		logger.FieldGeneration: req.generation,
		logger.FieldDurationMs: elapsed.Milliseconds(),
	}

	s.mu.Lock()
	if s.inflight == nil || *s.inflight != req {
		s.mu.Unlock()
		s.log.WithFields(fields).Debug("discarding stale response")
		return
	}
	s.inflight = nil
	s.cancel = nil

	count := len(page.Photos)
	switch {
	case err != nil:
		s.state.Status = domain.StatusErrored
		s.state.Err = err
	case count == 0 && page.Total == 0:
		s.state.Status = domain.StatusExhausted
	default:
		s.state.Status = domain.StatusLoaded
		s.state.Results = append(s.state.Results, page.Photos...)
	}
	snap := s.snapshotLocked()
	onSuccess := s.onSuccess
	s.mu.Unlock()

	if err != nil {
		s.log.WithFields(fields).WithError(err).Warn("fetch failed")
	} else {
		fields[logger.FieldCount] = count
		fields[logger.FieldTotal] = page.Total
		s.log.WithFields(fields).Debug("fetch completed")
	}

	s.publish(domain.FetchCompletedEvent{
		Query: req.query,
		Page:  req.page,
		Count: count,
		Total: page.Total,
		Err:   err,
	})
	s.publish(domain.StateChangedEvent{Snapshot: snap})

	if err == nil && onSuccess != nil {
		onSuccess(req.query, req.page, count)
	}
}

func (s *Service) dropInflightLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	s.inflight = nil
	s.cancel = nil
}

func (s *Service) snapshotLocked() domain.Snapshot {
	results := make([]domain.Photo, len(s.state.Results))
	copy(results, s.state.Results)
	status := s.state.Status
	return domain.Snapshot{
		Query:      s.state.Query,
		Page:       s.state.Page,
		Results:    results,
		Status:     status,
		Loading:    status == domain.StatusLoading,
		Exhausted:  status == domain.StatusExhausted,
		Errored:    status == domain.StatusErrored,
		Err:        s.state.Err,
		Generation: s.state.Generation,
	}
}

func (s *Service) publish(event domain.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
