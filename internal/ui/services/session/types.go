package session

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"photogrip/internal/domain"
)

// PerPage is the page size used for both the recent feed and searches
const PerPage = 12

// DefaultFetchTimeout bounds a single page request
const DefaultFetchTimeout = 15 * time.Second

var (
	ErrBusy           = errors.New("session: a page is already loading")
	ErrStaleQuery     = errors.New("session: query is no longer current")
	ErrExhausted      = errors.New("session: no more pages")
	ErrPageOutOfOrder = errors.New("session: page out of order")
	ErrNothingToRetry = errors.New("session: nothing to retry")
	ErrClosed         = errors.New("session: closed")
)

// Fetcher retrieves pages of photos. An empty query is never passed to Search.
type Fetcher interface {
	Recent(ctx context.Context, page, perPage int) (domain.PhotoPage, error)
	Search(ctx context.Context, text string, page, perPage int) (domain.PhotoPage, error)
}

// SuccessFunc is called after a page for the current query has been applied
type SuccessFunc func(query string, page, count int)

// Options configures a Service
type Options struct {
	PerPage      int
	FetchTimeout time.Duration
}

// State holds the session state
type State struct {
	Query      string
	Page       int
	Results    []domain.Photo
	Status     domain.Status
	Err        error
	Generation uint64
}

// request identifies one in-flight fetch
type request struct {
	generation uint64
	query      string
	page       int
}
