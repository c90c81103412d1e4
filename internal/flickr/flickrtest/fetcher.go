// Package flickrtest provides an in-memory photo source for tests.
package flickrtest

import (
	"context"
	"fmt"
	"sync"

	"photogrip/internal/domain"
)

// Call records one request made to a Fetcher
type Call struct {
	Query   string
	Page    int
	PerPage int
}

// HandlerFunc answers a request
type HandlerFunc func(ctx context.Context, call Call) (domain.PhotoPage, error)

// Fetcher answers Recent and Search through a handler and records every call
type Fetcher struct {
	mu      sync.Mutex
	calls   []Call
	handler HandlerFunc
}

// NewFetcher creates a fetcher backed by handler. A nil handler serves an
// endless feed of full pages.
func NewFetcher(handler HandlerFunc) *Fetcher {
	if handler == nil {
		handler = func(_ context.Context, c Call) (domain.PhotoPage, error) {
			return FullPage(c.Query, c.Page, c.PerPage, 1000), nil
		}
	}
	return &Fetcher{handler: handler}
}

func (f *Fetcher) Recent(ctx context.Context, page, perPage int) (domain.PhotoPage, error) {
	return f.do(ctx, Call{Page: page, PerPage: perPage})
}

func (f *Fetcher) Search(ctx context.Context, text string, page, perPage int) (domain.PhotoPage, error) {
	return f.do(ctx, Call{Query: text, Page: page, PerPage: perPage})
}

func (f *Fetcher) do(ctx context.Context, c Call) (domain.PhotoPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	h := f.handler
	f.mu.Unlock()
	return h(ctx, c)
}

// Calls returns a copy of the recorded calls in arrival order
func (f *Fetcher) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsFor counts recorded calls for query and page
func (f *Fetcher) CallsFor(query string, page int) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Query == query && c.Page == page {
			n++
		}
	}
	return n
}

// Photos builds n valid photos whose ids are unique per query and page
func Photos(query string, page, n int) []domain.Photo {
	photos := make([]domain.Photo, n)
	for i := range photos {
		id := fmt.Sprintf("%s-%d-%d", query, page, i)
		photos[i] = domain.Photo{
			ID:     id,
			Owner:  "owner",
			Secret: "s" + id,
			Server: "65535",
			Farm:   66,
			Title:  fmt.Sprintf("photo %d of page %d", i, page),
		}
	}
	return photos
}

// FullPage returns a page of perPage photos from a result set of total items
func FullPage(query string, page, perPage, total int) domain.PhotoPage {
	pages := (total + perPage - 1) / perPage
	return domain.PhotoPage{
		Photos:  Photos(query, page, perPage),
		Page:    page,
		Pages:   pages,
		PerPage: perPage,
		Total:   total,
	}
}

// EmptyPage is the answer for a query without results
func EmptyPage(page, perPage int) domain.PhotoPage {
	return domain.PhotoPage{Page: page, PerPage: perPage}
}

// Gate blocks handlers until released, so tests can hold requests in flight
type Gate struct {
	ch   chan struct{}
	once sync.Once
}

// NewGate creates a closed gate
func NewGate() *Gate {
	return &Gate{ch: make(chan struct{})}
}

// Wait blocks until Release or ctx is done
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release unblocks every waiter, now and later
func (g *Gate) Release() {
	g.once.Do(func() { close(g.ch) })
}
