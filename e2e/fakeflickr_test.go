//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// FakeFlickr serves the two REST methods the app calls
type FakeFlickr struct {
	server *httptest.Server

	mu      sync.Mutex
	calls   map[string]int // "query/page" -> count
	failing map[string]bool
	total   int
}

type fakePhoto struct {
	ID     string `json:"id"`
	Owner  string `json:"owner"`
	Secret string `json:"secret"`
	Server string `json:"server"`
	Farm   int    `json:"farm"`
	Title  string `json:"title"`
}

// StartFakeFlickr starts the fake API. Queries named "sunset" have no
// results; every other query has total photos.
func (tf *TUITestFramework) StartFakeFlickr(total int) *FakeFlickr {
	f := &FakeFlickr{
		calls:   make(map[string]int),
		failing: make(map[string]bool),
		total:   total,
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	tf.flickr = f
	return f
}

// URL is the base URL to point the app at
func (f *FakeFlickr) URL() string {
	return f.server.URL
}

// Close stops the server
func (f *FakeFlickr) Close() {
	f.server.Close()
}

// Fail makes requests for query answer with an API error until Recover
func (f *FakeFlickr) Fail(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[query] = true
}

// Recover undoes Fail
func (f *FakeFlickr) Recover(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failing, query)
}

// Calls returns how many times query and page were requested
func (f *FakeFlickr) Calls(query string, page int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[query+"/"+strconv.Itoa(page)]
}

func (f *FakeFlickr) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("text")
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	f.mu.Lock()
	f.calls[query+"/"+strconv.Itoa(page)]++
	failing := f.failing[query]
	total := f.total
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"stat": "fail", "code": 105, "message": "Service currently unavailable",
		})
		return
	}
	if query == "sunset" {
		total = 0
	}

	photos := []fakePhoto{}
	for i := (page - 1) * perPage; i < page*perPage && i < total; i++ {
		id := fmt.Sprintf("%d", 50000+i)
		title := fmt.Sprintf("Photo %d", i+1)
		if query != "" {
			title = fmt.Sprintf("%s %d", query, i+1)
		}
		photos = append(photos, fakePhoto{
			ID: id, Owner: "owner@N01", Secret: "abc" + id, Server: "65535", Farm: 66, Title: title,
		})
	}
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"stat": "ok",
		"photos": map[string]interface{}{
			"page":    page,
			"pages":   pages,
			"perpage": perPage,
			"total":   strconv.Itoa(total),
			"photo":   photos,
		},
	})
}
