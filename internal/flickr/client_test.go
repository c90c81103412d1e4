package flickr

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second})
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprint(w, body)
}

func TestRecentSendsExpectedParameters(t *testing.T) {
	var got map[string]string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"method":         q.Get("method"),
			"api_key":        q.Get("api_key"),
			"page":           q.Get("page"),
			"per_page":       q.Get("per_page"),
			"format":         q.Get("format"),
			"nojsoncallback": q.Get("nojsoncallback"),
		}
		assert.False(t, q.Has("text"))
		writeJSON(w, `{"photos":{"page":2,"pages":10,"perpage":12,"total":120,"photo":[
			{"id":"1","owner":"o1","secret":"s1","server":"65535","farm":66,"title":"first"},
			{"id":"2","owner":"o2","secret":"s2","server":"65535","farm":66,"title":""}
		]},"stat":"ok"}`)
	})

	page, err := client.Recent(context.Background(), 2, 12)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"method":         MethodRecent,
		"api_key":        "test-key",
		"page":           "2",
		"per_page":       "12",
		"format":         "json",
		"nojsoncallback": "1",
	}, got)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Pages)
	assert.Equal(t, 120, page.Total)
	require.Len(t, page.Photos, 2)
	assert.Equal(t, "first", page.Photos[0].Title)
	assert.Equal(t, "https://live.staticflickr.com/65535/1_s1.jpg", page.Photos[0].URL())
}

func TestSearchSendsText(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MethodSearch, r.URL.Query().Get("method"))
		assert.Equal(t, "red panda", r.URL.Query().Get("text"))
		writeJSON(w, `{"photos":{"page":1,"pages":0,"perpage":12,"total":"0","photo":[]},"stat":"ok"}`)
	})

	page, err := client.Search(context.Background(), "red panda", 1, 12)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Photos)
}

func TestStringTotalsAreParsed(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"photos":{"page":"1","pages":"3","perpage":"12","total":"31","photo":[]},"stat":"ok"}`)
	})

	page, err := client.Search(context.Background(), "cats", 1, 12)
	require.NoError(t, err)
	assert.Equal(t, 31, page.Total)
	assert.Equal(t, 3, page.Pages)
}

func TestInvalidPhotosAreDropped(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"photos":{"page":1,"pages":1,"perpage":12,"total":2,"photo":[
			{"id":"1","secret":"s","server":"1"},
			{"id":"2","secret":"","server":"1"}
		]},"stat":"ok"}`)
	})

	page, err := client.Recent(context.Background(), 1, 12)
	require.NoError(t, err)
	require.Len(t, page.Photos, 1)
	assert.Equal(t, "1", page.Photos[0].ID)
}

func TestFailuresAreTransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		apiCode int
	}{
		{
			name: "api failure envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, `{"stat":"fail","code":100,"message":"Invalid API Key (Key has invalid format)"}`)
			},
			apiCode: 100,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", http.StatusInternalServerError)
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = fmt.Fprint(w, "<html>maintenance</html>")
			},
		},
		{
			name: "missing photos",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, `{"stat":"ok"}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, tt.handler)
			_, err := client.Recent(context.Background(), 1, 12)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTransport))

			if tt.apiCode != 0 {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.apiCode, apiErr.Code)
			}
		})
	}
}

func TestNetworkErrorIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: url, APIKey: "k", Timeout: time.Second})
	_, err := client.Recent(context.Background(), 1, 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestContextCancellation(t *testing.T) {
	release := make(chan struct{})
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Recent(ctx, 1, 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestIdenticalConcurrentRequestsShareOneRoundTrip(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		writeJSON(w, `{"photos":{"page":1,"pages":1,"perpage":12,"total":1,"photo":[{"id":"1","secret":"s","server":"1"}]},"stat":"ok"}`)
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := client.Search(context.Background(), "cats", 1, 12)
			assert.NoError(t, err)
			assert.Len(t, page.Photos, 1)
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&hits) >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCancelledCallerDoesNotFailSharedRequest(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		writeJSON(w, `{"photos":{"page":1,"pages":1,"perpage":12,"total":1,"photo":[{"id":"1","secret":"s","server":"1"}]},"stat":"ok"}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	leader := make(chan error, 1)
	go func() {
		_, err := client.Search(ctx, "cats", 1, 12)
		leader <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&hits) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-leader:
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTransport))
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	follower := make(chan struct{})
	go func() {
		defer close(follower)
		page, err := client.Search(context.Background(), "cats", 1, 12)
		assert.NoError(t, err)
		assert.Len(t, page.Photos, 1)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	<-follower

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRateLimiterSpacesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"photos":{"page":1,"pages":1,"perpage":12,"total":0,"photo":[]},"stat":"ok"}`)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "k", RequestsPerSecond: 10})
	start := time.Now()
	for page := 1; page <= 3; page++ {
		_, err := client.Recent(context.Background(), page, 12)
		require.NoError(t, err)
	}
	// burst of 10 lets the first requests through immediately
	assert.Less(t, time.Since(start), time.Second)

	slow := NewClient(Config{BaseURL: srv.URL, APIKey: "k", RequestsPerSecond: 0.5})
	_, err := slow.Recent(context.Background(), 1, 12)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = slow.Recent(ctx, 2, 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}
