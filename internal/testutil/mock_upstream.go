package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/goccy/go-json"
)

// MockUpstream is a configurable fake of the proxied API. Handlers are
// keyed by path plus query string, matching how the proxy addresses
// upstream pages.
type MockUpstream struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	requests map[string]int
}

// NewMockUpstream creates and starts a mock upstream server.
func NewMockUpstream() *MockUpstream {
	mock := &MockUpstream{
		handlers: make(map[string]http.HandlerFunc),
		requests: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.RequestURI()

		mock.mu.Lock()
		mock.requests[uri]++
		handler, exists := mock.handlers[uri]
		mock.mu.Unlock()

		if !exists {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `{"detail": "Not found"}`)
			return
		}
		handler(w, r)
	}))

	return mock
}

// URL returns the mock server's base URL, used as the upstream host.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockUpstream) Close() {
	m.server.Close()
}

// SetHandler installs a custom handler for a path+query URI.
func (m *MockUpstream) SetHandler(uri string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[uri] = handler
}

// SetJSON installs a fixed JSON response for a path+query URI.
func (m *MockUpstream) SetJSON(uri string, status int, body string) {
	m.SetHandler(uri, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	})
}

// SetPagedCollection registers a collection endpoint split into pages
// of pageSize results, chained with next/previous cursors the way the
// upstream API paginates. path is the collection path, e.g. "/api/films".
func (m *MockUpstream) SetPagedCollection(path string, pageSize int, results []map[string]any) {
	total := len(results)
	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	for p := 1; p <= pages; p++ {
		lo := (p - 1) * pageSize
		hi := lo + pageSize
		if hi > total {
			hi = total
		}

		envelope := map[string]any{
			"count":    total,
			"next":     nil,
			"previous": nil,
			"results":  results[lo:hi],
		}
		if p < pages {
			envelope["next"] = fmt.Sprintf("%s%s/?page=%d", m.URL(), path, p+1)
		}
		if p > 1 {
			envelope["previous"] = fmt.Sprintf("%s%s/?page=%d", m.URL(), path, p-1)
		}

		body, err := json.Marshal(envelope)
		if err != nil {
			panic(err)
		}
		m.SetJSON(fmt.Sprintf("%s/?page=%d", path, p), http.StatusOK, string(body))
	}
}

// Requests returns how many times the given path+query URI was hit.
func (m *MockUpstream) Requests(uri string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[uri]
}

// TotalRequests returns the total number of requests served.
func (m *MockUpstream) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.requests {
		total += n
	}
	return total
}
