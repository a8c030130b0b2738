package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
)

// Call is one request received by a FakeSyncServer.
type Call struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// Decode unmarshals the request body into v and fails the test on error.
func (c Call) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(c.Body, v); err != nil {
		t.Fatalf("decode %s %s body: %v", c.Method, c.Path, err)
	}
}

// FakeSyncServer is an httptest server standing in for the sync server API.
// Routes are keyed by exact method and path; unmatched requests get a JSON 404.
type FakeSyncServer struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []Call
}

// NewFakeSyncServer starts a fake server that is closed when t finishes.
func NewFakeSyncServer(t *testing.T) *FakeSyncServer {
	t.Helper()
	f := &FakeSyncServer{routes: make(map[string]http.HandlerFunc)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Handle installs h for method and path, replacing any previous handler.
func (f *FakeSyncServer) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// JSON answers method and path with status and v encoded as JSON.
func (f *FakeSyncServer) JSON(method, path string, status int, v any) {
	f.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, v)
	})
}

// Error answers method and path with the sync server's error body.
func (f *FakeSyncServer) Error(method, path string, status int, msg string) {
	f.JSON(method, path, status, map[string]any{"error": msg, "code": status})
}

// Calls returns the recorded requests for method and path.
func (f *FakeSyncServer) Calls(method, path string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times method and path were requested.
func (f *FakeSyncServer) Count(method, path string) int {
	return len(f.Calls(method, path))
}

// AllCalls returns every recorded request in arrival order.
func (f *FakeSyncServer) AllCalls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *FakeSyncServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	f.mu.Lock()
	f.calls = append(f.calls, Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	h := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if h == nil {
		WriteJSON(w, http.StatusNotFound, map[string]any{"error": "not found", "code": http.StatusNotFound})
		return
	}
	h(w, r)
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewClient returns a sync API client pointed at f.
func (f *FakeSyncServer) NewClient(t *testing.T) *syncapi.Client {
	t.Helper()
	c, err := syncapi.New(syncapi.Config{BaseURL: f.URL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("syncapi.New: %v", err)
	}
	return c
}
