package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
)

// TreeServer serves a fixture source tree over the same split protocol the
// fetch client speaks: a /repos/.../git/trees/<ref> listing endpoint plus
// per-file raw content paths.
type TreeServer struct {
	*httptest.Server

	mu        sync.Mutex
	files     map[string]string
	failPaths map[string]bool
	failList  bool
	requests  []string
}

// NewTreeServer starts a fixture server for the given path-to-content map.
// The server is shut down automatically when the test finishes.
func NewTreeServer(t *testing.T, files map[string]string) *TreeServer {
	t.Helper()

	ts := &TreeServer{
		files:     make(map[string]string, len(files)),
		failPaths: make(map[string]bool),
	}
	for p, c := range files {
		ts.files[p] = c
	}

	ts.Server = httptest.NewServer(http.HandlerFunc(ts.handle))
	t.Cleanup(ts.Server.Close)
	return ts
}

// FailPath makes raw requests for one file return a server error.
func (ts *TreeServer) FailPath(path string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.failPaths[path] = true
}

// FailListing makes the tree listing endpoint return a server error,
// simulating a fetch that yields zero files.
func (ts *TreeServer) FailListing(fail bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.failList = fail
}

// Requests returns the request paths seen so far, in arrival order.
func (ts *TreeServer) Requests() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.requests...)
}

func (ts *TreeServer) handle(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	ts.requests = append(ts.requests, r.URL.Path)
	failList := ts.failList
	ts.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/repos/") {
		if failList {
			http.Error(w, "listing unavailable", http.StatusInternalServerError)
			return
		}
		ts.serveListing(w)
		return
	}
	ts.serveRaw(w, r)
}

func (ts *TreeServer) serveListing(w http.ResponseWriter) {
	ts.mu.Lock()
	paths := make([]string, 0, len(ts.files))
	for p := range ts.files {
		paths = append(paths, p)
	}
	ts.mu.Unlock()
	sort.Strings(paths)

	type entry struct {
		Path string `json:"path"`
		Type string `json:"type"`
	}
	var resp struct {
		Tree []entry `json:"tree"`
	}
	for _, p := range paths {
		resp.Tree = append(resp.Tree, entry{Path: p, Type: "blob"})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (ts *TreeServer) serveRaw(w http.ResponseWriter, r *http.Request) {
	// Raw content paths look like /<owner>/<repo>/<ref>/<file path>.
	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 4)
	if len(parts) < 4 {
		http.NotFound(w, r)
		return
	}
	path := parts[3]

	ts.mu.Lock()
	content, ok := ts.files[path]
	fail := ts.failPaths[path]
	ts.mu.Unlock()

	if fail {
		http.Error(w, "blob unavailable", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(content))
}
