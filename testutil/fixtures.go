package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MinimalPDF is the smallest byte sequence sniffed as application/pdf
var MinimalPDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

// PostJSON returns a backend post object
func PostJSON(id, platform, postType string) map[string]interface{} {
	return map[string]interface{}{
		"id":            id,
		"platform":      platform,
		"post_type":     postType,
		"title":         "Title " + id,
		"body":          "Body of " + id,
		"author_handle": "u/author_" + id,
		"upvotes":       42,
		"timestamp":     "2h ago",
		"citations":     []string{"[1] source"},
		"comments": []map[string]interface{}{
			{"id": id + "-c1", "author_handle": "u/commenter", "body": "Nice", "upvotes": 3, "citations": []string{}},
		},
	}
}

// FeedJSON returns a generate-feed response with count posts p1..pN
func FeedJSON(sessionID, platform string, count int) map[string]interface{} {
	posts := make([]map[string]interface{}, 0, count)
	for i := 1; i <= count; i++ {
		posts = append(posts, PostJSON(fmt.Sprintf("p%d", i), platform, "question"))
	}
	return map[string]interface{}{
		"session_id": sessionID,
		"platform":   platform,
		"posts":      posts,
	}
}

// RecordedRequest is one request seen by a BackendServer
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// BackendServer is a scripted stand-in for the generation backend
type BackendServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewBackendServer starts a server that answers 404 for unscripted routes
func NewBackendServer(t *testing.T) *BackendServer {
	t.Helper()
	bs := &BackendServer{handlers: make(map[string]http.HandlerFunc)}
	bs.Server = httptest.NewServer(http.HandlerFunc(bs.serve))
	t.Cleanup(bs.Close)
	return bs
}

// Handle scripts a route, keyed by "METHOD /path"
func (bs *BackendServer) Handle(route string, h http.HandlerFunc) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.handlers[route] = h
}

// HandleJSON scripts a route to answer with a JSON body
func (bs *BackendServer) HandleJSON(route string, status int, body interface{}) {
	bs.Handle(route, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Requests returns the requests seen so far
func (bs *BackendServer) Requests() []RecordedRequest {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return append([]RecordedRequest(nil), bs.requests...)
}

// LastRequest returns the most recent request
func (bs *BackendServer) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	reqs := bs.Requests()
	if len(reqs) == 0 {
		t.Fatalf("no requests recorded")
	}
	return reqs[len(reqs)-1]
}

func (bs *BackendServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	bs.mu.Lock()
	bs.requests = append(bs.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := bs.handlers[r.Method+" "+r.URL.Path]
	bs.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}
	h(w, r)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
