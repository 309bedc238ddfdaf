package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Mock is what both variants expose to steps and to the fixture layer.
type Mock interface {
	Register(endpoints ...Endpoint) error
	Endpoints() []Endpoint
	Requests() []Request
	// Reset drops registrations and the request journal.
	Reset()
	// Stop releases the mock. Calling it again is a no-op.
	Stop() error
}

// Request is a journal entry for one request the mock answered.
type Request struct {
	Method  string
	Path    string
	Query   string
	Body    []byte
	Status  int
	Matched bool
	At      time.Time
}

var notFoundBody = []byte(`{"error":"Endpoint not found"}`)

// table holds the endpoint list and request journal shared by Server and
// Interceptor.
type table struct {
	mu        sync.RWMutex
	endpoints []Endpoint
	requests  []Request
}

func (t *table) register(endpoints ...Endpoint) error {
	valid, err := Validate(endpoints)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.endpoints = append(t.endpoints, valid...)
	return nil
}

// match finds the first endpoint for method and path. The query string is
// not part of the match.
func (t *table) match(method, path string) (Endpoint, bool) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	method = strings.ToUpper(method)

	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, ep := range t.endpoints {
		if ep.Path == path && ep.Method == method {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// answer resolves a request to a status and body and journals it.
func (t *table) answer(method, path, query string, body []byte) (int, []byte) {
	ep, ok := t.match(method, path)
	status, payload := http.StatusNotFound, notFoundBody
	if ok {
		status = ep.Status
		encoded, err := json.Marshal(ep.Response)
		if err != nil {
			status, encoded = http.StatusInternalServerError, []byte(`{"error":"unencodable response"}`)
		}
		payload = encoded
	}

	t.mu.Lock()
	t.requests = append(t.requests, Request{
		Method:  method,
		Path:    path,
		Query:   query,
		Body:    body,
		Status:  status,
		Matched: ok,
		At:      time.Now(),
	})
	t.mu.Unlock()
	return status, payload
}

func (t *table) snapshotEndpoints() []Endpoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Endpoint(nil), t.endpoints...)
}

func (t *table) snapshotRequests() []Request {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Request(nil), t.requests...)
}

func (t *table) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.endpoints = nil
	t.requests = nil
}
