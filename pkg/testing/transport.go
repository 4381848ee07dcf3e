package testing

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/iboying/activestore/pkg/request"
)

// Transport is an in-memory model.Transport that records every request.
type Transport struct {
	mu       sync.Mutex
	routes   []*route
	requests []*RequestLog
}

// NewTransport creates an empty transport. Unmatched requests answer 404.
func NewTransport() *Transport {
	return &Transport{}
}

// On starts configuring the response for method and path.
func (tr *Transport) On(method, path string) *RouteBuilder {
	return &RouteBuilder{
		transport: tr,
		route: &route{
			method: strings.ToUpper(method),
			path:   path,
			status: http.StatusOK,
			header: make(http.Header),
		},
	}
}

// Do records req and answers from the first matching route with remaining
// uses.
func (tr *Transport) Do(ctx context.Context, req *request.Request) (*request.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := newRequestLog(req)

	tr.mu.Lock()
	tr.requests = append(tr.requests, log)
	var matched *route
	for _, r := range tr.routes {
		if r.method != log.Method || r.path != log.Path {
			continue
		}
		if r.times > 0 && r.hits >= r.times {
			continue
		}
		r.hits++
		matched = r
		break
	}
	tr.mu.Unlock()

	if matched == nil {
		return nil, &request.StatusError{
			Method:     log.Method,
			URL:        log.Path,
			StatusCode: http.StatusNotFound,
			Body:       []byte(`{"error":"no route"}`),
		}
	}
	if matched.fail != nil {
		return nil, matched.fail
	}
	if matched.status < 200 || matched.status >= 300 {
		return nil, &request.StatusError{
			Method:     log.Method,
			URL:        log.Path,
			StatusCode: matched.status,
			Header:     matched.header.Clone(),
			Body:       append([]byte(nil), matched.body...),
		}
	}
	return &request.Response{
		StatusCode: matched.status,
		Header:     matched.header.Clone(),
		Body:       append([]byte(nil), matched.body...),
	}, nil
}

// Requests returns the recorded requests in order.
func (tr *Transport) Requests() []*RequestLog {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]*RequestLog(nil), tr.requests...)
}

// LastRequest returns the most recent request, or nil.
func (tr *Transport) LastRequest() *RequestLog {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.requests) == 0 {
		return nil
	}
	return tr.requests[len(tr.requests)-1]
}

// Calls returns the number of recorded requests.
func (tr *Transport) Calls() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.requests)
}

// Reset clears routes and recorded requests.
func (tr *Transport) Reset() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.routes = nil
	tr.requests = nil
}

func (tr *Transport) count(method, path string) int {
	method = strings.ToUpper(method)
	n := 0
	for _, r := range tr.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// AssertCalled asserts at least one request hit method and path.
func (tr *Transport) AssertCalled(t testing.TB, method, path string) {
	t.Helper()
	if tr.count(method, path) == 0 {
		t.Errorf("expected %s %s to be called, recorded: %s", method, path, tr.summary())
	}
}

// AssertCalledTimes asserts exactly n requests hit method and path.
func (tr *Transport) AssertCalledTimes(t testing.TB, method, path string, n int) {
	t.Helper()
	if got := tr.count(method, path); got != n {
		t.Errorf("expected %s %s to be called %d times, got %d", method, path, n, got)
	}
}

// AssertNotCalled asserts no request hit method and path.
func (tr *Transport) AssertNotCalled(t testing.TB, method, path string) {
	t.Helper()
	if got := tr.count(method, path); got != 0 {
		t.Errorf("expected %s %s not to be called, got %d calls", method, path, got)
	}
}

// AssertNoCalls asserts nothing was sent at all.
func (tr *Transport) AssertNoCalls(t testing.TB) {
	t.Helper()
	if n := tr.Calls(); n != 0 {
		t.Errorf("expected no requests, got %d: %s", n, tr.summary())
	}
}

func (tr *Transport) summary() string {
	var parts []string
	for _, r := range tr.Requests() {
		parts = append(parts, r.Method+" "+r.Path)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func newRequestLog(req *request.Request) *RequestLog {
	log := &RequestLog{
		Method:      strings.ToUpper(req.Method),
		Path:        req.Path,
		Headers:     make(map[string]string),
		QueryString: request.EncodeQuery(req.Query),
		Query:       req.Query,
	}
	for k, v := range req.Header {
		if len(v) > 0 {
			log.Headers[k] = v[0]
		}
	}
	if req.Body != nil {
		if data, err := json.Marshal(req.Body); err == nil {
			log.Body = string(data)
		}
	}
	return log
}
