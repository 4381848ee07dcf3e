package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// RouteBuilder configures a scripted response using a fluent API.
type RouteBuilder struct {
	transport *Transport
	route     *route
	err       error
}

type route struct {
	method string
	path   string
	status int
	header http.Header
	body   []byte
	fail   error
	times  int // 0 means unlimited
	hits   int
}

// setError records the first error encountered during building.
func (b *RouteBuilder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns any error encountered during building.
func (b *RouteBuilder) Err() error {
	return b.err
}

// WithStatus sets the response status code. Default is 200.
func (b *RouteBuilder) WithStatus(status int) *RouteBuilder {
	b.route.status = status
	return b
}

// WithHeader sets a response header.
func (b *RouteBuilder) WithHeader(key, value string) *RouteBuilder {
	b.route.header.Set(key, value)
	return b
}

// WithBody sets the raw response body.
func (b *RouteBuilder) WithBody(body string) *RouteBuilder {
	b.route.body = []byte(body)
	return b
}

// WithJSON JSON-encodes v as the response body.
func (b *RouteBuilder) WithJSON(v any) *RouteBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.setError(fmt.Errorf("WithJSON: failed to marshal body: %w", err))
		return b
	}
	b.route.body = data
	if b.route.header.Get("Content-Type") == "" {
		b.route.header.Set("Content-Type", "application/json")
	}
	return b
}

// Fail makes the route return err instead of a response.
func (b *RouteBuilder) Fail(err error) *RouteBuilder {
	b.route.fail = err
	return b
}

// Times limits how often the route answers before falling through.
func (b *RouteBuilder) Times(n int) *RouteBuilder {
	b.route.times = n
	return b
}

// Reply registers the route. It panics on a builder error so test setup
// mistakes surface immediately.
func (b *RouteBuilder) Reply() *Transport {
	if b.err != nil {
		panic(b.err)
	}
	b.transport.mu.Lock()
	defer b.transport.mu.Unlock()
	b.transport.routes = append(b.transport.routes, b.route)
	return b.transport
}
