package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iboying/activestore/pkg/attrs"
)

// Params are query parameters. Values may be scalars, slices or nested maps.
type Params map[string]any

// Request describes one HTTP call relative to the client's base URL.
type Request struct {
	Method string
	Path   string
	Query  Params
	// Body is JSON-encoded when non-nil.
	Body   any
	Header http.Header
}

// Response is the raw result of a call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Attributes decodes the body as a JSON object.
func (r *Response) Attributes() (attrs.Attributes, error) {
	return attrs.Parse(r.Body)
}

// CallOption adjusts a single request, like a per-call config.
type CallOption func(*Request)

// WithQuery merges extra query parameters into the request.
func WithQuery(p Params) CallOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(Params, len(p))
		}
		for k, v := range p {
			r.Query[k] = v
		}
	}
}

// WithBody sets the JSON body.
func WithBody(body any) CallOption {
	return func(r *Request) {
		r.Body = body
	}
}

// WithRequestHeader sets a header on the request.
func WithRequestHeader(key, value string) CallOption {
	return func(r *Request) {
		if r.Header == nil {
			r.Header = make(http.Header)
		}
		r.Header.Set(key, value)
	}
}

// Apply runs opts against r.
func (r *Request) Apply(opts ...CallOption) *Request {
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}
