package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iboying/activestore/pkg/logging"
	"github.com/iboying/activestore/pkg/util"
)

// Header names set by the client.
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-Id"
)

// DefaultTimeout is applied when no timeout option is given.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP client for a JSON REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	headers    http.Header
	logger     *slog.Logger
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sets the token sent as "Authorization: Token <token>".
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithLogger sets the logger used for failed responses and debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(logger)
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		headers: http.Header{"Accept": []string{"application/json"}},
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the address every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and returns the raw response. Responses outside 2xx are
// returned as *StatusError after being logged.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target := JoinURL(c.baseURL, req.Path)
	if q := EncodeQuery(req.Query); q != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + q
	}

	var body io.Reader
	if req.Body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req.Body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = &buf
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	c.prepare(httpReq, req, body != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.observe(req.Method, 0, time.Since(start))
		c.logger.Debug("request failed", "method", req.Method, "url", target, "error", err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	c.metrics.observe(req.Method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("request completed",
		"method", req.Method,
		"url", target,
		"status", resp.StatusCode,
		"requestId", httpReq.Header.Get(HeaderRequestID),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{
			Method:     req.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       data,
		}
		c.logFailure(serr)
		return nil, serr
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) prepare(httpReq *http.Request, req *Request, hasBody bool) {
	for key, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if hasBody && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.New().String())
	}
	if c.token != "" && httpReq.Header.Get(HeaderAuthorization) == "" {
		httpReq.Header.Set(HeaderAuthorization, "Token "+c.token)
	}
}

func (c *Client) logFailure(err *StatusError) {
	fields := []any{
		"method", err.Method,
		"url", err.URL,
		"status", err.StatusCode,
		"body", util.TruncateBody(string(err.Body), 512),
	}
	switch err.StatusCode {
	case http.StatusUnauthorized:
		c.logger.Error("unauthorized", fields...)
	case http.StatusNotFound:
		c.logger.Error("resource not found", fields...)
	case http.StatusInternalServerError:
		c.logger.Error("server error", fields...)
	default:
		c.logger.Debug("request rejected", fields...)
	}
}

// JoinURL joins a base URL and a path with exactly one slash between them.
func JoinURL(base, path string) string {
	if path == "" {
		return base
	}
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
