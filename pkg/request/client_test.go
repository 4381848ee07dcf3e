package request

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iboying/activestore/pkg/logging"
)

// mockServer creates a test server and a client pointed at it.
func mockServer(t *testing.T, handler http.HandlerFunc, opts ...Option) (*httptest.Server, *Client) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, New(ts.URL, opts...)
}

func TestNew(t *testing.T) {
	c := New("http://localhost:3000")
	if c.BaseURL() != "http://localhost:3000" {
		t.Errorf("baseURL = %q", c.BaseURL())
	}
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("default timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
}

func TestNew_WithTimeout(t *testing.T) {
	c := New("http://localhost:3000", WithTimeout(5*time.Second))
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.httpClient.Timeout)
	}
}

func TestDo_GetWithQuery(t *testing.T) {
	var gotURL *http.Request
	_, c := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	resp, err := c.Do(context.Background(), &Request{
		Method: http.MethodGet,
		Path:   "/projects/1/examples",
		Query:  Params{"page": 2, "ids": []int{1, 2}, "skip": nil},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, "/projects/1/examples", gotURL.URL.Path)
	assert.Equal(t, []string{"1", "2"}, gotURL.URL.Query()["ids[]"])
	assert.Equal(t, "2", gotURL.URL.Query().Get("page"))
	_, hasSkip := gotURL.URL.Query()["skip"]
	assert.False(t, hasSkip)
	assert.Equal(t, "application/json", gotURL.Header.Get("Accept"))
	assert.NotEmpty(t, gotURL.Header.Get(HeaderRequestID))
}

func TestDo_PostsJSONBody(t *testing.T) {
	var body map[string]any
	var contentType string
	_, c := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	resp, err := c.Do(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/examples",
		Body:   map[string]any{"example": map[string]any{"name": "x"}},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]any{"example": map[string]any{"name": "x"}}, body)

	a, err := resp.Attributes()
	require.NoError(t, err)
	id, ok := a.ID()
	assert.True(t, ok)
	assert.Equal(t, "1", id.String())
}

func TestDo_TokenHeader(t *testing.T) {
	var auth string
	_, c := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get(HeaderAuthorization)
	}, WithToken("secret"))

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, "Token secret", auth)

	// An explicit header on the call wins.
	_, err = c.Do(context.Background(), (&Request{Method: http.MethodGet, Path: "/x"}).
		Apply(WithRequestHeader(HeaderAuthorization, "Bearer other")))
	require.NoError(t, err)
	assert.Equal(t, "Bearer other", auth)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var auth string
	_, c := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get(HeaderAuthorization)
	})

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestDo_StatusError(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatText, Output: &logs})

	_, c := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no such example"}`))
	}, WithLogger(logger))

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/examples/9"})
	assert.Nil(t, resp)
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Error(), "no such example")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, http.StatusNotFound, se.Response().StatusCode)
	assert.Contains(t, logs.String(), "resource not found")
}

func TestDo_UnauthorizedLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelError, Output: &logs})

	_, c := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithLogger(logger))

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, logs.String(), "unauthorized")
}

func TestDo_ConnectionRefused(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	assert.Error(t, err)
}

func TestDo_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	_, c := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}, WithMetrics(m))

	_, _ = c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/ok"})
	_, _ = c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/missing"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "404")))

	// A second client on the same registry shares the collectors.
	again, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, m.requests, again.requests)
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://api.test/", "/auth/session", "http://api.test/auth/session"},
		{"http://api.test/v2", "examples", "http://api.test/v2/examples"},
		{"http://api.test", "", "http://api.test"},
		{"", "/examples", "/examples"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinURL(tt.base, tt.path))
	}
}
