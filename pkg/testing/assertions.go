package testing

import (
	"encoding/json"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/iboying/activestore/pkg/request"
)

// RequestLog is one recorded call.
type RequestLog struct {
	Method string
	Path   string
	// Headers hold the first value per key.
	Headers map[string]string
	// Body is the JSON encoding of the request body, empty when there was none.
	Body string
	// QueryString is the bracket-encoded query the real client would send.
	QueryString string
	Query       request.Params
}

// AssertJSONBody asserts that the body is JSON-equal to expected. expected
// may be a string, []byte or any value that will be JSON encoded.
func (r *RequestLog) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	var raw []byte
	switch v := expected.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			t.Errorf("failed to marshal expected value: %v", err)
			return
		}
		raw = data
	}

	var expectedJSON, actualJSON any
	if err := json.Unmarshal(raw, &expectedJSON); err != nil {
		t.Errorf("failed to parse expected JSON: %v", err)
		return
	}
	if err := json.Unmarshal([]byte(r.Body), &actualJSON); err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, r.Body)
		return
	}

	if !reflect.DeepEqual(actualJSON, expectedJSON) {
		expectedBytes, _ := json.MarshalIndent(expectedJSON, "", "  ")
		actualBytes, _ := json.MarshalIndent(actualJSON, "", "  ")
		t.Errorf("request body does not match expected JSON\nexpected:\n%s\nactual:\n%s",
			string(expectedBytes), string(actualBytes))
	}
}

// AssertNoBody asserts the request carried no body.
func (r *RequestLog) AssertNoBody(t testing.TB) {
	t.Helper()

	if r.Body != "" {
		t.Errorf("expected no request body, got %s", r.Body)
	}
}

// AssertHeader asserts a header value, matching the key case-insensitively.
func (r *RequestLog) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()

	actual, ok := r.header(key)
	if !ok {
		t.Errorf("request does not have header %q", key)
		return
	}
	if actual != expected {
		t.Errorf("header %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

func (r *RequestLog) header(key string) (string, bool) {
	if v, ok := r.Headers[key]; ok {
		return v, true
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// AssertQueryParam asserts a decoded query parameter, e.g. "page" or
// "filter[state]".
func (r *RequestLog) AssertQueryParam(t testing.TB, key, expected string) {
	t.Helper()

	params, err := url.ParseQuery(r.QueryString)
	if err != nil {
		t.Errorf("invalid query string %q: %v", r.QueryString, err)
		return
	}
	values, ok := params[key]
	if !ok {
		t.Errorf("request does not have query parameter %q (query: %s)", key, r.QueryString)
		return
	}
	if values[0] != expected {
		t.Errorf("query parameter %q value mismatch\nexpected: %q\nactual: %q", key, expected, values[0])
	}
}

// AssertMethod asserts the HTTP method.
func (r *RequestLog) AssertMethod(t testing.TB, expected string) {
	t.Helper()

	if !strings.EqualFold(r.Method, expected) {
		t.Errorf("request method mismatch\nexpected: %q\nactual: %q", expected, r.Method)
	}
}

// AssertPath asserts the request path.
func (r *RequestLog) AssertPath(t testing.TB, expected string) {
	t.Helper()

	if r.Path != expected {
		t.Errorf("request path mismatch\nexpected: %q\nactual: %q", expected, r.Path)
	}
}

// JSONField extracts a dot-separated field from the JSON body, or nil.
func (r *RequestLog) JSONField(field string) any {
	var current any
	if err := json.Unmarshal([]byte(r.Body), &current); err != nil {
		return nil
	}
	for _, part := range strings.Split(field, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[part]
	}
	return current
}

// AssertJSONField asserts a JSON field value. Numbers decode as float64.
func (r *RequestLog) AssertJSONField(t testing.TB, field string, expected any) {
	t.Helper()

	actual := r.JSONField(field)
	if actual == nil {
		t.Errorf("JSON field %q not found in request body: %s", field, r.Body)
		return
	}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("JSON field %q mismatch\nexpected: %v (%T)\nactual: %v (%T)",
			field, expected, expected, actual, actual)
	}
}
