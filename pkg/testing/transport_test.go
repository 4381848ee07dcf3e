package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	stdtesting "testing"

	"github.com/iboying/activestore/pkg/request"
)

func TestTransport_ReplyJSON(t *stdtesting.T) {
	tr := NewTransport()
	tr.On("get", "/examples").WithJSON(map[string]any{"examples": []any{}}).Reply()

	resp, err := tr.Do(context.Background(), &request.Request{Method: "GET", Path: "/examples"})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"examples":[]}` {
		t.Errorf("Unexpected body %s", resp.Body)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got %q", resp.Header.Get("Content-Type"))
	}
	tr.AssertCalled(t, "GET", "/examples")
}

func TestTransport_StatusError(t *stdtesting.T) {
	tr := NewTransport()
	tr.On("DELETE", "/examples/1").WithStatus(422).WithBody(`{"message":"locked"}`).Reply()

	_, err := tr.Do(context.Background(), &request.Request{Method: "DELETE", Path: "/examples/1"})
	var se *request.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *request.StatusError, got %v", err)
	}
	if se.StatusCode != 422 {
		t.Errorf("Expected status 422, got %d", se.StatusCode)
	}
	if se.Error() != "DELETE /examples/1: status 422: locked" {
		t.Errorf("Unexpected error text %q", se.Error())
	}
}

func TestTransport_Unmatched(t *stdtesting.T) {
	tr := NewTransport()

	_, err := tr.Do(context.Background(), &request.Request{Method: "GET", Path: "/missing"})
	if !request.IsNotFound(err) {
		t.Errorf("Expected 404, got %v", err)
	}
	if tr.Calls() != 1 {
		t.Errorf("Unmatched requests should still be recorded")
	}
}

func TestTransport_TimesAndFail(t *stdtesting.T) {
	tr := NewTransport()
	tr.On("GET", "/flaky").Fail(io.ErrUnexpectedEOF).Times(1).Reply()
	tr.On("GET", "/flaky").WithBody(`{}`).Reply()

	ctx := context.Background()
	req := &request.Request{Method: "GET", Path: "/flaky"}
	if _, err := tr.Do(ctx, req); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("First call should fail, got %v", err)
	}
	if _, err := tr.Do(ctx, req); err != nil {
		t.Errorf("Second call should succeed, got %v", err)
	}
	tr.AssertCalledTimes(t, "GET", "/flaky", 2)
}

func TestTransport_CanceledContext(t *stdtesting.T) {
	tr := NewTransport()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tr.Do(ctx, &request.Request{Method: "GET", Path: "/"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	tr.AssertNoCalls(t)
}

func TestTransport_RecordsRequest(t *stdtesting.T) {
	tr := NewTransport()
	tr.On("PATCH", "/examples/5").WithBody(`{}`).Reply()

	req := &request.Request{
		Method: "PATCH",
		Path:   "/examples/5",
		Query:  request.Params{"page": 2, "filter": map[string]any{"state": "open"}},
		Body:   map[string]any{"example": map[string]any{"id": 5, "b": 3}},
	}
	req.Apply(request.WithRequestHeader("X-Trace", "abc"))
	if _, err := tr.Do(context.Background(), req); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	log := tr.LastRequest()
	log.AssertMethod(t, "PATCH")
	log.AssertPath(t, "/examples/5")
	log.AssertHeader(t, "x-trace", "abc")
	log.AssertQueryParam(t, "page", "2")
	log.AssertQueryParam(t, "filter[state]", "open")
	log.AssertJSONBody(t, `{"example":{"b":3,"id":5}}`)
	log.AssertJSONField(t, "example.b", float64(3))
}

func TestTransport_Reset(t *stdtesting.T) {
	tr := NewTransport()
	tr.On("GET", "/a").Reply()
	_, _ = tr.Do(context.Background(), &request.Request{Method: "GET", Path: "/a"})

	tr.Reset()
	tr.AssertNoCalls(t)
	if tr.LastRequest() != nil {
		t.Error("LastRequest() should be nil after Reset")
	}
	if _, err := tr.Do(context.Background(), &request.Request{Method: "GET", Path: "/a"}); !request.IsNotFound(err) {
		t.Errorf("Routes should be cleared, got %v", err)
	}
}

func TestBuilder_WithJSONError(t *stdtesting.T) {
	b := NewTransport().On("GET", "/").WithJSON(make(chan int))
	if b.Err() == nil {
		t.Fatal("Expected marshal error")
	}
	defer func() {
		if recover() == nil {
			t.Error("Reply() should panic on a builder error")
		}
	}()
	b.Reply()
}
