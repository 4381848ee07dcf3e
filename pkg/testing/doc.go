// Package testing provides a recording fake transport for exercising models
// and stores without a network.
//
// # Basic Usage
//
//	func TestExamples(t *testing.T) {
//	    tr := atesting.NewTransport()
//	    tr.On("GET", "/examples").
//	        WithJSON(map[string]any{"examples": []any{}, "current_page": 1}).
//	        Reply()
//
//	    m, _ := model.New(model.Config{Name: "example"}, model.WithTransport(tr))
//	    _, _ = m.Index(ctx, nil)
//
//	    tr.AssertCalled(t, "GET", "/examples")
//	}
//
// # Failures
//
//	tr.On("DELETE", "/examples/1").WithStatus(422).WithBody(`{"message":"locked"}`).Reply()
//	tr.On("GET", "/flaky").Fail(io.ErrUnexpectedEOF).Times(1).Reply()
//
// Responses outside 2xx are returned as *request.StatusError, the same way
// the real client reports them. Unmatched requests answer 404.
//
// # Assertions
//
//	tr.AssertCalledTimes(t, "PATCH", "/examples/5", 1)
//	tr.AssertNoCalls(t)
//	tr.LastRequest().AssertJSONBody(t, `{"example":{"id":5,"b":3}}`)
package testing
