// Package request is the HTTP client every model talks through.
//
// It sends JSON bodies, serializes query parameters Rails-style
// (ids[]=1&ids[]=2, filter[name]=x, nil values dropped), adds an
// "Authorization: Token ..." header when a token is configured, tags each
// request with an X-Request-Id, and turns non-2xx responses into
// *StatusError values. Responses are returned raw; interpreting them is the
// caller's job.
//
//	client := request.New("https://api.example.com/v2",
//	    request.WithToken(token),
//	    request.WithLogger(logger),
//	)
//	resp, err := client.Do(ctx, &request.Request{Method: http.MethodGet, Path: "/users"})
package request
