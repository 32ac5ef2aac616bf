// Package httpclient provides a configurable HTTP client whose failures are
// fetch errors: every non-2xx response and every transport failure comes back
// as a *FetchError carrying the request, its options, the response (when one
// arrived), the status and the decoded body.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/users/123",
//	})
//	if err != nil {
//	    _ = dispatcher.Dispatch(err)
//	}
//
// # Typed Helpers
//
//	user, err := httpclient.Get[User](ctx, client, "/users/123")
package httpclient
