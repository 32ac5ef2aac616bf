package httpclient

import (
	"net/http"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method. Defaults to GET.
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, string, or any value
	// that will be JSON-encoded.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// RequestOptions records how a request was sent. It is attached to every
// FetchError as its options.
type RequestOptions struct {
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	BaseURL string            `json:"baseURL,omitempty"`
	Timeout string            `json:"timeout,omitempty"`
}

// Response is the result of an HTTP request. Its JSON names match a fetch
// response (status, statusText, headers, ok) with the decoded body as _data.
type Response struct {
	// Status is the HTTP status code.
	Status int `json:"status"`
	// StatusText is the reason phrase, e.g. "Not Found".
	StatusText string `json:"statusText"`
	// Headers are the response headers.
	Headers map[string]string `json:"headers"`
	// OK is true for 2xx statuses.
	OK bool `json:"ok"`
	// Body is the raw response body.
	Body []byte `json:"-"`
	// Data is the body decoded as JSON, or the body text when it is not JSON.
	Data any `json:"_data,omitempty"`
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.Status >= 400
}

func newResponse(resp *http.Response, body []byte) *Response {
	return &Response{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    flattenHeaders(resp.Header),
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Body:       body,
		Data:       decodeBody(resp.Header.Get("Content-Type"), body),
	}
}
