package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates a client-side error (other 4xx, bad request).
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// FetchName is the name reported by every FetchError.
const FetchName = "FetchError"

// FetchError is returned for non-2xx responses and transport failures. Its
// fields mirror a fetch error: request, options, response, status,
// statusText and data.
type FetchError struct {
	// Request is the resolved request URL.
	Request string `json:"request"`
	// Options describes how the request was sent.
	Options *RequestOptions `json:"options"`
	// Response is nil when no response arrived.
	Response *Response `json:"response,omitempty"`
	// Status is the HTTP status (0 when no response arrived).
	Status int `json:"status,omitempty"`
	// StatusText is the reason phrase.
	StatusText string `json:"statusText,omitempty"`
	// Data is the decoded response body.
	Data any `json:"data,omitempty"`
	// Code classifies the failure.
	Code ErrorCode `json:"-"`
	// Cause is the underlying transport error, if any.
	Cause error `json:"-"`

	message string
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return e.message
}

// Name returns FetchName.
func (e *FetchError) Name() string {
	return FetchName
}

// Unwrap returns the underlying transport error.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// newStatusError builds the error for a completed request with a non-2xx status.
func newStatusError(url string, opts *RequestOptions, resp *Response) *FetchError {
	e := &FetchError{
		Request:    url,
		Options:    opts,
		Response:   resp,
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Data:       resp.Data,
		Code:       classifyStatus(resp.Status),
	}
	e.message = fetchMessage(opts.Method, url, fmt.Sprintf("%d %s", resp.Status, resp.StatusText))
	return e
}

// newTransportError builds the error for a request that got no response.
func newTransportError(url string, opts *RequestOptions, code ErrorCode, cause error) *FetchError {
	e := &FetchError{
		Request: url,
		Options: opts,
		Code:    code,
		Cause:   cause,
	}
	e.message = fetchMessage(opts.Method, url, "<no response> "+cause.Error())
	return e
}

func fetchMessage(method, url, suffix string) string {
	return fmt.Sprintf("[%s] %q: %s", strings.ToUpper(method), url, suffix)
}

// classifyStatus maps a non-2xx status to an error code.
func classifyStatus(statusCode int) ErrorCode {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrCodeAuth
	case statusCode == http.StatusNotFound:
		return ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		return ErrCodeTimeout
	case statusCode >= 400 && statusCode < 500:
		return ErrCodeValidation
	default:
		return ErrCodeServer
	}
}

// AsFetchError extracts a *FetchError from err's chain.
func AsFetchError(err error) (*FetchError, bool) {
	var e *FetchError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := AsFetchError(err)
	return ok && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsRateLimit checks if an error is a rate-limit error.
func IsRateLimit(err error) bool { return hasCode(err, ErrCodeRateLimit) }

// IsServerError checks if an error is a server error.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }
