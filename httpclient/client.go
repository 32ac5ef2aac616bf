package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/errhandling/logger"
)

// HeaderRequestID is the header carrying the per-request ID.
const HeaderRequestID = "X-Request-Id"

// Client is a configurable HTTP client whose failures are *FetchError values.
type Client struct {
	httpClient *http.Client
	config     Config
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for request failures (debug level).
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.WithComponent("httpclient")
		}
	}
}

// WithTransport replaces the HTTP transport (tests, proxies).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// Do executes an HTTP request and returns the complete response. A non-2xx
// response is returned together with a *FetchError describing it.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	httpReq, opts, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	url := httpReq.URL.String()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		code := ErrCodeConnection
		if ctx.Err() != nil || isTimeout(err) {
			code = ErrCodeTimeout
		}
		fe := newTransportError(url, opts, code, err)
		c.logFailure(fe, start)
		return nil, fe
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fe := newTransportError(url, opts, ErrCodeConnection, fmt.Errorf("read response body: %w", err))
		c.logFailure(fe, start)
		return nil, fe
	}

	result := newResponse(resp, body)
	if !result.OK {
		fe := newStatusError(url, opts, result)
		c.logFailure(fe, start)
		return result, fe
	}
	return result, nil
}

func (c *Client) logFailure(fe *FetchError, start time.Time) {
	fields := logger.DurationFields("fetch", time.Since(start))
	fields[logger.FieldMethod] = fe.Options.Method
	fields[logger.FieldURL] = fe.Request
	fields[logger.FieldStatusCode] = fe.Status
	c.log.WithError(fe.Cause).Debug("request failed", fields)
}

// buildRequest constructs an *http.Request from the client config and request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, *RequestOptions, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("httpclient: encode body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.config.RequestID && httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	}

	// Options are captured before auth so credentials never end up in errors.
	opts := &RequestOptions{
		Method:  method,
		Headers: flattenHeaders(httpReq.Header),
		Query:   req.Query,
		BaseURL: c.config.BaseURL,
		Timeout: c.config.Timeout.String(),
	}

	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, opts, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// decodeBody parses JSON bodies; anything else is returned as text. An empty
// body decodes to nil.
func decodeBody(contentType string, body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") || json.Valid(body) {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
	}
	return string(body)
}

// statusText returns the reason phrase from the status line, falling back to
// the standard text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
