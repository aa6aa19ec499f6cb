package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultMaxBodySize limits the response body size when no option is given.
const DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// StatusError reports a non-2xx HTTP response.
// It is distinguishable with errors.As so callers can treat HTTP-level
// failures as retryable while leaving other errors alone.
type StatusError struct {
	// URL is the fetched URL.
	URL string

	// Code is the HTTP status code.
	Code int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// Result holds a successful fetch response.
type Result struct {
	// StatusCode is the HTTP response status code (always 2xx).
	StatusCode int

	// ContentType is the MIME type from the Content-Type header.
	ContentType string

	// Body is the response body, truncated to the configured size limit.
	Body []byte
}

// Client fetches pages over HTTP with a fixed per-request timeout.
//
// Design decision: We accept an optional *http.Client rather than always
// building one because:
//  1. Tests can inject httptest clients
//  2. Callers can supply custom transports (connection pooling, proxies)
//  3. Consistent with how the rest of the codebase takes dependencies
type Client struct {
	// httpClient performs the requests. Its Timeout bounds each fetch.
	httpClient *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// headers are extra headers added to every request, e.g. from
	// per-site configuration.
	headers map[string]string

	// maxBodySize limits the number of body bytes read per response.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeaders sets extra headers added to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// NewClient creates a Client whose requests time out after the given duration.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		userAgent:   "docsink/1.0",
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch retrieves the page at the given URL.
// Network errors, timeouts, and non-2xx statuses all return a non-nil
// error; non-2xx statuses specifically return *StatusError.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read errors are what matter

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so keep-alive connections can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
		return nil, &StatusError{URL: pageURL, Code: resp.StatusCode}
	}

	// Decode legacy charsets (Latin-1, Shift-JIS, ...) to UTF-8 so the
	// parser and the converters downstream see one encoding.
	contentType := resp.Header.Get("Content-Type")
	reader, err := charset.NewReader(io.LimitReader(resp.Body, c.maxBodySize), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode body of %s: %w", pageURL, err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", pageURL, err)
	}

	return &Result{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}
