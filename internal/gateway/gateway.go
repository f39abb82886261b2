// Package gateway is the single outbound HTTP client for the backend.
// It resolves endpoint paths against a fixed base address, injects the
// session token and returns failures to the caller unmodified.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"

	"taskcli/internal/logging"
	"taskcli/internal/session"
)

// RequestIDHeader carries a per-request id for log correlation.
const RequestIDHeader = "X-Request-ID"

// NetworkError is a request that could not complete: the server was not
// reached or the response could not be read.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Client sends JSON requests to the backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the transport beneath the token injector.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport.(*Transport).Base = rt
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a gateway for baseURL reading tokens from store.
func New(baseURL string, store session.Store, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		base:   base,
		http:   &http.Client{Transport: &Transport{Store: store}},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the fixed base address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Do sends a request to path (relative to the base address) with in
// encoded as the JSON body when non-nil, and returns the response body.
//
// A non-2xx response is returned as *googleapi.Error carrying the status
// code and the raw body. A transport failure is returned as *NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, in any) ([]byte, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref)

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
		"request_id", requestID,
	)

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}
	return data, nil
}
