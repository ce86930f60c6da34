package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTransport wraps network level failures
	ErrTransport = errors.New("transport failure")
	// ErrBadStatus is returned for non-2xx responses
	ErrBadStatus = errors.New("unexpected status")
	// ErrMalformed is returned for bodies that are not valid JSON
	ErrMalformed = errors.New("malformed response")
)

// maxBody caps how much of a response is read
const maxBody = 8 << 20

// Trigger issues trigger command requests
type Trigger interface {
	Trigger(ctx context.Context, req Request) (*Envelope, error)
}

// Client posts trigger requests to a single endpoint
type Client struct {
	endpoint string
	http     *http.Client
	headers  map[string]string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHeaders adds static headers (CSRF or auth tokens) to every request
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for the given trigger endpoint
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		headers:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trigger posts req and decodes the response. Cancelling ctx aborts the request;
// the returned error then satisfies errors.Is(err, context.Canceled).
func (c *Client) Trigger(ctx context.Context, req Request) (*Envelope, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	httpReq.Header.Set("X-Request-ID", requestID)
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	log.Printf("transport: POST %s command=%s service=%s id=%s", c.endpoint, req.Command, req.Service, requestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %s for %s", ErrBadStatus, resp.Status, c.endpoint)
	}

	return Decode(data)
}
