package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/chat"
)

// DefaultEndpoint is the hosted Grace backend.
const DefaultEndpoint = "https://grace-ai-backend-ShawnBeck.replit.app/api/chat"

// DefaultTimeout bounds a single Reply Service call.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes caps how much of a reply body is read.
const maxResponseBytes = 1 << 20

// ErrUnavailable covers every way a reply can fail: transport errors,
// non-2xx statuses and bodies that do not carry a response.
var ErrUnavailable = errors.New("reply service unavailable")

// Request is the body posted to the Reply Service.
type Request struct {
	Message string             `json:"message"`
	History []chat.HistoryPair `json:"history"`
}

// Response is the body returned by the Reply Service.
type Response struct {
	Response *string `json:"response"`
}

// Replier produces a reply for a message given the prior conversation.
type Replier interface {
	Reply(ctx context.Context, req Request) (string, error)
}

// ReplierFunc adapts a function to Replier.
type ReplierFunc func(ctx context.Context, req Request) (string, error)

// Reply calls f.
func (f ReplierFunc) Reply(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Client talks to a Reply Service over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a Client posting to endpoint. An empty endpoint selects DefaultEndpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL replies are requested from.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Reply posts req and returns the raw reply text. Escaped newlines are left as sent.
func (c *Client) Reply(ctx context.Context, req Request) (string, error) {
	if req.History == nil {
		req.History = []chat.HistoryPair{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload Response
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("%w: decode body: %v", ErrUnavailable, err)
	}
	if payload.Response == nil {
		return "", fmt.Errorf("%w: body has no response field", ErrUnavailable)
	}

	return *payload.Response, nil
}
