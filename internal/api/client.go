// Package api is the REST client of the bookmark backend.
//
// Every response is wrapped in the {success, data, message, error} envelope;
// the client unwraps it and converts failures into the domain error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/utils"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// TokenSource yields the bearer credential attached to outgoing requests.
// An empty token means the request is sent anonymously.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) AccessToken(ctx context.Context) (string, error) { return f(ctx) }

// Client talks to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  logger.Logger
	newID   func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTokenSource sets where bearer credentials come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a client for baseURL (ex: http://localhost:5000/api).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.NewNop(),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one backend call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any

	// bearer overrides the token source when set (logout after local clear).
	bearer string

	// resource and id name the target in NotFoundError.
	resource string
	id       string
}

// do performs the call and decodes envelope data into out (may be nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	op := r.method + " " + r.path

	var bodyReader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s body: %w", op, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := c.newID()
	req.Header.Set("X-Request-ID", reqID)

	token := r.bearer
	if token == "" && c.tokens != nil {
		token, err = c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to read access token: %w", err)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed",
			logger.String("op", op),
			logger.String("request_id", reqID),
			logger.Error(err))
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer utils.Close(resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug("backend request",
		logger.String("op", op),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)),
		logger.String("request_id", reqID))

	return c.decode(op, r, resp.StatusCode, raw, out)
}

// decode maps status + envelope onto the domain error taxonomy.
func (c *Client) decode(op string, r request, status int, raw []byte, out any) error {
	var env domain.Envelope[json.RawMessage]
	parseErr := json.Unmarshal(raw, &env)

	if status == http.StatusNotFound {
		resource := r.resource
		if resource == "" {
			resource = "resource"
		}
		return &domain.NotFoundError{Resource: resource, ID: r.id}
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		// Observed only: eviction is the session owner's decision.
		c.logger.Warn("backend refused bearer credential",
			logger.String("op", op),
			logger.Int("status", status))
	}

	if parseErr != nil {
		// Proxies answer errors with HTML; only a 2xx body is a broken contract.
		if status >= 400 {
			return &domain.APIError{Status: status, Message: http.StatusText(status)}
		}
		return &domain.APIError{Status: status, Err: domain.ErrMalformedResponse}
	}

	if status >= 400 || !env.Success {
		return &domain.APIError{Status: status, Message: env.Reason("")}
	}

	if out == nil || env.Data == nil || string(*env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(*env.Data, out); err != nil {
		return &domain.APIError{Status: status, Err: fmt.Errorf("%w: %s data: %v", domain.ErrMalformedResponse, op, err)}
	}
	return nil
}

// Ping reports whether the backend answers at all; any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: "HEAD " + c.baseURL, Err: err}
	}
	utils.Close(resp.Body)
	return nil
}
