package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Microsoft Graph API defaults.
const (
	DefaultBaseURL = "https://graph.microsoft.com"
	DefaultVersion = "v1.0"
)

// TokenProvider supplies a valid bearer token for each request. Token
// acquisition and refresh live behind this interface; the client only
// transports the token string.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider is a TokenProvider returning a fixed token. Useful
// for tests and short-lived scripts.
type StaticTokenProvider string

// Token returns the fixed token.
func (s StaticTokenProvider) Token(_ context.Context) (string, error) {
	return string(s), nil
}

// Client is an authenticated connection to the Microsoft Graph API. It is
// stateless apart from its configuration and safe for concurrent use.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
	tokens     TokenProvider
	limiter    *RateLimiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Graph endpoint, e.g. for a national cloud or a
// test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithVersion selects the API version path segment (default "v1.0").
func WithVersion(version string) Option {
	return func(c *Client) {
		c.version = strings.Trim(version, "/")
	}
}

// WithHTTPClient supplies a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger enables debug logging of requests and responses.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimiter replaces the default rate limiter.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// NewClient creates a Graph client using the given token provider.
func NewClient(tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		version:    DefaultVersion,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tokens:     tokens,
		limiter:    NewRateLimiter(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeleteOptions configures delete behaviour per call site.
type DeleteOptions struct {
	// AllowMissing collapses a 404 into success, making the delete
	// idempotent. Whether that is appropriate is a per-resource policy,
	// not a client rule.
	AllowMissing bool
}

// Get issues a GET request. The path may carry a query string.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.call(ctx, http.MethodGet, path, nil, nil)
}

// Post issues a POST request with a JSON body. Bodies built as
// map[string]any use local snake_case keys and are converted to wire form;
// typed structs marshal through their own (wire-form) tags.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.call(ctx, http.MethodPost, path, body, nil)
}

// Patch issues a PATCH request with a JSON body, converted like Post.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.call(ctx, http.MethodPatch, path, body, nil)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts DeleteOptions) error {
	_, err := c.call(ctx, http.MethodDelete, path, nil, nil)
	if err != nil && opts.AllowMissing && errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// call performs a request and maps any non-2xx status to a RequestError.
func (c *Client) call(ctx context.Context, method, path string, body any, headers map[string]string) ([]byte, error) {
	status, respBody, err := c.do(ctx, method, path, body, headers)
	if err != nil {
		return nil, err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, newRequestError(status, respBody)
	}
	return respBody, nil
}

// do performs a request and returns the raw status and body. Transport
// failures are returned wrapped; HTTP error statuses are not treated as
// errors at this level.
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(ToWireKeys(body))
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.requestURL(path), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("get token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	c.logger.Debug("msgraph: request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("msgraph: response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.limiter.RecordRateLimitError(retryAfter)
	}

	return resp.StatusCode, respBody, nil
}

// requestURL joins the configured base URL, version segment and path.
func (c *Client) requestURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + "/" + c.version + path
}
