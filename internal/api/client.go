package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

const DefaultBaseURL = "https://guardmind-backend-1.onrender.com"

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	BearerToken() string
}

type Logger interface {
	Debug(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     Logger

	attempts     int
	initialDelay time.Duration
	retrier      retry.Retry[[]byte]
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithLogger(l Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRetry sets how often idempotent GETs are attempted and the first backoff delay.
func WithRetry(attempts int, initialDelay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.initialDelay = initialDelay
	}
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokens:       tokens,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		attempts:     3,
		initialDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retrier = retry.New[[]byte](retry.Config{
		MaxAttempts:   max(1, c.attempts),
		InitialDelay:  c.initialDelay,
		MaxDelay:      10 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isRetryable,
	})
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) bearer() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.BearerToken()
}

type request struct {
	method      string
	path        string
	contentType string
	body        []byte
	bearer      string
}

func (c *Client) jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path, bearer: c.bearer()}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return request{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		req.body = b
		req.contentType = "application/json"
	}
	return req, nil
}

func (c *Client) formRequest(path string, values url.Values) request {
	return request{
		method:      http.MethodPost,
		path:        path,
		contentType: "application/x-www-form-urlencoded",
		body:        []byte(values.Encode()),
		bearer:      c.bearer(),
	}
}

// call sends req and decodes the response into out when out is non-nil.
func (c *Client) call(ctx context.Context, req request, out any) error {
	body, err := c.doRequest(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", req.path, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, req request) ([]byte, error) {
	if req.method != http.MethodGet {
		return c.send(ctx, req)
	}
	var lastErr error
	body, err := c.retrier.Do(ctx, func(ctx context.Context) ([]byte, error) {
		b, err := c.send(ctx, req)
		lastErr = err
		return b, err
	})
	if err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logError(r, 0, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if c.logger != nil {
		c.logger.Debug("api.request", map[string]any{
			"method":      r.method,
			"path":        r.path,
			"status":      resp.StatusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
	if resp.StatusCode >= 400 {
		serr := newStatusError(resp.StatusCode, respBody)
		c.logError(r, resp.StatusCode, serr)
		return nil, serr
	}
	return respBody, nil
}

func (c *Client) logError(r request, status int, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Error("api.request.failed", map[string]any{
		"method": r.method,
		"path":   r.path,
		"status": status,
		"error":  err.Error(),
	})
}

func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Code == http.StatusTooManyRequests || serr.Code >= 500
	}
	return true
}

func pathID(prefix string, id ID, suffix string) string {
	return prefix + "/" + url.PathEscape(string(id)) + suffix
}
