package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	minierrors "github.com/tessro/minispot/internal/errors"
	"github.com/tessro/minispot/internal/spotify/auth"
)

const (
	// BaseURL is the Spotify Web API base URL.
	BaseURL = "https://api.spotify.com/v1"

	// Retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
	maxRetryAfter = 30 * time.Second
)

// TokenSource supplies access tokens for API requests.
type TokenSource interface {
	Token(ctx context.Context) (*auth.Token, error)
}

// Client is a Spotify Web API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l.Named("webapi") }
}

// New creates a new Spotify client.
func New(tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    BaseURL,
		tokens:     tokens,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request to the Spotify API.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.request(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request to the Spotify API.
func (c *Client) Post(ctx context.Context, path string, body any, result any) error {
	return c.request(ctx, http.MethodPost, path, body, result)
}

// Put performs a PUT request to the Spotify API.
func (c *Client) Put(ctx context.Context, path string, body any, result any) error {
	return c.request(ctx, http.MethodPut, path, body, result)
}

func (c *Client) request(ctx context.Context, method, path string, body any, result any) error {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var jsonBody []byte
	if body != nil {
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	fullURL := c.baseURL + path
	log := c.logger.With(zap.String("method", method), zap.String("url", fullURL))
	log.Debug("request", zap.ByteString("body", jsonBody))

	var lastErr error
	var wait time.Duration
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if wait == 0 {
				wait = baseRetryWait * time.Duration(1<<(attempt-1)) // exponential backoff
			}
			log.Debug("retrying", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait = 0
		}

		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", tok.Bearer())
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: %w", minierrors.ErrNetworkError, err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: failed to read response: %w", minierrors.ErrNetworkError, err)
			continue
		}

		log.Debug("response", zap.Int("status", resp.StatusCode))

		switch {
		case resp.StatusCode == http.StatusNoContent:
			return nil

		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = minierrors.ErrRateLimited
			wait = retryAfter(resp.Header.Get("Retry-After"))
			continue

		case resp.StatusCode >= 500:
			lastErr = parseAPIError(resp.StatusCode, respBody)
			log.Warn("server error, will retry", zap.Error(lastErr))
			continue

		case resp.StatusCode >= 400:
			log.Debug("client error", zap.ByteString("body", respBody))
			return parseAPIError(resp.StatusCode, respBody)
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return baseRetryWait
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d
}

func parseAPIError(status int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrorInfo.Message != "" {
		if apiErr.ErrorInfo.Status == 0 {
			apiErr.ErrorInfo.Status = status
		}
		return &apiErr
	}
	apiErr.ErrorInfo.Status = status
	apiErr.ErrorInfo.Message = http.StatusText(status)
	return &apiErr
}

// APIError represents a Spotify API error response.
type APIError struct {
	ErrorInfo struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Spotify API error %d: %s", e.ErrorInfo.Status, e.ErrorInfo.Message)
}

// IsNoActiveDeviceError checks if an error is a "no active device" error.
func IsNoActiveDeviceError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorInfo.Status == http.StatusNotFound
}

// IsAlreadyPlayingError checks if an error is a 403 "restriction violated" error,
// which occurs when trying to resume playback that is already active.
func IsAlreadyPlayingError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorInfo.Status == http.StatusForbidden
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
