// Package api provides the HTTP client for the repository chat backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apierrors "github.com/diogo/repochat/internal/errors"
	"github.com/diogo/repochat/internal/models"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 4 << 20

// Backend is the contract the session controller depends on
type Backend interface {
	Status(ctx context.Context) (bool, error)
	Initialize(ctx context.Context, repoURL string) error
	Chat(ctx context.Context, question string) (string, error)
}

// HTTPDoer is the part of tls_client.HttpClient the client uses
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the backend's /status, /initialize and /chat endpoints
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Ensure Client implements Backend
var _ Backend = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the backend address
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRateLimit paces outgoing requests to perMinute. Zero disables pacing.
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		burst := perMinute / 60
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), burst+1)
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: models.DefaultBaseURL,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Timeouts are applied per request through the context
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout, zero when disabled
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// response is a fully read backend answer
type response struct {
	status int
	body   []byte
}

// do sends one JSON request and reads the whole response.
// Non-2xx answers are returned as *apierrors.APIError.
func (c *Client) do(ctx context.Context, operation, method, path string, payload any) (*response, error) {
	// The timeout covers the limiter wait as well as the round-trip
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() == nil {
				// Wait gives up early when the next token is past the deadline
				return nil, apierrors.NewTimeoutError(operation+" while rate limited", path)
			}
			return nil, c.contextError(ctx, operation, path, err)
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", operation, err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With().Str("request_id", requestID).Str("endpoint", path).Logger()
	log.Debug().Str("method", method).Msg("sending request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		if ctx.Err() != nil {
			return nil, c.contextError(ctx, operation, path, err)
		}
		return nil, apierrors.NewNetworkError(operation, path, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if ctx.Err() != nil {
			return nil, c.contextError(ctx, operation, path, err)
		}
		return nil, apierrors.NewNetworkError(operation, path, fmt.Errorf("failed to read response: %w", err))
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("request finished")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, path, operation, data)
	}

	return &response{status: resp.StatusCode, body: data}, nil
}

// contextError maps a context failure to a timeout or a cancellation
func (c *Client) contextError(ctx context.Context, operation, path string, cause error) error {
	if ctx.Err() == context.DeadlineExceeded {
		msg := operation
		if c.timeout > 0 {
			msg = fmt.Sprintf("%s after %s", operation, c.timeout)
		}
		return apierrors.NewTimeoutError(msg, path)
	}
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("%s: %w", operation, apierrors.ErrCancelled)
	}
	return apierrors.NewNetworkError(operation, path, cause)
}
