package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"spext/internal/shared"
)

const (
	DefaultMaxRetries  = 5
	DefaultTimeout     = 15 * time.Second
	DefaultBackoffBase = time.Second
	DefaultRateLimit   = 5.0

	// Pause applied when a 429 carries no usable Retry-After header.
	defaultRetryAfter = 5 * time.Second

	// Randomized pacing after each successful response, uniform in
	// [jitterMin, jitterMin+jitterSpread).
	jitterMin    = 100 * time.Millisecond
	jitterSpread = 200 * time.Millisecond
)

// StatusError reports a non-retryable HTTP status returned by the API.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("spotify API error: status %d", e.Status)
}

// ClientOpts contains configuration for a [Client]. Zero fields fall
// back to the package defaults.
type ClientOpts struct {
	BaseURL     string
	MaxRetries  int
	Timeout     time.Duration
	BackoffBase time.Duration
	RateLimit   float64 // requests per second across all callers
	HTTPClient  *http.Client
}

// Client issues bearer-authenticated requests with retry, backoff and
// rate-limit compliance baked in. Every remote call in the pipeline
// goes through one shared Client so the policy exists exactly once.
type Client struct {
	baseURL     string
	http        *http.Client
	tokens      *TokenProvider
	limiter     *rate.Limiter
	maxRetries  int
	backoffBase time.Duration
	logger      *log.Logger

	// injected for tests
	sleep  func(context.Context, time.Duration) error
	jitter func() time.Duration
}

// NewClient creates a Client that authenticates through the given
// TokenProvider.
func NewClient(tokens *TokenProvider, opts ClientOpts, logger *log.Logger) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = DefaultBackoffBase
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		http:        opts.HTTPClient,
		tokens:      tokens,
		limiter:     rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		logger:      logger,
		sleep:       sleepContext,
		jitter: func() time.Duration {
			return jitterMin + time.Duration(rand.Int64N(int64(jitterSpread)))
		},
	}
}

// Get issues a GET against endpoint, which is either a path relative to
// the base URL or a fully-qualified URL (as carried by pagination
// cursors), and returns the raw response body.
//
// Per attempt: 200 is paced with a small random delay and returned;
// 401 invalidates the cached token and retries immediately; 429 sleeps
// for the server-dictated Retry-After; any other status is returned
// as a *StatusError without retrying; transport failures back off
// exponentially. Exhausting all attempts yields ErrRetryExhausted.
func (c *Client) Get(ctx context.Context, endpoint string) ([]byte, error) {
	url := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		url = c.baseURL + endpoint
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", shared.ErrTransport, err)
			delay := c.backoffBase << attempt
			c.logger.Warn("transport failure, backing off",
				"endpoint", endpoint, "attempt", attempt+1, "delay", delay, "error", err)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				lastErr = fmt.Errorf("%w: %v", shared.ErrTransport, readErr)
				delay := c.backoffBase << attempt
				if err := c.sleep(ctx, delay); err != nil {
					return nil, err
				}
				continue
			}
			// stay under informal burst limits
			_ = c.sleep(ctx, c.jitter())
			return body, nil

		case resp.StatusCode == http.StatusUnauthorized:
			c.tokens.Invalidate()
			lastErr = shared.ErrTokenExpired
			c.logger.Warn("unauthorized, forcing token refresh",
				"endpoint", endpoint, "attempt", attempt+1)
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			delay := retryAfter(resp.Header)
			lastErr = shared.ErrRateLimited
			c.logger.Warn("rate limited", "endpoint", endpoint, "retry_after", delay)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue

		default:
			c.logger.Error("API error", "endpoint", endpoint, "status", resp.StatusCode)
			return nil, &StatusError{Status: resp.StatusCode, Body: body}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", shared.ErrRetryExhausted, c.maxRetries, lastErr)
}

// GetJSON issues Get and decodes the response body into v.
func (c *Client) GetJSON(ctx context.Context, endpoint string, v any) error {
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// retryAfter parses the Retry-After header in seconds, falling back to
// defaultRetryAfter when absent or unparseable.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

// sleepContext sleeps for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
