// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// maxErrorBodySize bounds how much of a failed response is read for the error message.
const maxErrorBodySize = 64 * 1024

// maxRetryAfter caps a server-provided Retry-After so one response cannot
// park a request for minutes.
const maxRetryAfter = 30 * time.Second

// ClientConfig configures the REST client.
type ClientConfig struct {
	BaseURL string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64
	Burst     int

	// MaxRetries bounds retries after HTTP 429.
	MaxRetries     int
	RetryBaseDelay time.Duration

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is the REST movie catalog.
type Client struct {
	baseURL        string
	http           *http.Client
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[[]byte]
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a REST client for baseURL.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("catalog base URL must be an http(s) URL, got %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if burst <= 0 {
		burst = 1
	}

	delay := cfg.RetryBaseDelay
	if delay <= 0 {
		delay = time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		baseURL:        base,
		http:           httpClient,
		limiter:        rate.NewLimiter(limit, burst),
		breaker:        newBreaker("movie-catalog"),
		maxRetries:     retries,
		retryBaseDelay: delay,
	}, nil
}

// ListMovies implements Provider.
func (c *Client) ListMovies(ctx context.Context) ([]models.Movie, error) {
	body, err := c.execute(ctx, "list", "/movies")
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return decodeMovies(body)
}

// GetMovie implements Provider.
func (c *Client) GetMovie(ctx context.Context, id int) (models.Movie, error) {
	body, err := c.execute(ctx, "get", "/movies/"+strconv.Itoa(id))
	if err != nil {
		return models.Movie{}, fmt.Errorf("get movie %d: %w", id, err)
	}
	m, err := decodeMovie(body)
	if err != nil {
		return models.Movie{}, err
	}
	if m.ID == 0 {
		m.ID = id
	}
	return m, nil
}

// BreakerState reports the circuit breaker state as closed, half-open or open.
func (c *Client) BreakerState() string {
	return stateToString(c.breaker.State())
}

// execute runs one GET through the breaker and returns the body of a 200.
func (c *Client) execute(ctx context.Context, endpoint, path string) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, endpoint, path)
	})
	switch {
	case err == nil, errors.Is(err, ErrNotFound):
		metrics.CircuitBreakerRequests.WithLabelValues(c.breaker.Name(), "success").Inc()
		return body, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(c.breaker.Name(), "rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(c.breaker.Name(), "failure").Inc()
		return nil, err
	}
}

// get performs the request, waiting on the rate limiter before every
// attempt and backing off on 429 (1s, 2s, 4s... or Retry-After).
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	reqURL := c.baseURL + path

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			metrics.RecordCatalogRequest(endpoint, 0, time.Since(start))
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		metrics.RecordCatalogRequest(endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read response: %w", err)
			}
			return body, nil

		case resp.StatusCode == http.StatusNotFound:
			_ = resp.Body.Close()
			return nil, ErrNotFound

		case resp.StatusCode == http.StatusTooManyRequests:
			_ = resp.Body.Close()
			if attempt >= c.maxRetries {
				return nil, fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			}
			delay := retryDelay(resp.Header.Get("Retry-After"), c.retryBaseDelay<<uint(attempt))
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}

		default:
			body := readBodyForError(resp.Body)
			_ = resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		}
	}
}

// retryDelay honors Retry-After in seconds or as an HTTP date, falling back
// to the exponential delay.
func retryDelay(header string, fallback time.Duration) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return fallback
	}
	var d time.Duration
	if secs, err := strconv.Atoi(header); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(header); err == nil {
		d = time.Until(at)
	} else {
		return fallback
	}
	if d < 0 {
		d = 0
	}
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d
}

// readBodyForError reads at most maxErrorBodySize bytes.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
