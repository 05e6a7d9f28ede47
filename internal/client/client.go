package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"mlb_today/pipeline/internal/metrics"
)

// httpGetter performs GET requests with retry logic and rate limiting.
// Both upstream clients share one instance so the whole pipeline stays
// within a single connection pool and concurrency cap.
type httpGetter struct {
	httpClient  *http.Client
	rateLimiter chan struct{} // Rate limiting semaphore
	maxRetries  int
	retryDelay  time.Duration
}

// newHTTPGetter creates a getter with a bounded timeout and pooled transport
func newHTTPGetter(timeout time.Duration) *httpGetter {
	// Create rate limiter (max 10 concurrent requests)
	rateLimiter := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		rateLimiter <- struct{}{}
	}

	return &httpGetter{
		rateLimiter: rateLimiter,
		maxRetries:  3,
		retryDelay:  1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a GET request with query parameters, retries, and backoff.
// A client timeout surfaces as a plain request error, identical to any
// other upstream failure.
func (g *httpGetter) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	var lastErr error
	start := time.Now()
	defer func() {
		metrics.APICallDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := g.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", endpoint).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		// Rate limiting: acquire semaphore
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-g.rateLimiter:
			defer func() { g.rateLimiter <- struct{}{} }()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "mlb-today/1.0")

		if len(params) > 0 {
			q := req.URL.Query()
			for key, value := range params {
				q.Add(key, value)
			}
			req.URL.RawQuery = q.Encode()
		}

		log.Debug().
			Str("url", endpoint).
			Int("attempt", attempt+1).
			Msg("Making API request")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("API request failed: %w", err)
			metrics.APICallsTotal.WithLabelValues(endpoint, "error").Inc()
			// Retry on network errors
			if attempt < g.maxRetries {
				continue
			}
			return nil, lastErr
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			if attempt < g.maxRetries {
				continue
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			log.Debug().
				Str("url", endpoint).
				Int("status", resp.StatusCode).
				Int("size", len(body)).
				Msg("API request successful")
			metrics.APICallsTotal.WithLabelValues(endpoint, "ok").Inc()
			return body, nil

		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Retryable errors
			lastErr = fmt.Errorf("API returned retryable status %d: %s", resp.StatusCode, string(body))
			if attempt < g.maxRetries {
				log.Warn().
					Str("url", endpoint).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}
			metrics.APICallsTotal.WithLabelValues(endpoint, "error").Inc()
			return nil, lastErr

		default:
			metrics.APICallsTotal.WithLabelValues(endpoint, "error").Inc()
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, lastErr
}
