// Package transport provides HTTP round trippers for talking to the GitHub API.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultMaxRetries = 3
	// maxWait caps how long a single rate limit may pause the run
	maxWait = 2 * time.Minute
	// GitHub asks clients to leave at least a second between content-creating requests
	writeInterval = time.Second
	writeBurst    = 3
)

// RateLimitedTransport retries requests that GitHub rejects because of primary or secondary rate limits, waiting as
// long as the response asks
type RateLimitedTransport struct {
	base       http.RoundTripper
	maxRetries int
	now        func() time.Time
	// writes paces POST, PATCH, PUT and DELETE requests
	writes *rate.Limiter
}

func WithRateLimiting(base http.RoundTripper) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RateLimitedTransport{
		base:       base,
		maxRetries: defaultMaxRetries,
		now:        time.Now,
		writes:     rate.NewLimiter(rate.Every(writeInterval), writeBurst),
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Preserve the original request body for retries
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		err = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to close request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		// Restore the request body for each attempt
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		if isWrite(req.Method) {
			if err := t.writes.Wait(req.Context()); err != nil {
				return nil, err
			}
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return resp, err
		}

		waitDuration, limited := t.rateLimitWait(resp)
		if !limited || attempt >= t.maxRetries || waitDuration > maxWait {
			return resp, nil
		}

		// Close the response body to free resources
		err = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to close response body: %w", err)
		}

		log.Printf("Rate limited by %s, waiting %s", req.URL.Host, waitDuration)
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(waitDuration):
		}
	}
}

// rateLimitWait returns how long to wait before retrying a rate-limited response. The second return value is false
// if the response was not rate limited or gives no indication of when to retry
func (t *RateLimitedTransport) rateLimitWait(resp *http.Response) (time.Duration, bool) {
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusForbidden {
		return 0, false
	}

	if retryAfterStr := resp.Header.Get("Retry-After"); retryAfterStr != "" {
		// Try parsing as seconds, then as an HTTP date
		if seconds, err := strconv.Atoi(retryAfterStr); err == nil {
			return time.Duration(seconds) * time.Second, true
		} else if retryTime, err := time.Parse(time.RFC1123, retryAfterStr); err == nil {
			return max(retryTime.Sub(t.now()), 0), true
		}
	}

	if resp.Header.Get("X-RateLimit-Remaining") == "0" {
		if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			return max(time.Unix(reset, 0).Sub(t.now()), 0), true
		}
	}

	return 0, false
}
