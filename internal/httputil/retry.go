// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across collaborators.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// RetryDelay is the fixed sleep before retrying a rate-limited request when
// the caller passes a zero delay. Tests override this to avoid real sleeps.
var RetryDelay = 60 * time.Second

const defaultMaxRetries = 1

// IsRateLimited reports whether resp signals that the caller is being
// throttled: HTTP 429, or HTTP 403 with an exhausted X-RateLimit-Remaining
// counter (GitHub's secondary signal).
func IsRateLimited(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return resp.Header.Get("X-RateLimit-Remaining") == "0"
	default:
		return false
	}
}

// DoWithRetry executes an HTTP request and, when the response is rate
// limited, sleeps a fixed delay and tries again. The delay does not grow
// between attempts.
//
// When maxRetries is 0 the default (1) is used; when delay is 0 RetryDelay
// is used. On each rate-limited response the body is drained and closed
// before sleeping. If the context is cancelled during the wait the function
// returns ctx.Err(). After exhausting retries the last rate-limited response
// is returned so the caller can classify it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, delay time.Duration) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if delay <= 0 {
		delay = RetryDelay
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !IsRateLimited(resp) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
