// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// Policy holds the retry/backoff knobs for Fetch. Tests pass small delays
// to avoid real sleeps.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the initial backoff; it doubles after each retryable
	// failure, capped at MaxDelay.
	BaseDelay time.Duration

	// MaxDelay caps the backoff.
	MaxDelay time.Duration

	// JitterMax bounds the uniform random jitter added to every sleep.
	JitterMax time.Duration
}

// DefaultPolicy returns the production retry policy: 6 attempts, backoff
// starting at 1s and doubling to a 30s cap, with up to 250ms of jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 6,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		JitterMax:   250 * time.Millisecond,
	}
}

// Result holds the payload of a successful fetch.
type Result struct {
	// Body is the full response payload.
	Body []byte

	// ContentType is the Content-Type header of the response.
	ContentType string

	// StatusCode is the HTTP status (always 200 on success).
	StatusCode int

	// URL is the final request URL after any redirects, used as the base
	// for resolving relative links found in the payload.
	URL string
}

// StatusError reports a non-success HTTP status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Fetch issues a GET for url and classifies every response against the
// retry policy: 200 succeeds, 429 and 5xx and transport errors are retried
// with exponential backoff, and any other status fails immediately. On a
// 429 the Retry-After header, when it parses as a number of seconds,
// replaces the current backoff for that sleep. Every sleep gets uniform
// random jitter in [0, JitterMax) added. If the context is cancelled
// during a backoff wait, Fetch returns ctx.Err(). After exhausting
// attempts the last failure is returned wrapped.
func Fetch(ctx context.Context, client *http.Client, url string, header http.Header, pol Policy) (*Result, error) {
	if pol.MaxAttempts <= 0 {
		pol.MaxAttempts = DefaultPolicy().MaxAttempts
	}
	if pol.BaseDelay <= 0 {
		pol.BaseDelay = DefaultPolicy().BaseDelay
	}
	if pol.MaxDelay <= 0 {
		pol.MaxDelay = DefaultPolicy().MaxDelay
	}

	backoff := pol.BaseDelay
	var lastErr error

	for attempt := 1; ; attempt++ {
		res, retryAfter, err := doAttempt(ctx, client, url, header)
		if err == nil {
			return res, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		if attempt >= pol.MaxAttempts {
			return nil, fmt.Errorf("giving up after %d attempts: %w", attempt, lastErr)
		}

		delay := backoff
		if retryAfter > 0 {
			delay = retryAfter
		}
		if pol.JitterMax > 0 {
			delay += rand.N(pol.JitterMax)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		backoff = min(backoff*2, pol.MaxDelay)
	}
}

// retryableError marks a failure the backoff loop may retry: a 429, a 5xx,
// or a transport error.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	_, ok := err.(*retryableError)
	return ok
}

// doAttempt performs one request round trip. It returns the parsed
// Retry-After duration alongside a retryable error for a 429 response.
func doAttempt(ctx context.Context, client *http.Client, url string, header http.Header) (*Result, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	if header != nil {
		req.Header = header.Clone()
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, &retryableError{err: fmt.Errorf("HTTP request: %w", err)}
	}
	defer resp.Body.Close()

	statusErr := &StatusError{StatusCode: resp.StatusCode, URL: url}

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, &retryableError{err: fmt.Errorf("reading response body: %w", err)}
		}
		return &Result{
			Body:        body,
			ContentType: resp.Header.Get("Content-Type"),
			StatusCode:  resp.StatusCode,
			URL:         resp.Request.URL.String(),
		}, 0, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &retryableError{err: statusErr}

	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, 0, &retryableError{err: statusErr}

	default:
		// 401/403/404 and friends: not worth retrying.
		io.Copy(io.Discard, resp.Body)
		return nil, 0, statusErr
	}
}

// parseRetryAfter interprets a Retry-After header value as a number of
// seconds. HTTP-date values and garbage yield 0, which keeps the current
// backoff in effect.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(value, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
