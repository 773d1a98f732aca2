// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPolicy returns a policy with tiny delays so tests finish quickly.
func testPolicy() Policy {
	return Policy{
		MaxAttempts: 6,
		BaseDelay:   1 * time.Millisecond,
		MaxDelay:    100 * time.Millisecond,
		JitterMax:   0,
	}
}

func TestFetchImmediateSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer ts.Close()

	res, err := Fetch(context.Background(), ts.Client(), ts.URL, nil, testPolicy())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 fake"), res.Body)
	assert.Equal(t, ts.URL, res.URL)
}

func TestFetchSendsHeaders(t *testing.T) {
	var gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	header := http.Header{}
	header.Set("User-Agent", "ald-corpus-test/0.1")

	_, err := Fetch(context.Background(), ts.Client(), ts.URL, header, testPolicy())
	require.NoError(t, err)
	assert.Equal(t, "ald-corpus-test/0.1", gotAgent)
}

func TestFetchRetriesServerErrorsThenSucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	pol := testPolicy()
	pol.BaseDelay = 10 * time.Millisecond
	pol.MaxDelay = time.Second

	start := time.Now()
	res, err := Fetch(context.Background(), ts.Client(), ts.URL, nil, pol)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	assert.Equal(t, []byte("ok"), res.Body)
	// Backoff sleeps of 10ms, 20ms, and 40ms precede the fourth attempt.
	assert.GreaterOrEqual(t, elapsed, 70*time.Millisecond)
}

func TestFetchHonorsRetryAfter(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0.05")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	start := time.Now()
	_, err := Fetch(context.Background(), ts.Client(), ts.URL, nil, testPolicy())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	// The 50ms Retry-After must win over the 1ms backoff.
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestFetchIgnoresUnparseableRetryAfter(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "soon")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	start := time.Now()
	_, err := Fetch(context.Background(), ts.Client(), ts.URL, nil, testPolicy())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Less(t, elapsed, time.Second)
}

func TestFetchTerminalStatusDoesNotRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := Fetch(context.Background(), ts.Client(), ts.URL, nil, testPolicy())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestFetchExhaustsAttempts(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	pol := testPolicy()
	pol.MaxAttempts = 3

	_, err := Fetch(context.Background(), ts.Client(), ts.URL, nil, pol)
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Contains(t, err.Error(), "giving up after 3 attempts")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestFetchRetriesTransportErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := ts.URL
	ts.Close()

	pol := testPolicy()
	pol.MaxAttempts = 2

	_, err := Fetch(context.Background(), http.DefaultClient, url, nil, pol)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "giving up after 2 attempts")
}

func TestFetchContextCancelledDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	pol := testPolicy()
	pol.BaseDelay = 500 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Fetch(ctx, ts.Client(), ts.URL, nil, pol)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty", "", 0},
		{"integer seconds", "2", 2 * time.Second},
		{"fractional seconds", "1.5", 1500 * time.Millisecond},
		{"zero", "0", 0},
		{"negative", "-2", 0},
		{"http date", "Wed, 21 Oct 2026 07:28:00 GMT", 0},
		{"garbage", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.value))
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	pol := DefaultPolicy()
	assert.Equal(t, 6, pol.MaxAttempts)
	assert.Equal(t, 1*time.Second, pol.BaseDelay)
	assert.Equal(t, 30*time.Second, pol.MaxDelay)
	assert.Equal(t, 250*time.Millisecond, pol.JitterMax)
}

func TestFetchErrorsAreComparable(t *testing.T) {
	err := &StatusError{StatusCode: 404, URL: "https://example.com/x"}
	wrapped := errors.Join(errors.New("outer"), err)

	var statusErr *StatusError
	assert.True(t, errors.As(wrapped, &statusErr))
	assert.Equal(t, "HTTP 404 from https://example.com/x", err.Error())
}
