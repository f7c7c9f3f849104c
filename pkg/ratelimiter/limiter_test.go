package ratelimiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Basic(t *testing.T) {
	// 10 RPS, max 5 tokens in bucket
	rl := NewRateLimiterFromRPS(10, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, rl.Wait(ctx), "token %d", i+1)
	}

	// Bucket is empty, the next call must wait for a refill
	start := time.Now()
	require.NoError(t, rl.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestRateLimiter_NonPositiveInputs(t *testing.T) {
	rl := NewRateLimiterFromRPS(0, 0)
	require.NoError(t, rl.Wait(context.Background()))

	// 1 RPS with a bucket of 1: a second token is not available within 100ms
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.Wait(ctx))
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimiterFromRPS(1, 1)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, rl.Wait(ctx))
}

func TestTransport_LimitsRequests(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	limiter := NewRateLimiterFromRPS(1, 1)
	client := &http.Client{Transport: NewTransport(nil, limiter)}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	// The bucket is drained: a short deadline fails before reaching the server.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, int32(1), hits.Load())
}
