package ratelimiter

import (
	"fmt"
	"net/http"
)

// Transport is an http.RoundTripper that takes a token before each request.
type Transport struct {
	Base    http.RoundTripper
	Limiter *RateLimiter
}

func NewTransport(base http.RoundTripper, limiter *RateLimiter) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Limiter: limiter}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	return t.Base.RoundTrip(req)
}
