package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/fystack/solana-account-fetcher/pkg/common/logger"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// ErrNoProviders is returned when a Failover has nothing to call.
var ErrNoProviders = errors.New("no providers configured")

// FailoverConfig defines runtime behavior of the failover system.
type FailoverConfig struct {
	ErrorThreshold  int
	MetricsInterval time.Duration
	SlowResponse    time.Duration
}

func DefaultFailoverConfig() FailoverConfig {
	return FailoverConfig{
		ErrorThreshold:  3,
		MetricsInterval: 30 * time.Second,
		SlowResponse:    3 * time.Second,
	}
}

// FailoverMetrics tracks operational metrics
type FailoverMetrics struct {
	mu                    sync.RWMutex
	TotalRequests         int64
	SuccessfulRequests    int64
	FailedRequests        int64
	FallbackAttempts      int64
	ExhaustedRuns         int64
	ErrorsByType          map[string]int64
	ProviderRequestCounts map[string]int64
}

func NewFailoverMetrics() *FailoverMetrics {
	return &FailoverMetrics{
		ErrorsByType:          make(map[string]int64),
		ProviderRequestCounts: make(map[string]int64),
	}
}

func (m *FailoverMetrics) recordRequest(provider string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalRequests++
	m.ProviderRequestCounts[provider]++
}

func (m *FailoverMetrics) recordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulRequests++
}

func (m *FailoverMetrics) recordFailure(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedRequests++
	m.ErrorsByType[reason]++
}

func (m *FailoverMetrics) recordFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackAttempts++
}

func (m *FailoverMetrics) recordExhausted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExhaustedRuns++
}

func (m *FailoverMetrics) GetSnapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorsByType := make(map[string]int64, len(m.ErrorsByType))
	for k, v := range m.ErrorsByType {
		errorsByType[k] = v
	}

	providerCounts := make(map[string]int64, len(m.ProviderRequestCounts))
	for k, v := range m.ProviderRequestCounts {
		providerCounts[k] = v
	}

	return map[string]any{
		"total_requests":          m.TotalRequests,
		"successful_requests":     m.SuccessfulRequests,
		"failed_requests":         m.FailedRequests,
		"fallback_attempts":       m.FallbackAttempts,
		"exhausted_runs":          m.ExhaustedRuns,
		"errors_by_type":          errorsByType,
		"provider_request_counts": providerCounts,
	}
}

// LogThrottler prevents log spam by rate-limiting similar log messages
type LogThrottler struct {
	mu            sync.Mutex
	lastLogTimes  map[string]time.Time
	throttleDelay time.Duration
}

func NewLogThrottler(delay time.Duration) *LogThrottler {
	return &LogThrottler{
		lastLogTimes:  make(map[string]time.Time),
		throttleDelay: delay,
	}
}

func (lt *LogThrottler) ShouldLog(key string) bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := time.Now()
	lastTime, exists := lt.lastLogTimes[key]
	if !exists || now.Sub(lastTime) > lt.throttleDelay {
		lt.lastLogTimes[key] = now
		return true
	}
	return false
}

// Failover calls an ordered list of providers whose clients are of type T.
// Providers are tried strictly in insertion order, one attempt each; health
// state is tracked for reporting but never used to skip a provider.
type Failover[T any] struct {
	mu             sync.RWMutex
	providers      []*Provider
	config         FailoverConfig
	lastMetricsLog time.Time
	metrics        *FailoverMetrics
	logThrottler   *LogThrottler
}

// NewFailover creates a new type-safe Failover[T]
func NewFailover[T any](config *FailoverConfig) *Failover[T] {
	if config == nil {
		c := DefaultFailoverConfig()
		config = &c
	}
	return &Failover[T]{
		providers:    make([]*Provider, 0),
		config:       *config,
		metrics:      NewFailoverMetrics(),
		logThrottler: NewLogThrottler(30 * time.Second),
	}
}

// GetMetrics returns a snapshot of current metrics
func (f *Failover[T]) GetMetrics() map[string]any {
	return f.metrics.GetSnapshot()
}

// AddProvider appends a provider, ensuring its Client is of type T
func (f *Failover[T]) AddProvider(p *Provider) error {
	if _, ok := p.Client.(T); !ok {
		return fmt.Errorf("invalid provider client type: expected %T, got %T", *new(T), p.Client)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.providers = append(f.providers, p)
	logger.Debug("Added provider", "name", p.Name, "url", p.URL, "position", len(f.providers)-1)
	return nil
}

// Providers returns the providers in call order.
func (f *Failover[T]) Providers() []*Provider {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]*Provider(nil), f.providers...)
}

// Execute runs fn against each provider in order until one succeeds. The
// error of the last provider is returned (wrapped) when all of them fail;
// failures of earlier providers are only logged.
func (f *Failover[T]) Execute(ctx context.Context, fn func(*Provider, T) error) error {
	providers := f.Providers()
	if len(providers) == 0 {
		return ErrNoProviders
	}

	var (
		lastErr  error
		lastName string
	)
	for i, p := range providers {
		if i > 0 {
			if err := ctx.Err(); err != nil {
				break
			}
			f.metrics.recordFallback()
			logger.Warn("Falling back to next provider",
				"from", lastName,
				"to", p.Name,
				"error", lastErr.Error())
		}

		err := f.executeCore(ctx, p, fn)
		if err == nil {
			return nil
		}
		lastErr, lastName = err, p.Name
	}

	f.metrics.recordExhausted()
	return fmt.Errorf("all %d providers failed, last %s: %w", len(providers), lastName, lastErr)
}

// executeCore wraps fn with provider lifecycle (metrics, error analysis, health)
func (f *Failover[T]) executeCore(ctx context.Context, provider *Provider, fn func(*Provider, T) error) error {
	client, ok := provider.Client.(T)
	if !ok {
		return fmt.Errorf("provider client type mismatch: expected %T, got %T", *new(T), provider.Client)
	}

	f.metrics.recordRequest(provider.Name)

	start := time.Now()
	err := fn(provider, client)
	elapsed := time.Since(start)

	defer f.logProviderMetrics(provider, elapsed)

	if err != nil {
		issue := ClassifyError(err, elapsed, f.config.SlowResponse)
		f.metrics.recordFailure(issue.Reason)
		provider.Fail(&f.config, err)

		state, consecutive, _ := provider.Status()
		if state == StateUnhealthy && f.logThrottler.ShouldLog("unhealthy_"+provider.Name) {
			logger.Warn("Provider unhealthy",
				"provider", provider.Name,
				"error_type", issue.Reason,
				"consecutive_errors", consecutive)
		}
		logger.Debug("Provider call failed",
			"provider", provider.Name,
			"error_type", issue.Reason,
			"elapsed", elapsed,
			"error", err.Error())
		return err
	}

	f.metrics.recordSuccess()
	provider.Success(elapsed)
	return nil
}

// logProviderMetrics periodically logs provider performance and state
func (f *Failover[T]) logProviderMetrics(p *Provider, elapsed time.Duration) {
	f.mu.Lock()
	now := time.Now()
	if now.Sub(f.lastMetricsLog) < f.config.MetricsInterval {
		f.mu.Unlock()
		return
	}
	f.lastMetricsLog = now
	f.mu.Unlock()

	state, consecutive, avg := p.Status()
	logger.Debug("Provider metrics",
		"name", p.Name,
		"state", state,
		"latency_ms", elapsed.Milliseconds(),
		"avg_latency_ms", avg.Milliseconds(),
		"errors", consecutive,
	)
}

// ProviderIssue represents an analyzed error from a provider
type ProviderIssue struct {
	Reason  string
	Detail  string
	Elapsed time.Duration
}

// ClassifyError determines the error type for logs and metrics.
func ClassifyError(err error, elapsed, slow time.Duration) ProviderIssue {
	issue := ProviderIssue{Reason: ReasonGeneric, Detail: err.Error(), Elapsed: elapsed}

	switch {
	case errors.Is(err, context.Canceled):
		issue.Reason = ReasonCanceled
		return issue
	case errors.Is(err, context.DeadlineExceeded):
		issue.Reason = ReasonTimeout
		return issue
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		issue.Reason = ReasonTimeout
		return issue
	}

	msg := strings.ToLower(err.Error())
	errorPatterns := []struct {
		patterns []string
		reason   string
	}{
		{[]string{"rate limit", "429", "too many requests"}, ReasonRateLimit},
		{[]string{"exceeded the quota", "quota usage", "quota limit"}, ReasonQuotaExceeded},
		{[]string{"forbidden", "403", "401", "unauthorized"}, ReasonForbidden},
		{[]string{"timeout", "deadline"}, ReasonTimeout},
		{[]string{"eof", "connection reset", "connection refused", "broken pipe", "no such host"}, ReasonConnection},
	}
	for _, pattern := range errorPatterns {
		for _, p := range pattern.patterns {
			if strings.Contains(msg, p) {
				issue.Reason = pattern.reason
				return issue
			}
		}
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		issue.Reason = ReasonRPCError
		return issue
	}

	if slow > 0 && elapsed > slow {
		issue.Reason = ReasonTimeout
	}
	return issue
}
