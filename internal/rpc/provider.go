package rpc

import (
	"sync"
	"time"
)

// Provider is one configured endpoint together with its client and health.
type Provider struct {
	Name   string `json:"name"`
	URL    string `json:"url"` // redacted, safe to log
	Client any    `json:"-"`

	mu sync.RWMutex // protect all fields below

	State               string        `json:"state"`
	LastUsed            time.Time     `json:"last_used"`
	AverageResponseTime time.Duration `json:"average_response_time"`
	ConsecutiveErrors   int           `json:"consecutive_errors"`
	LastError           string        `json:"last_error,omitempty"`
}

func NewProvider(name, url string, client any) *Provider {
	return &Provider{
		Name:   name,
		URL:    url,
		Client: client,
		State:  StateHealthy,
	}
}

// Fail increases error count and updates state based on threshold.
func (p *Provider) Fail(cfg *FailoverConfig, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ConsecutiveErrors++
	p.LastUsed = time.Now()
	if err != nil {
		p.LastError = err.Error()
	}
	switch {
	case p.ConsecutiveErrors >= cfg.ErrorThreshold:
		p.State = StateUnhealthy
	case p.ConsecutiveErrors >= 2:
		p.State = StateDegraded
	}
}

// Success resets errors and updates health metrics.
func (p *Provider) Success(elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ConsecutiveErrors = 0
	p.LastError = ""
	p.State = StateHealthy
	p.LastUsed = time.Now()
	if p.AverageResponseTime == 0 {
		p.AverageResponseTime = elapsed
	} else {
		p.AverageResponseTime = (p.AverageResponseTime + elapsed) / 2
	}
}

// Status returns a consistent copy of the health fields.
func (p *Provider) Status() (state string, consecutiveErrors int, avg time.Duration) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.State, p.ConsecutiveErrors, p.AverageResponseTime
}
