package i18nsync

import (
	"context"
	"sync"
	"time"
)

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // 0 means 60
	BurstSize         int // 0 means RequestsPerMinute
}

// RateLimiter is a token bucket shared by every call to a backend.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	perSecond  float64
	lastRefill time.Time
	now        func() time.Time
}

// NewRateLimiter creates a limiter with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}
	burst := float64(cfg.BurstSize)
	if burst <= 0 {
		burst = rpm
	}
	return &RateLimiter{
		tokens:     burst,
		maxTokens:  burst,
		perSecond:  rpm / 60.0,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait := r.reserve()
		if wait == 0 {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAcquire takes a token if one is available.
func (r *RateLimiter) TryAcquire() bool {
	return r.reserve() == 0
}

// reserve takes a token and returns 0, or returns how long until the next
// token will exist.
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return 0
	}
	missing := 1 - r.tokens
	return time.Duration(missing / r.perSecond * float64(time.Second))
}

// refill must be called with mu held.
func (r *RateLimiter) refill() {
	now := r.now()
	r.tokens += now.Sub(r.lastRefill).Seconds() * r.perSecond
	r.lastRefill = now
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
}

// Available returns the current number of tokens.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

// RateLimitedProvider wraps a Provider with a RateLimiter.
type RateLimitedProvider struct {
	provider Provider
	limiter  *RateLimiter
}

// NewRateLimitedProvider creates a new rate-limited provider.
func NewRateLimitedProvider(provider Provider, cfg RateLimitConfig) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  NewRateLimiter(cfg),
	}
}

// Translate implements Provider.
func (p *RateLimitedProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Message: "rate limit wait cancelled", Cause: err}
	}
	return p.provider.Translate(ctx, req)
}

// Limiter returns the underlying rate limiter.
func (p *RateLimitedProvider) Limiter() *RateLimiter {
	return p.limiter
}

var _ Provider = (*RateLimitedProvider)(nil)
