package i18nsync

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig holds configuration for retrying translation backend calls.
type RetryConfig struct {
	MaxRetries   int           // Retries after the first attempt
	BaseDelay    time.Duration // Delay before the first retry
	MaxDelay     time.Duration // Upper bound for any single delay
	JitterFactor float64       // 0 disables jitter
}

// DefaultRetryConfig returns the settings used by the command line.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		BaseDelay:    1 * time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.1,
	}
}

// Delay returns the wait before retry number attempt (1-based).
func (c RetryConfig) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := float64(c.BaseDelay) * math.Pow(2, float64(attempt-1))
	if c.JitterFactor > 0 {
		d *= 1 + (rand.Float64()*2-1)*c.JitterFactor
	}
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	return time.Duration(d)
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry runs fn until it succeeds, returns a non-retryable error, or
// the retry budget is spent.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return zero, err
		}

		if attempt == cfg.MaxRetries {
			break
		}
		timer := time.NewTimer(cfg.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// IsRetryable reports whether err is a transient backend failure.
// Unsupported locales and cancellations are never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsUnsupportedLocale(err) {
		return false
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// RetryableProvider wraps a Provider with retry logic.
type RetryableProvider struct {
	provider Provider
	config   RetryConfig
}

// NewRetryableProvider creates a new provider with retry logic.
func NewRetryableProvider(provider Provider, cfg RetryConfig) *RetryableProvider {
	return &RetryableProvider{
		provider: provider,
		config:   cfg,
	}
}

// Translate implements Provider with retry logic.
func (p *RetryableProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return WithRetry(ctx, p.config, func() ([]string, error) {
		return p.provider.Translate(ctx, req)
	})
}

var _ Provider = (*RetryableProvider)(nil)
