package i18nsync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastRetry(n int) RetryConfig {
	return RetryConfig{MaxRetries: n, BaseDelay: 5 * time.Millisecond, MaxDelay: 20 * time.Millisecond}
}

func TestWithRetry(t *testing.T) {
	retryable := &ProviderError{Message: "rate limited", Retryable: true}
	fatal := &ProviderError{Message: "invalid API key"}

	tests := []struct {
		name      string
		retries   int
		failures  int // calls that fail before success
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"first call succeeds", 3, 0, retryable, 1, false},
		{"succeeds after retries", 3, 2, retryable, 3, false},
		{"budget exhausted", 2, 10, retryable, 3, true},
		{"non-retryable", 3, 10, fatal, 1, true},
		{"unsupported locale", 3, 10, &UnsupportedLocaleError{Locale: "xx"}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := WithRetry(context.Background(), fastRetry(tt.retries), func() (string, error) {
				calls++
				if calls <= tt.failures {
					return "", tt.err
				}
				return "ok", nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != "ok" {
				t.Errorf("result = %q, want ok", got)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	cfg := RetryConfig{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
	_, err := WithRetry(ctx, cfg, func() (string, error) {
		return "", &ProviderError{Message: "rate limited", Retryable: true}
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got: %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retryable provider error", &ProviderError{Retryable: true}, true},
		{"wrapped retryable", fmt.Errorf("call: %w", &ProviderError{Retryable: true}), true},
		{"non-retryable provider error", &ProviderError{Retryable: false}, false},
		{"unsupported locale", &UnsupportedLocaleError{Locale: "zh-tw", Cause: &ProviderError{Retryable: true}}, false},
		{"generic error", errors.New("some error"), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestRetryConfig_Delay(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}

	want := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond}
	for attempt, w := range want {
		if got := cfg.Delay(attempt); got != w {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, w)
		}
	}

	cfg.JitterFactor = 0.5
	for i := 0; i < 20; i++ {
		d := cfg.Delay(1)
		if d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("jittered delay out of range: %v", d)
		}
	}
}

type failingProvider struct {
	failCount int
	callCount int
}

func (p *failingProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	p.callCount++
	if p.callCount <= p.failCount {
		return nil, &ProviderError{Message: "temporary failure", Retryable: true}
	}
	return []string{"traduit"}, nil
}

func TestRetryableProvider(t *testing.T) {
	inner := &failingProvider{failCount: 2}
	provider := NewRetryableProvider(inner, fastRetry(3))

	result, err := provider.Translate(context.Background(), TranslateRequest{
		Texts:      []string{"hello"},
		TargetLang: "fr-fr",
	})
	if err != nil {
		t.Fatalf("expected success after retries, got: %v", err)
	}
	if len(result) != 1 || result[0] != "traduit" {
		t.Errorf("unexpected result: %v", result)
	}
	if inner.callCount != 3 {
		t.Errorf("expected 3 calls, got %d", inner.callCount)
	}
}
