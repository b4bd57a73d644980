package i18nsync

import (
	"context"
	"errors"
	"testing"
)

// mockProvider is a simple mock for testing
type mockProvider struct {
	translations map[string]string
	unsupported  map[string]bool
	err          error
	callCount    int
	lastReq      TranslateRequest
	targets      []string
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		translations: map[string]string{
			"Hello":       "Bonjour",
			"Save":        "Enregistrer",
			"Hello World": "Bonjour le monde",
		},
		unsupported: map[string]bool{},
	}
}

func (m *mockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.callCount++
	m.lastReq = req
	m.targets = append(m.targets, req.TargetLang)
	if m.err != nil {
		return nil, m.err
	}
	if m.unsupported[req.TargetLang] {
		return nil, &UnsupportedLocaleError{Locale: req.TargetLang}
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.translations[text]; ok {
			results[i] = translation
		} else {
			results[i] = "[" + text + "]"
		}
	}
	return results, nil
}

// mockCache is a simple mock cache for testing
type mockCache struct {
	data map[string]string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]string)}
}

func (c *mockCache) Get(key string) (string, bool) {
	val, ok := c.data[key]
	return val, ok
}

func (c *mockCache) Set(key string, value string) error {
	c.data[key] = value
	return nil
}

func TestTranslator_BasicTranslation(t *testing.T) {
	provider := newMockProvider()
	tr := NewTranslator(provider)

	got, err := tr.Translate(context.Background(), "Hello", "en", "fr-fr")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Bonjour" {
		t.Errorf("got %q, want Bonjour", got)
	}
	if provider.lastReq.SourceLang != "en" || provider.lastReq.TargetLang != "fr-fr" {
		t.Errorf("unexpected request languages: %+v", provider.lastReq)
	}
}

func TestTranslator_CacheHit(t *testing.T) {
	provider := newMockProvider()
	cache := newMockCache()
	tr := NewTranslator(provider, WithCache(cache))

	for i := 0; i < 3; i++ {
		if _, err := tr.Translate(context.Background(), "Save", "en", "fr-fr"); err != nil {
			t.Fatalf("Translate failed: %v", err)
		}
	}
	if provider.callCount != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount)
	}

	key := CacheKey(HashText("Save"), "en", "fr-fr")
	if cache.data[key] != "Enregistrer" {
		t.Errorf("cache entry = %q", cache.data[key])
	}
}

func TestTranslator_SourceEqualsTarget(t *testing.T) {
	provider := newMockProvider()
	tr := NewTranslator(provider)

	got, err := tr.Translate(context.Background(), "Hello", "en", "EN")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Hello" {
		t.Errorf("got %q, want unchanged text", got)
	}
	if provider.callCount != 0 {
		t.Errorf("provider should not be called, got %d calls", provider.callCount)
	}
}

func TestTranslator_EmptyText(t *testing.T) {
	provider := newMockProvider()
	tr := NewTranslator(provider)

	got, err := tr.Translate(context.Background(), "", "en", "fr")
	if err != nil || got != "" {
		t.Errorf("got (%q, %v), want empty result", got, err)
	}
	if provider.callCount != 0 {
		t.Errorf("provider should not be called")
	}
}

func TestTranslator_NoProvider(t *testing.T) {
	tr := NewTranslator(nil)

	_, err := tr.Translate(context.Background(), "Hello", "en", "fr")
	var te *TranslationError
	if !errors.As(err, &te) {
		t.Errorf("expected TranslationError, got %v", err)
	}
}

func TestTranslator_Options(t *testing.T) {
	provider := newMockProvider()
	tr := NewTranslator(provider,
		WithContext("chat frontend UI"),
		WithExcludedTerms([]string{"API"}),
		WithGlossary(map[string]string{"chat": "discussion"}),
	)

	if _, err := tr.Translate(context.Background(), "Hello", "en", "fr"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	req := provider.lastReq
	if req.Context != "chat frontend UI" {
		t.Errorf("context = %q", req.Context)
	}
	if len(req.ExcludedTerms) != 1 || req.ExcludedTerms[0] != "API" {
		t.Errorf("excluded terms = %v", req.ExcludedTerms)
	}
	if req.Glossary["chat"] != "discussion" {
		t.Errorf("glossary = %v", req.Glossary)
	}
}

type shortProvider struct{}

func (shortProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return nil, nil
}

func TestTranslator_CountMismatch(t *testing.T) {
	tr := NewTranslator(shortProvider{})

	_, err := tr.Translate(context.Background(), "Hello", "en", "fr")
	var cm *CountMismatchError
	if !errors.As(err, &cm) {
		t.Fatalf("expected CountMismatchError, got %v", err)
	}
	if cm.Expected != 1 || cm.Got != 0 {
		t.Errorf("unexpected mismatch: %+v", cm)
	}
}

func TestTranslateWithFallback(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		unsupported []string
		err         error
		wantLocale  string
		wantTargets []string
		wantErr     bool
	}{
		{
			name:        "exact code accepted",
			target:      "fr",
			wantLocale:  "fr",
			wantTargets: []string{"fr"},
		},
		{
			name:        "region upper-cased",
			target:      "zh-tw",
			unsupported: []string{"zh-tw"},
			wantLocale:  "zh-TW",
			wantTargets: []string{"zh-tw", "zh-TW"},
		},
		{
			name:        "base language",
			target:      "fr-fr",
			unsupported: []string{"fr-fr", "fr-FR"},
			wantLocale:  "fr",
			wantTargets: []string{"fr-fr", "fr-FR", "fr"},
		},
		{
			name:        "nothing supported",
			target:      "xx-yy",
			unsupported: []string{"xx-yy", "xx-YY", "xx"},
			wantTargets: []string{"xx-yy", "xx-YY", "xx"},
			wantErr:     true,
		},
		{
			name:        "other errors are not retried",
			target:      "fr-fr",
			err:         &ProviderError{Message: "quota exceeded"},
			wantTargets: []string{"fr-fr"},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newMockProvider()
			provider.err = tt.err
			for _, u := range tt.unsupported {
				provider.unsupported[u] = true
			}

			got, locale, err := TranslateWithFallback(context.Background(), NewTranslator(provider), "Hello", "en", tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if got != "Bonjour" {
					t.Errorf("translation = %q", got)
				}
				if locale != tt.wantLocale {
					t.Errorf("locale = %q, want %q", locale, tt.wantLocale)
				}
			}
			if len(provider.targets) != len(tt.wantTargets) {
				t.Fatalf("targets = %v, want %v", provider.targets, tt.wantTargets)
			}
			for i := range tt.wantTargets {
				if provider.targets[i] != tt.wantTargets[i] {
					t.Errorf("targets = %v, want %v", provider.targets, tt.wantTargets)
					break
				}
			}
		})
	}
}
