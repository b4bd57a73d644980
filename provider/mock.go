package provider

import (
	"context"
	"fmt"

	"github.com/ZaguanLabs/i18nsync"
)

// MockProvider is a mock translation provider for testing.
type MockProvider struct {
	Translations map[string]string // Map of source text to translation
	Unsupported  map[string]bool   // Target codes rejected as unsupported
	Err          error             // Returned by every call when set
	CallCount    int               // Number of times Translate was called
	LastRequest  *TranslateRequest // Last request received
	Targets      []string          // Target code of every call
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":         "Hola",
			"World":         "Mundo",
			"Hello World":   "Hola Mundo",
			"Save settings": "Guardar ajustes",
		},
		Unsupported: map[string]bool{},
	}
}

// Translate returns mock translations. Unknown texts come back bracketed.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.CallCount++
	m.LastRequest = &req
	m.Targets = append(m.Targets, req.TargetLang)

	if m.Unsupported[req.TargetLang] {
		return nil, &i18nsync.UnsupportedLocaleError{Locale: req.TargetLang}
	}
	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}

	return results, nil
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
	m.Targets = nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
