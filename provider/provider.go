// Package provider defines the machine translation backends.
package provider

import (
	"fmt"
	"strings"

	"github.com/ZaguanLabs/i18nsync"
)

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = i18nsync.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = i18nsync.TranslateRequest

// Config selects and configures a backend by name.
type Config struct {
	Name    string // "google" (default) or "openai"
	APIKey  string
	Model   string
	BaseURL string
}

// New creates the backend named by cfg.Name.
func New(cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", "google":
		return NewGoogleProvider(GoogleConfig{}), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		}), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Name)
}
