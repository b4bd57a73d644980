package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ZaguanLabs/i18nsync"
)

func TestBuildSystemPrompt(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	req := TranslateRequest{
		TargetLang:    "fr",
		SourceLang:    "en",
		Context:       "Chat application",
		ExcludedTerms: []string{"API", "SDK"},
		Glossary: map[string]string{
			"on the fly": "à la volée",
			"swipe":      "balayer",
		},
	}

	prompt := p.buildSystemPrompt(req)

	if !strings.Contains(prompt, "from English to French") {
		t.Error("Prompt should contain source and target language names")
	}
	if !strings.Contains(prompt, "Chat application") {
		t.Error("Prompt should contain context")
	}
	if !strings.Contains(prompt, "API") || !strings.Contains(prompt, "SDK") {
		t.Error("Prompt should contain excluded terms")
	}
	if !strings.Contains(prompt, "${0}") {
		t.Error("Prompt should protect positional placeholders")
	}
	first := strings.Index(prompt, "on the fly")
	second := strings.Index(prompt, "swipe")
	if first < 0 || second < 0 || first > second {
		t.Error("Glossary should be listed in sorted order")
	}
}

func TestBuildUserMessage(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	msg := p.buildUserMessage(TranslateRequest{Texts: []string{"Hello", "World"}})

	if msg != `["Hello","World"]` {
		t.Errorf("Expected JSON array, got: %s", msg)
	}
}

func TestParseResponse(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test"})

	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{"translations key", `{"translations": ["Hola", "Mundo"]}`, []string{"Hola", "Mundo"}, false},
		{"direct array", `["Hola", "Mundo"]`, []string{"Hola", "Mundo"}, false},
		{"fallback array key", `{"results": ["Hola", "Mundo"]}`, []string{"Hola", "Mundo"}, false},
		{"count mismatch", `{"translations": ["Hola"]}`, nil, true},
		{"not json", `Hola, Mundo`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.parseResponse(tt.content, 2)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseResponse failed: %v", err)
			}
			if got[0] != tt.want[0] || got[1] != tt.want[1] {
				t.Errorf("Unexpected translations: %v", got)
			}
		})
	}
}

func TestOpenAIProvider_RejectsMalformedLocale(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test", BaseURL: "http://127.0.0.1:0"})

	_, err := p.Translate(context.Background(), TranslateRequest{Texts: []string{"Hi"}, TargetLang: "not a locale"})
	if !i18nsync.IsUnsupportedLocale(err) {
		t.Errorf("Translate() error = %v, want UnsupportedLocaleError", err)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  string
		want bool
	}{
		{"status 429: Rate limit reached", true},
		{"dial tcp: connection refused", true},
		{"502 Bad Gateway", true},
		{"invalid api key", false},
	}
	for _, tt := range tests {
		if got := isRetryableError(errors.New(tt.err)); got != tt.want {
			t.Errorf("isRetryableError(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
