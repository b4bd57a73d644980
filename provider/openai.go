package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
)

// OpenAIProvider implements Provider using OpenAI's API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates a batch of texts using OpenAI. Target codes that are
// not well-formed BCP 47 tags are rejected before any call is made.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}
	if _, err := language.Parse(req.TargetLang); err != nil {
		return nil, &i18nsync.UnsupportedLocaleError{Locale: req.TargetLang, Cause: err}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: p.buildUserMessage(req)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &i18nsync.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &i18nsync.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return p.parseResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "en"
	}
	sourceName := i18nsync.GetLanguageName(sourceLang)
	targetName := i18nsync.GetLanguageName(req.TargetLang)

	contextText := "The strings are user interface labels and messages of a web application."
	if req.Context != "" {
		contextText = fmt.Sprintf("The strings are for: %s. Adapt the tone to be appropriate for this context.", req.Context)
	}

	prompt := fmt.Sprintf(`# Role
You are an expert software localizer translating from %s to %s.

# Context
%s

# Task
Translate each provided string into natural, idiomatic %s.

# Style Guide
- **UI Register**: Keep labels short. Use the conventions of localized software in %s.
- **HTML/Code Safety**: Do NOT translate HTML tags, attributes, URLs or content inside backticks.
- **Placeholders**: Keep placeholders such as ${0}, {{name}}, {count}, %%s and $1 exactly as they appear.
- **Formatting**: Preserve leading and trailing whitespace and newlines.`, sourceName, targetName, contextText, targetName, targetName)

	if len(req.Glossary) > 0 {
		sources := make([]string, 0, len(req.Glossary))
		for source := range req.Glossary {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		prompt += "\n\n# Glossary\nWhen you encounter these phrases, prefer these translations:"
		for _, source := range sources {
			prompt += fmt.Sprintf("\n- \"%s\" → %s", source, req.Glossary[source])
		}
	}

	prompt += `

# Format
Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated string 1", "translated string 2"] }
- Do NOT wrap in Markdown code blocks.`

	if len(req.ExcludedTerms) > 0 {
		terms := strings.Join(req.ExcludedTerms, "\n- ")
		prompt += fmt.Sprintf("\n\n# Exclusions\nDo NOT translate the following terms. Keep them exactly as they appear in the source:\n- %s", terms)
	}

	return prompt
}

func (p *OpenAIProvider) buildUserMessage(req TranslateRequest) string {
	data, _ := json.Marshal(req.Texts)
	return string(data)
}

func (p *OpenAIProvider) parseResponse(content string, expectedCount int) ([]string, error) {
	// Try parsing as object first
	var objResult map[string]any
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if translations, ok := objResult["translations"]; ok {
			if arr, ok := translations.([]any); ok {
				return toStringSlice(arr, expectedCount)
			}
		}

		// Fallback: find first array value
		for _, v := range objResult {
			if arr, ok := v.([]any); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	// Try parsing as direct array
	var arrResult []any
	if err := json.Unmarshal([]byte(content), &arrResult); err == nil {
		return toStringSlice(arrResult, expectedCount)
	}

	return nil, &i18nsync.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func toStringSlice(arr []any, expectedCount int) ([]string, error) {
	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprintf("%v", v)
		}
	}

	if len(result) != expectedCount {
		return nil, &i18nsync.CountMismatchError{
			Expected: expectedCount,
			Got:      len(result),
		}
	}

	return result, nil
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
