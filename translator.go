package i18nsync

import (
	"context"
)

// Provider is the interface for machine translation backends.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// TranslateRequest contains the parameters for a translation request.
type TranslateRequest struct {
	Texts         []string
	TargetLang    string
	SourceLang    string
	ExcludedTerms []string
	Context       string
	Glossary      map[string]string
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Translator adapts a batch Provider to the single-string TextTranslator
// capability used by the reconciler, with an optional cache in front.
type Translator struct {
	provider      Provider
	cache         TranslationCache
	excludedTerms []string
	context       string
	glossary      map[string]string
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithExcludedTerms sets terms that should not be translated.
func WithExcludedTerms(terms []string) TranslatorOption {
	return func(t *Translator) {
		t.excludedTerms = terms
	}
}

// WithContext sets the global translation context (e.g. "chat frontend UI").
func WithContext(ctx string) TranslatorOption {
	return func(t *Translator) {
		t.context = ctx
	}
}

// WithGlossary sets preferred translations for specific phrases.
func WithGlossary(glossary map[string]string) TranslatorOption {
	return func(t *Translator) {
		t.glossary = glossary
	}
}

// NewTranslator creates a Translator backed by provider.
func NewTranslator(provider Provider, opts ...TranslatorOption) *Translator {
	t := &Translator{provider: provider}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate implements TextTranslator.
func (t *Translator) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	if text == "" || IsSourceLocale(sourceLocale, targetLocale) {
		return text, nil
	}

	cacheKey := CacheKey(HashText(text), sourceLocale, targetLocale)
	if t.cache != nil {
		if cached, ok := t.cache.Get(cacheKey); ok {
			return cached, nil
		}
	}

	if t.provider == nil {
		return "", &TranslationError{Message: "no translation provider configured"}
	}

	results, err := t.provider.Translate(ctx, TranslateRequest{
		Texts:         []string{text},
		TargetLang:    targetLocale,
		SourceLang:    sourceLocale,
		ExcludedTerms: t.excludedTerms,
		Context:       t.context,
		Glossary:      t.glossary,
	})
	if err != nil {
		return "", err
	}
	if len(results) != 1 {
		return "", &CountMismatchError{Expected: 1, Got: len(results)}
	}

	if t.cache != nil {
		_ = t.cache.Set(cacheKey, results[0]) // Ignore cache set errors
	}
	return results[0], nil
}

// TranslateWithFallback translates text into target, renormalizing the
// locale when the backend rejects the exact code: first the region is
// upper-cased, then the base language is used alone. Only an
// *UnsupportedLocaleError triggers a retry, so there are at most two.
//
// It returns the translation and the locale code that was accepted, which
// callers can reuse for the rest of the catalog.
func TranslateWithFallback(ctx context.Context, tr TextTranslator, text, source, target string) (string, string, error) {
	var lastErr error
	for _, locale := range LocaleFallbacks(target) {
		result, err := tr.Translate(ctx, text, source, locale)
		if err == nil {
			return result, locale, nil
		}
		lastErr = err
		if !IsUnsupportedLocale(err) {
			return "", target, err
		}
	}
	return "", target, lastErr
}

// Verify Translator implements TextTranslator
var _ TextTranslator = (*Translator)(nil)
