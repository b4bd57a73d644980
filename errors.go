package i18nsync

import (
	"errors"
	"fmt"
)

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a translation backend failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// UnsupportedLocaleError reports that a backend does not know the exact
// requested locale. The reconciler retries with a renormalized code.
type UnsupportedLocaleError struct {
	Locale string
	Cause  error
}

func (e *UnsupportedLocaleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unsupported locale %q: %v", e.Locale, e.Cause)
	}
	return fmt.Sprintf("unsupported locale %q", e.Locale)
}

func (e *UnsupportedLocaleError) Unwrap() error {
	return e.Cause
}

// IsUnsupportedLocale reports whether err (or anything it wraps) is an
// *UnsupportedLocaleError.
func IsUnsupportedLocale(err error) bool {
	var ule *UnsupportedLocaleError
	return errors.As(err, &ule)
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a source processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// CatalogError indicates a catalog file could not be read, parsed or saved.
type CatalogError struct {
	Path  string
	Op    string // "read", "parse" or "write"
	Cause error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("catalog %s %s: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("catalog %s %s", e.Op, e.Path)
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates a backend returned a different number of translations than expected.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("translation count mismatch: expected %d, got %d", e.Expected, e.Got)
}
