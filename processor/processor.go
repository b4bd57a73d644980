// Package processor provides the key extractors for markup and script
// sources.
package processor

import (
	"path"
	"strings"

	"github.com/ZaguanLabs/i18nsync"
)

// KeyExtractor is an alias to the main package interface.
type KeyExtractor = i18nsync.KeyExtractor

// Entries is an alias to the main package type.
type Entries = i18nsync.Entries

// Option configures the extractors.
type Option func(*options)

type options struct {
	marker  string
	binding BindingDetector
	noise   NoiseFilter
}

func newOptions(opts []Option) options {
	o := options{
		marker:  i18nsync.DefaultMarkerAttr,
		binding: DefaultBindingDetector,
		noise:   DefaultNoiseFilter,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMarker sets the markup attribute that flags translatable elements.
func WithMarker(attr string) Option {
	return func(o *options) {
		if attr = strings.TrimSpace(attr); attr != "" {
			o.marker = attr
		}
	}
}

// WithBindingDetector replaces the check deciding whether a script binds t
// to a translation function.
func WithBindingDetector(d BindingDetector) Option {
	return func(o *options) {
		if d != nil {
			o.binding = d
		}
	}
}

// WithNoiseFilter replaces the filter rejecting t(...) arguments that are
// not translatable text.
func WithNoiseFilter(f NoiseFilter) Option {
	return func(o *options) {
		if f != nil {
			o.noise = f
		}
	}
}

// Set pairs the markup and script extractors built from the same options.
type Set struct {
	HTML   *HTMLExtractor
	Script *ScriptExtractor
}

// NewSet creates both extractors.
func NewSet(opts ...Option) *Set {
	h := NewHTMLExtractor(opts...)
	return &Set{
		HTML:   h,
		Script: newScriptExtractor(h, newOptions(opts)),
	}
}

// For returns the extractor for a file: markup files get the structural
// pass only, everything else is scanned as script.
func (s *Set) For(name string) KeyExtractor {
	switch strings.ToLower(path.Ext(strings.ReplaceAll(name, "\\", "/"))) {
	case ".html", ".htm":
		return s.HTML
	}
	return s.Script
}
