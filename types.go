package i18nsync

import "context"

// DefaultMarkerAttr is the markup attribute that flags translatable elements.
const DefaultMarkerAttr = "data-i18n"

// KeyEntry is an extracted key with the default (source language) value
// used to seed catalogs.
type KeyEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SourcePosition records where a key first appeared: the normalized,
// lower-cased relative path of the file and the key's 0-based index in that
// file's extraction order.
type SourcePosition struct {
	Path    string `json:"path"`
	Ordinal int    `json:"ordinal"`
}

// PositionIndex maps a key to its first SourcePosition.
type PositionIndex map[string]SourcePosition

// Policy selects what the reconciler is allowed to change.
type Policy struct {
	AutoAdd       bool `json:"auto_add" yaml:"auto_add"`             // Write missing keys with a non-empty default
	AutoTranslate bool `json:"auto_translate" yaml:"auto_translate"` // Route added values through the translator
	AutoRemove    bool `json:"auto_remove" yaml:"auto_remove"`       // Delete catalog keys absent from the corpus
	SortKeys      bool `json:"sort_keys" yaml:"sort_keys"`           // Order keys by first appearance in the source tree
}

// DefaultPolicy mirrors the command line defaults: add missing keys, leave
// everything else alone.
func DefaultPolicy() Policy {
	return Policy{AutoAdd: true}
}

// Counters tallies what a reconciliation pass saw and did.
type Counters struct {
	NotFound int `json:"not_found"`
	Added    int `json:"added"`
	Skipped  int `json:"skipped"`
	Extra    int `json:"extra"`
	Removed  int `json:"removed"`
	Errors   int `json:"errors"`
}

// Add accumulates o into c.
func (c *Counters) Add(o Counters) {
	c.NotFound += o.NotFound
	c.Added += o.Added
	c.Skipped += o.Skipped
	c.Extra += o.Extra
	c.Removed += o.Removed
	c.Errors += o.Errors
}

// KeyExtractor pulls translation keys out of one source file.
type KeyExtractor interface {
	Extract(content string) (*Entries, error)
	ContentType() string
}

// TextTranslator is the machine translation capability used when adding
// keys. Implementations return an *UnsupportedLocaleError when the exact
// target locale is not supported.
type TextTranslator interface {
	Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error)
}
