package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/spf13/afero"
)

// ExportVersion is the format version written by Export.
const ExportVersion = "1.0"

// ExportFormat represents the JSON structure for cache export/import.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry represents a single cache entry.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Exporter provides cache export functionality.
type Exporter struct {
	cache TranslationCache
	now   func() time.Time
}

// NewExporter creates a new cache exporter.
func NewExporter(cache TranslationCache) *Exporter {
	return &Exporter{cache: cache, now: time.Now}
}

// Export writes the cache contents to w as indented JSON, sorted by key.
func (e *Exporter) Export(ctx context.Context, w io.Writer, metadata map[string]string) error {
	entries, err := e.getAllEntries(ctx)
	if err != nil {
		return fmt.Errorf("getting cache entries: %w", err)
	}

	export := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ExportToFile exports the cache to path on fs.
func (e *Exporter) ExportToFile(ctx context.Context, fs afero.Fs, path string, metadata map[string]string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := e.Export(ctx, f, metadata); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (e *Exporter) getAllEntries(ctx context.Context) ([]ExportEntry, error) {
	var pairs []i18nsync.KeyEntry
	switch c := e.cache.(type) {
	case *MemoryCache:
		pairs = c.Entries()
	case *RedisCache:
		var err error
		if pairs, err = c.Entries(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("cache type %T does not support export", e.cache)
	}

	entries := make([]ExportEntry, len(pairs))
	for i, p := range pairs {
		entries[i] = ExportEntry{Key: p.Key, Value: p.Value}
	}
	return entries, nil
}

// Importer provides cache import functionality.
type Importer struct {
	cache TranslationCache
}

// NewImporter creates a new cache importer.
func NewImporter(cache TranslationCache) *Importer {
	return &Importer{cache: cache}
}

// Import reads cache entries from a reader and loads them into the cache.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, entry := range export.Entries {
		if err := i.cache.Set(entry.Key, entry.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports cache entries from path on fs.
func (i *Importer) ImportFromFile(fs afero.Fs, path string) (*ImportResult, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}
