// Package corpus walks a source tree and folds the keys extracted from every
// markup and script file into one i18nsync.Corpus.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/ZaguanLabs/i18nsync/processor"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Default selection rules.
var (
	DefaultExtensions = []string{".html", ".js", ".mjs", ".cjs", ".ts", ".tsx"}

	DefaultExcludeSegments = []string{".git", "node_modules", "dist", "build", "coverage", "__pycache__"}

	DefaultExcludePrefixes = []string{
		"plugins/",
		"public/plugins/",
		"user/plugins/",
		"extensions/third-party/",
		"scripts/extensions/third-party/",
		"public/scripts/extensions/third-party/",
	}
)

// Options selects which files under Root are scanned. All matching is
// case-insensitive against the slash-separated path relative to Root.
type Options struct {
	Root            string
	Extensions      []string
	ExcludeSegments []string // any path segment equal to one of these is skipped
	ExcludePrefixes []string // relative paths starting with one of these are skipped
	ExcludeGlobs    []string // extra patterns, '/' is the separator
	Workers         int      // concurrent extractions, 0 means 4
	Marker          string   // markup attribute, empty means data-i18n
}

// DefaultOptions returns the standard selection rules for root.
func DefaultOptions(root string) Options {
	return Options{
		Root:            root,
		Extensions:      slices.Clone(DefaultExtensions),
		ExcludeSegments: slices.Clone(DefaultExcludeSegments),
		ExcludePrefixes: slices.Clone(DefaultExcludePrefixes),
		Workers:         4,
	}
}

// File is a source file selected for extraction.
type File struct {
	Path string // path on the filesystem
	Rel  string // normalized, lower-cased path relative to the root
}

// Walker selects source files and builds the corpus.
type Walker struct {
	fs         afero.Fs
	root       string
	workers    int
	exts       map[string]bool
	segments   map[string]bool
	prefixes   []string
	globs      []glob.Glob
	extractors *processor.Set
	logger     zerolog.Logger
	progress   func(done, total int)
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithLogger sets the logger for skipped and unreadable files.
func WithLogger(l zerolog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = l
	}
}

// WithExtractors replaces the extractors built from Options.Marker.
func WithExtractors(s *processor.Set) WalkerOption {
	return func(w *Walker) {
		if s != nil {
			w.extractors = s
		}
	}
}

// WithProgress registers a callback invoked after each file is extracted.
// Calls are serialized.
func WithProgress(fn func(done, total int)) WalkerOption {
	return func(w *Walker) {
		w.progress = fn
	}
}

// NewWalker creates a walker. It fails when an exclusion glob does not
// compile.
func NewWalker(fs afero.Fs, opts Options, wopts ...WalkerOption) (*Walker, error) {
	w := &Walker{
		fs:       fs,
		root:     filepath.Clean(opts.Root),
		workers:  opts.Workers,
		exts:     lowerSet(opts.Extensions),
		segments: lowerSet(opts.ExcludeSegments),
		logger:   zerolog.Nop(),
	}
	if w.workers <= 0 {
		w.workers = 4
	}
	for _, p := range opts.ExcludePrefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			w.prefixes = append(w.prefixes, p)
		}
	}
	for _, pattern := range opts.ExcludeGlobs {
		g, err := glob.Compile(strings.ToLower(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		w.globs = append(w.globs, g)
	}

	for _, opt := range wopts {
		opt(w)
	}
	if w.extractors == nil {
		w.extractors = processor.NewSet(processor.WithMarker(opts.Marker))
	}
	return w, nil
}

// Excluded reports whether the normalized relative path rel is skipped.
func (w *Walker) Excluded(rel string) bool {
	if rel == "" || rel == "." {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg != "" && w.segments[seg] {
			return true
		}
	}
	for _, p := range w.prefixes {
		if rel == strings.TrimSuffix(p, "/") || strings.HasPrefix(rel, p) {
			return true
		}
	}
	for _, g := range w.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Collect lists the source files under the root, sorted by relative path.
// A missing or non-directory root is an error.
func (w *Walker) Collect() ([]File, error) {
	info, err := w.fs.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", w.root)
	}

	var files []File
	err = afero.Walk(w.fs, w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		rel := w.rel(path)
		if info.IsDir() {
			if path != w.root && w.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.exts[strings.ToLower(filepath.Ext(path))] || w.Excluded(rel) {
			return nil
		}
		files = append(files, File{Path: path, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	slices.SortStableFunc(files, func(a, b File) int {
		return strings.Compare(a.Rel, b.Rel)
	})
	w.logger.Debug().Int("count", len(files)).Str("root", w.root).Msg("Discovered source files")
	return files, nil
}

// Build extracts every collected file and merges the results in path
// order. Extraction runs on up to Options.Workers goroutines; the merge is
// sequential, so the corpus does not depend on scheduling. Files that cannot
// be read or parsed are logged and left out.
func (w *Walker) Build(ctx context.Context) (*i18nsync.Corpus, error) {
	files, err := w.Collect()
	if err != nil {
		return nil, err
	}

	results := make([]*i18nsync.Entries, len(files))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = w.extract(f)
			if w.progress != nil {
				mu.Lock()
				done++
				w.progress(done, len(files))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := i18nsync.NewCorpus()
	for i, f := range files {
		if results[i] == nil {
			continue
		}
		c.Add(f.Rel, results[i])
	}
	w.logger.Info().
		Int("files", len(c.Files)).
		Int("keys", c.Entries.Len()).
		Msg("Corpus built")
	return c, nil
}

func (w *Walker) extract(f File) *i18nsync.Entries {
	data, err := afero.ReadFile(w.fs, f.Path)
	if err != nil {
		w.logger.Warn().Err(err).Str("file", f.Path).Msg("Failed to read source file")
		return nil
	}
	extracted, err := w.extractors.For(f.Path).Extract(string(data))
	if err != nil {
		w.logger.Warn().Err(err).Str("file", f.Path).Msg("Failed to extract keys")
		return nil
	}
	return extracted
}

func (w *Walker) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	return strings.ToLower(filepath.ToSlash(rel))
}

func lowerSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out[v] = true
		}
	}
	return out
}
