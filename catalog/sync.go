package catalog

import (
	"bytes"
	"context"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/spf13/afero"
)

// Result is the outcome of one catalog.
type Result struct {
	Path     string            `json:"path"`
	Name     string            `json:"name"`
	Locale   string            `json:"locale"`
	Counters i18nsync.Counters `json:"counters"`
	Changed  bool              `json:"changed"`
	Err      error             `json:"-"`
}

// Report is the outcome of a whole run.
type Report struct {
	Results []Result          `json:"catalogs"`
	Totals  i18nsync.Counters `json:"totals"`
	Files   int               `json:"files"`
	Failed  int               `json:"failed"`
}

// OK reports whether every catalog was loaded and saved.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Syncer runs load, reconcile and save over a list of catalogs.
type Syncer struct {
	fs         afero.Fs
	reconciler *Reconciler
	dryRun     bool
	indent     int
}

// SyncOption configures a Syncer.
type SyncOption func(*Syncer)

// WithDryRun reconciles in memory without writing any file.
func WithDryRun(dryRun bool) SyncOption {
	return func(s *Syncer) {
		s.dryRun = dryRun
	}
}

// WithIndent sets the indentation of saved catalogs.
func WithIndent(spaces int) SyncOption {
	return func(s *Syncer) {
		if spaces > 0 {
			s.indent = spaces
		}
	}
}

// NewSyncer creates a syncer.
func NewSyncer(fs afero.Fs, r *Reconciler, opts ...SyncOption) *Syncer {
	s := &Syncer{
		fs:         fs,
		reconciler: r,
		indent:     DefaultIndent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync processes each catalog in turn. A catalog that cannot be read,
// parsed or written is counted as failed; the others still run.
func (s *Syncer) Sync(ctx context.Context, paths []string, c *i18nsync.Corpus) *Report {
	report := &Report{}
	for _, path := range paths {
		res := s.SyncFile(ctx, path, c)
		report.Results = append(report.Results, res)
		report.Totals.Add(res.Counters)
		report.Files++
		if res.Err != nil {
			report.Failed++
		}
	}
	return report
}

// SyncFile processes one catalog. The file is rewritten only when its
// content changes.
func (s *Syncer) SyncFile(ctx context.Context, path string, c *i18nsync.Corpus) Result {
	r := s.reconciler
	res := Result{Path: path, Locale: i18nsync.LocaleFromPath(path)}
	res.Name = New(path).Name()

	cat, before, err := load(s.fs, path)
	if err != nil {
		return s.fail(res, err)
	}

	r.report(Event{Kind: EventFile, Catalog: res.Name, Path: path})
	res.Counters = r.Reconcile(ctx, cat, c)

	after, err := cat.Marshal(s.indent)
	if err != nil {
		return s.fail(res, &i18nsync.CatalogError{Path: path, Op: "write", Cause: err})
	}
	res.Changed = !bytes.Equal(before, after)
	if res.Changed && !s.dryRun {
		if err := cat.Save(s.fs, s.indent); err != nil {
			return s.fail(res, err)
		}
	}

	r.logger.Debug().
		Str("catalog", path).
		Bool("changed", res.Changed).
		Bool("dry_run", s.dryRun).
		Msg("Catalog reconciled")
	r.report(Event{Kind: EventSummary, Catalog: res.Name, Path: path, Counters: res.Counters})
	return res
}

func (s *Syncer) fail(res Result, err error) Result {
	res.Err = err
	res.Counters.Errors++
	s.reconciler.logger.Error().Err(err).Str("catalog", res.Path).Msg("Catalog failed")
	s.reconciler.report(Event{Kind: EventError, Catalog: res.Name, Path: res.Path, Err: err})
	return res
}
