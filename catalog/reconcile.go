package catalog

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
)

// Reconciler brings one catalog in line with the corpus according to a
// Policy.
type Reconciler struct {
	policy     i18nsync.Policy
	translator i18nsync.TextTranslator
	source     string
	reporter   Reporter
	logger     zerolog.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithTranslator sets the translator used when the policy enables
// AutoTranslate.
func WithTranslator(t i18nsync.TextTranslator) ReconcilerOption {
	return func(r *Reconciler) {
		r.translator = t
	}
}

// WithSourceLang sets the language of the default values. Defaults to "en".
func WithSourceLang(lang string) ReconcilerOption {
	return func(r *Reconciler) {
		if lang != "" {
			r.source = lang
		}
	}
}

// WithReporter sets the receiver of status events.
func WithReporter(rep Reporter) ReconcilerOption {
	return func(r *Reconciler) {
		if rep != nil {
			r.reporter = rep
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.logger = l
	}
}

// NewReconciler creates a reconciler for policy.
func NewReconciler(policy i18nsync.Policy, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		policy:   policy,
		source:   "en",
		reporter: ReporterFunc(func(Event) {}),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the reconciler's policy.
func (r *Reconciler) Policy() i18nsync.Policy {
	return r.policy
}

// Reconcile updates cat in memory and returns what it saw and did.
//
// Every corpus key the catalog lacks, or stores with an empty translation,
// is not found. Keys with an empty default are skipped. The rest are added
// when the policy allows it, translated first with AutoTranslate; a failed
// translation is counted as an error and the key stays unset. Catalog keys
// the corpus does not reference are extra and removed with AutoRemove.
// SortKeys finally orders the catalog by first appearance in the sources.
func (r *Reconciler) Reconcile(ctx context.Context, cat *Catalog, c *i18nsync.Corpus) i18nsync.Counters {
	var counters i18nsync.Counters
	diff := i18nsync.DiffKeys(c.Entries, cat.Entries)
	name := cat.Name()
	locale := cat.Locale
	stats := diff.Stats()
	r.logger.Debug().
		Str("catalog", cat.Path).
		Bool("changes", diff.HasChanges()).
		Int("not_found", stats.NotFound).
		Int("extra", stats.Extra).
		Int("present", stats.Present).
		Msg("Catalog compared")

	for _, e := range diff.NotFound {
		counters.NotFound++
		r.report(Event{Kind: EventNotFound, Catalog: name, Key: e.Key})

		if e.Value == "" {
			counters.Skipped++
			r.report(Event{Kind: EventSkipped, Catalog: name, Key: e.Key})
			continue
		}
		if !r.policy.AutoAdd {
			continue
		}

		value := e.Value
		if r.policy.AutoTranslate {
			translated, used, err := r.translate(ctx, e.Value, locale)
			if err != nil {
				counters.Errors++
				r.logger.Warn().Err(err).Str("catalog", cat.Path).Str("key", e.Key).Msg("Translation failed")
				r.report(Event{Kind: EventError, Catalog: name, Path: cat.Path, Key: e.Key, Err: err})
				continue
			}
			if used != locale {
				r.logger.Debug().Str("catalog", cat.Path).Str("from", locale).Str("to", used).Msg("Locale fallback")
				locale = used
			}
			value = translated
		}

		cat.Entries.Set(e.Key, value)
		counters.Added++
		r.report(Event{Kind: EventAdded, Catalog: name, Key: e.Key, Translated: r.policy.AutoTranslate})
	}

	for _, key := range diff.Extra {
		counters.Extra++
		r.report(Event{Kind: EventExtra, Catalog: name, Key: key})
		if r.policy.AutoRemove {
			cat.Entries.Delete(key)
			counters.Removed++
			r.report(Event{Kind: EventRemoved, Catalog: name, Key: key})
		}
	}

	if r.policy.SortKeys {
		SortEntries(cat.Entries, c)
	}
	return counters
}

func (r *Reconciler) translate(ctx context.Context, text, locale string) (string, string, error) {
	if r.translator == nil {
		return "", locale, &i18nsync.TranslationError{Message: "no translator configured"}
	}
	return i18nsync.TranslateWithFallback(ctx, r.translator, text, r.source, locale)
}

func (r *Reconciler) report(e Event) {
	r.reporter.Report(e)
}

type sortKey struct {
	absent  int
	path    string
	ordinal int
	folded  string
	key     string
}

// SortEntries orders entries by first appearance in the sources: keys the
// corpus references come first, by (file, position in file); the rest
// follow. Ties are broken by the case-folded key, then the key itself.
func SortEntries(entries *i18nsync.Entries, c *i18nsync.Corpus) {
	fold := cases.Fold()
	keys := entries.Keys()
	sk := make(map[string]sortKey, len(keys))
	for _, k := range keys {
		s := sortKey{path: "", ordinal: math.MaxInt, folded: fold.String(k), key: k}
		if !c.Entries.Has(k) {
			s.absent = 1
		}
		if p, ok := c.Position(k); ok {
			s.path, s.ordinal = p.Path, p.Ordinal
		}
		sk[k] = s
	}

	slices.SortFunc(keys, func(a, b string) int {
		x, y := sk[a], sk[b]
		return cmp.Or(
			cmp.Compare(x.absent, y.absent),
			cmp.Compare(x.path, y.path),
			cmp.Compare(x.ordinal, y.ordinal),
			cmp.Compare(x.folded, y.folded),
			cmp.Compare(x.key, y.key),
		)
	})
	entries.Reorder(keys)
}
