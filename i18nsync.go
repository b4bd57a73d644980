// Package i18nsync keeps per-locale JSON catalogs in step with the
// translation keys referenced by a web codebase.
//
// Keys are extracted from HTML and JS/TS sources by a lexical scanner that
// understands string, template, regex and comment literals, folded into a
// deterministic corpus, and reconciled against each catalog: missing keys are
// added (optionally machine translated), stale keys reported or removed, and
// the catalog re-sorted by first appearance in the source tree.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/ZaguanLabs/i18nsync"
//	    "github.com/ZaguanLabs/i18nsync/catalog"
//	    "github.com/ZaguanLabs/i18nsync/corpus"
//	    "github.com/spf13/afero"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    fs := afero.NewOsFs()
//
//	    // Walk the source tree and fold every extracted key
//	    w, err := corpus.NewWalker(fs, corpus.DefaultOptions("./public"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    c, err := w.Build(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Reconcile every locale catalog
//	    r := catalog.NewReconciler(i18nsync.Policy{AutoAdd: true, SortKeys: true})
//	    paths, err := catalog.Discover(fs, "./public/locales", catalog.DefaultSkipSuffixes)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    report := catalog.NewSyncer(fs, r).Sync(ctx, paths, c)
//	    fmt.Printf("%+v\n", report.Totals)
//	}
package i18nsync
