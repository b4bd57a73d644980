package catalog

import (
	"context"
	"testing"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func syncFixture(t *testing.T) (afero.Fs, *i18nsync.Corpus) {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/loc/de.json":  `{"stale": "alt", "k1": "eins"}`,
		"/loc/fr.json":  "{\n    \"k1\": \"un\"\n}\n",
		"/loc/bad.json": `{"k1": ["not", "a", "string"]}`,
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	c := corpusOf(
		[]i18nsync.KeyEntry{{Key: "k2", Value: "Two"}, {Key: "k1", Value: "One"}},
		[]i18nsync.KeyEntry{{Key: "empty", Value: ""}},
	)
	return fs, c
}

func TestSyncer_Sync(t *testing.T) {
	fs, c := syncFixture(t)
	rec := &recorder{}
	r := NewReconciler(i18nsync.Policy{AutoAdd: true, AutoRemove: true, SortKeys: true}, WithReporter(rec))
	s := NewSyncer(fs, r)

	report := s.Sync(context.Background(), []string{"/loc/bad.json", "/loc/de.json", "/loc/fr.json"}, c)

	if report.Files != 3 || report.Failed != 1 || report.OK() {
		t.Errorf("report files=%d failed=%d", report.Files, report.Failed)
	}
	wantTotals := i18nsync.Counters{NotFound: 4, Added: 2, Skipped: 2, Extra: 1, Removed: 1, Errors: 1}
	if diff := cmp.Diff(wantTotals, report.Totals); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}
	if report.Results[0].Err == nil {
		t.Error("bad.json must fail")
	}

	de, _ := afero.ReadFile(fs, "/loc/de.json")
	wantDE := "{\n    \"k2\": \"Two\",\n    \"k1\": \"eins\"\n}\n"
	if diff := cmp.Diff(wantDE, string(de)); diff != "" {
		t.Errorf("de.json mismatch (-want +got):\n%s", diff)
	}

	bad, _ := afero.ReadFile(fs, "/loc/bad.json")
	if string(bad) != `{"k1": ["not", "a", "string"]}` {
		t.Errorf("failed catalog was rewritten: %s", bad)
	}

	lines := rec.lines()
	if lines[0][:4] != "ERR " {
		t.Errorf("first event = %q, want ERR", lines[0])
	}
	if lines[1] != "FIL de" {
		t.Errorf("second event = %q, want FIL de", lines[1])
	}
	wantSum := "SUM fr | NF:2 ADD:1 EXT:0 DEL:0 SKP:1 | /loc/fr.json"
	if got := lines[len(lines)-1]; got != wantSum {
		t.Errorf("last event = %q, want %q", got, wantSum)
	}
}

func TestSyncer_Idempotent(t *testing.T) {
	fs, c := syncFixture(t)
	r := NewReconciler(i18nsync.Policy{AutoAdd: true, AutoRemove: true, SortKeys: true})
	s := NewSyncer(fs, r)
	paths := []string{"/loc/de.json", "/loc/fr.json"}

	s.Sync(context.Background(), paths, c)
	first := map[string][]byte{}
	for _, p := range paths {
		first[p], _ = afero.ReadFile(fs, p)
	}

	report := s.Sync(context.Background(), paths, c)
	for _, res := range report.Results {
		if res.Changed {
			t.Errorf("%s changed on the second run", res.Path)
		}
		got, _ := afero.ReadFile(fs, res.Path)
		if diff := cmp.Diff(string(first[res.Path]), string(got)); diff != "" {
			t.Errorf("%s not byte-identical (-first +second):\n%s", res.Path, diff)
		}
	}
	if report.Totals.Added != 0 || report.Totals.Removed != 0 {
		t.Errorf("second run totals = %+v", report.Totals)
	}
}

func TestSyncer_DryRun(t *testing.T) {
	fs, c := syncFixture(t)
	r := NewReconciler(i18nsync.Policy{AutoAdd: true, AutoRemove: true})
	s := NewSyncer(fs, r, WithDryRun(true))

	report := s.Sync(context.Background(), []string{"/loc/de.json"}, c)
	if !report.Results[0].Changed || report.Totals.Added != 1 {
		t.Errorf("dry run result = %+v", report.Results[0])
	}

	got, _ := afero.ReadFile(fs, "/loc/de.json")
	if string(got) != `{"stale": "alt", "k1": "eins"}` {
		t.Errorf("dry run wrote the catalog: %s", got)
	}
}

func TestSyncer_Indent(t *testing.T) {
	fs, c := syncFixture(t)
	s := NewSyncer(fs, NewReconciler(i18nsync.DefaultPolicy()), WithIndent(2))

	s.SyncFile(context.Background(), "/loc/fr.json", c)

	got, _ := afero.ReadFile(fs, "/loc/fr.json")
	want := "{\n  \"k1\": \"un\",\n  \"k2\": \"Two\"\n}\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("fr.json mismatch (-want +got):\n%s", diff)
	}
}
