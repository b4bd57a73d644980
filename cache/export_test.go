package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestExporter_Export(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	c.Set("key2", "<b>value2</b>")
	c.Set("key1", "value1")

	exporter := NewExporter(c)
	exporter.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	var buf bytes.Buffer

	if err := exporter.Export(context.Background(), &buf, map[string]string{"source": "en"}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	want := ExportFormat{
		Version:    "1.0",
		ExportedAt: "2024-05-01T12:00:00Z",
		Entries:    []ExportEntry{{Key: "key1", Value: "value1"}, {Key: "key2", Value: "<b>value2</b>"}},
		Metadata:   map[string]string{"source": "en"},
	}
	if diff := cmp.Diff(want, export); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "<b>value2</b>") {
		t.Error("markup should not be escaped")
	}
}

func TestExporter_Redis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	mock.ExpectScan(0, "i18nsync:*", 100).SetVal([]string{"i18nsync:h:en:fr"}, 0)
	mock.ExpectGet("i18nsync:h:en:fr").SetVal("Bonjour")

	var buf bytes.Buffer
	if err := NewExporter(NewRedisCacheFromClient(db, 0, "")).Export(context.Background(), &buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	json.Unmarshal(buf.Bytes(), &export)
	if diff := cmp.Diff([]ExportEntry{{Key: "h:en:fr", Value: "Bonjour"}}, export.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

type plainCache struct{}

func (plainCache) Get(string) (string, bool) { return "", false }
func (plainCache) Set(string, string) error  { return nil }

func TestExporter_UnsupportedCache(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter(plainCache{}).Export(context.Background(), &buf, nil); err == nil {
		t.Error("expected error for a cache without listing support")
	}
}

func TestImporter_Import(t *testing.T) {
	jsonData := `{
		"version": "1.0",
		"exported_at": "2024-01-01T00:00:00Z",
		"entries": [
			{"key": "key1", "value": "value1"},
			{"key": "key2", "value": "value2"}
		],
		"metadata": {"source": "en"}
	}`

	c := NewMemoryCache(time.Hour)
	result, err := NewImporter(c).Import(strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.Imported != 2 || result.Failed != 0 || result.Version != "1.0" {
		t.Errorf("result = %+v", result)
	}
	if val, ok := c.Get("key2"); !ok || val != "value2" {
		t.Errorf("key2 not found or wrong value: %s", val)
	}
}

func TestExportImport_FileRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	ctx := context.Background()

	src := NewMemoryCache(0)
	src.Set("hash1:en:es", "Hola")
	src.Set("hash2:en:es", "Mundo")

	if err := NewExporter(src).ExportToFile(ctx, fs, "/cache/memo.json", nil); err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}

	dst := NewMemoryCache(0)
	result, err := NewImporter(dst).ImportFromFile(fs, "/cache/memo.json")
	if err != nil {
		t.Fatalf("ImportFromFile failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", result.Imported)
	}
	if diff := cmp.Diff(src.Entries(), dst.Entries()); diff != "" {
		t.Errorf("round trip mismatch (-src +dst):\n%s", diff)
	}

	if _, err := NewImporter(dst).ImportFromFile(fs, "/cache/missing.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	_, err := NewImporter(NewMemoryCache(0)).Import(strings.NewReader("invalid json"))
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
