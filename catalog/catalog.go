// Package catalog loads, reconciles and saves per-locale JSON catalogs.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/i18nsync"
	"github.com/spf13/afero"
)

// DefaultIndent is the number of spaces per nesting level in saved catalogs.
const DefaultIndent = 4

// DefaultSkipSuffixes are catalog names Discover leaves alone: the language
// list and the source language catalog.
var DefaultSkipSuffixes = []string{"lang.json", "en.json"}

// Catalog is one locale's key to translation mapping.
type Catalog struct {
	Path    string
	Locale  string // base name up to the first dot
	Entries *i18nsync.Entries
}

// New creates an empty catalog for path.
func New(path string) *Catalog {
	return &Catalog{
		Path:    path,
		Locale:  i18nsync.LocaleFromPath(path),
		Entries: i18nsync.NewEntries(),
	}
}

// Name returns the file name without its extension.
func (c *Catalog) Name() string {
	base := filepath.Base(filepath.FromSlash(c.Path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads and parses the catalog at path.
func Load(fs afero.Fs, path string) (*Catalog, error) {
	c, _, err := load(fs, path)
	return c, err
}

// load also returns the raw content, so callers can tell whether a save
// would change the file.
func load(fs afero.Fs, path string) (*Catalog, []byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, nil, &i18nsync.CatalogError{Path: path, Op: "read", Cause: err}
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, nil, &i18nsync.CatalogError{Path: path, Op: "parse", Cause: err}
	}
	c := New(path)
	c.Entries = entries
	return c, data, nil
}

// Parse decodes a JSON object of strings, keeping the key order of the
// document. A repeated key keeps its first position and its last value.
func Parse(data []byte) (*i18nsync.Entries, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("catalog must be a JSON object")
	}

	entries := i18nsync.NewEntries()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		value, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("value for key %q is not a string", key)
		}
		entries.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after catalog object")
	}
	return entries, nil
}

// Marshal encodes the catalog as an indented JSON object in key order, with
// non-ASCII text and markup characters written as-is and a trailing newline.
func (c *Catalog) Marshal(indent int) ([]byte, error) {
	if indent <= 0 {
		indent = DefaultIndent
	}
	pad := strings.Repeat(" ", indent)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	pairs := c.Entries.Pairs()
	if len(pairs) == 0 {
		return []byte("{}\n"), nil
	}

	buf.WriteString("{\n")
	for i, p := range pairs {
		buf.WriteString(pad)
		if err := encodeString(&buf, enc, p.Key); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		if err := encodeString(&buf, enc, p.Value); err != nil {
			return nil, err
		}
		if i < len(pairs)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// encodeString appends s as a JSON string. The encoder writes a newline
// after every value, which is dropped.
func encodeString(buf *bytes.Buffer, enc *json.Encoder, s string) error {
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Save writes the catalog to its path. The content goes to a temporary file
// in the same directory first, which then replaces the catalog.
func (c *Catalog) Save(fs afero.Fs, indent int) error {
	data, err := c.Marshal(indent)
	if err != nil {
		return &i18nsync.CatalogError{Path: c.Path, Op: "write", Cause: err}
	}
	if err := writeFileAtomic(fs, c.Path, data); err != nil {
		return &i18nsync.CatalogError{Path: c.Path, Op: "write", Cause: err}
	}
	return nil
}

func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(fs, dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(name)
		return err
	}
	if err := fs.Rename(name, path); err != nil {
		fs.Remove(name)
		return err
	}
	return nil
}

// Discover lists the *.json catalogs in dir, sorted by name, skipping
// names that end with one of skip.
func Discover(fs afero.Fs, dir string, skip []string) ([]string, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales directory: %w", err)
	}

	var paths []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasSuffix(name, ".json") || hasAnySuffix(name, skip) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
