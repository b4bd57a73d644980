package i18nsync

// KeyDiff is the difference between the keys found in the sources and the
// keys stored in one catalog.
type KeyDiff struct {
	// NotFound holds source keys the catalog lacks or stores with an empty
	// translation, in source order, with their default values.
	NotFound []KeyEntry

	// Extra holds catalog keys that no source file references, in catalog
	// order.
	Extra []string

	// Present counts source keys with a non-empty catalog translation.
	Present int
}

// HasChanges returns true if the catalog is out of sync with the sources.
func (d *KeyDiff) HasChanges() bool {
	return len(d.NotFound) > 0 || len(d.Extra) > 0
}

// Stats returns summary statistics for the diff.
func (d *KeyDiff) Stats() DiffStats {
	return DiffStats{
		NotFound: len(d.NotFound),
		Extra:    len(d.Extra),
		Present:  d.Present,
	}
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	NotFound int `json:"not_found"`
	Extra    int `json:"extra"`
	Present  int `json:"present"`
}

// DiffKeys compares the source keys against a catalog. An empty catalog
// value counts as not found.
func DiffKeys(source, catalog *Entries) *KeyDiff {
	d := &KeyDiff{}
	if source == nil {
		source = NewEntries()
	}
	if catalog == nil {
		catalog = NewEntries()
	}

	for _, k := range source.keys {
		if v, ok := catalog.values[k]; ok && v != "" {
			d.Present++
			continue
		}
		d.NotFound = append(d.NotFound, KeyEntry{Key: k, Value: source.values[k]})
	}
	for _, k := range catalog.keys {
		if !source.Has(k) {
			d.Extra = append(d.Extra, k)
		}
	}
	return d
}
