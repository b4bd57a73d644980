package i18nsync

// Entries is an insertion-ordered key to value mapping. It backs per-file
// extraction results, the merged corpus and locale catalogs.
//
// The zero value is not usable; create one with NewEntries.
type Entries struct {
	keys   []string
	values map[string]string
}

// NewEntries creates an empty ordered mapping.
func NewEntries() *Entries {
	return &Entries{values: make(map[string]string)}
}

// EntriesFrom builds an ordered mapping from key/value pairs, in order.
// Later pairs overwrite the value of an earlier key but keep its position.
func EntriesFrom(pairs ...KeyEntry) *Entries {
	e := NewEntries()
	for _, p := range pairs {
		e.Set(p.Key, p.Value)
	}
	return e
}

// Len returns the number of keys.
func (e *Entries) Len() int {
	return len(e.keys)
}

// Get returns the value stored for key.
func (e *Entries) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Has reports whether key is present.
func (e *Entries) Has(key string) bool {
	_, ok := e.values[key]
	return ok
}

// Set stores value for key. A new key is appended; an existing key keeps
// its position.
func (e *Entries) Set(key, value string) {
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// SetIfAbsent stores value only when key is not present yet.
// It returns true when the value was stored.
func (e *Entries) SetIfAbsent(key, value string) bool {
	if _, ok := e.values[key]; ok {
		return false
	}
	e.keys = append(e.keys, key)
	e.values[key] = value
	return true
}

// Delete removes key. It is a no-op for absent keys.
func (e *Entries) Delete(key string) {
	if _, ok := e.values[key]; !ok {
		return
	}
	delete(e.values, key)
	for i, k := range e.keys {
		if k == key {
			e.keys = append(e.keys[:i], e.keys[i+1:]...)
			break
		}
	}
}

// Keys returns a copy of the keys in order.
func (e *Entries) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Pairs returns the entries in order.
func (e *Entries) Pairs() []KeyEntry {
	out := make([]KeyEntry, len(e.keys))
	for i, k := range e.keys {
		out[i] = KeyEntry{Key: k, Value: e.values[k]}
	}
	return out
}

// Merge folds src into e:
//   - a new key is appended,
//   - an existing key with an empty value takes a non-empty value from src,
//   - otherwise the value already stored wins.
//
// Empty keys are ignored.
func (e *Entries) Merge(src *Entries) {
	if src == nil {
		return
	}
	for _, k := range src.keys {
		if k == "" {
			continue
		}
		v := src.values[k]
		cur, ok := e.values[k]
		switch {
		case !ok:
			e.keys = append(e.keys, k)
			e.values[k] = v
		case cur == "" && v != "":
			e.values[k] = v
		}
	}
}

// Reorder replaces the key order. keys must be a permutation of the current
// keys; unknown keys are dropped and missing keys are appended in their
// previous relative order.
func (e *Entries) Reorder(keys []string) {
	seen := make(map[string]bool, len(keys))
	next := make([]string, 0, len(e.keys))
	for _, k := range keys {
		if _, ok := e.values[k]; ok && !seen[k] {
			seen[k] = true
			next = append(next, k)
		}
	}
	for _, k := range e.keys {
		if !seen[k] {
			next = append(next, k)
		}
	}
	e.keys = next
}
