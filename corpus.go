package i18nsync

// Corpus is the merged extraction result of a whole source tree.
type Corpus struct {
	Entries   *Entries      // key -> default value, first-seen order
	Positions PositionIndex // key -> first (file, ordinal)
	Files     []string      // normalized paths in visitation order
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		Entries:   NewEntries(),
		Positions: make(PositionIndex),
	}
}

// Add folds one file's extraction into the corpus. Files must be added in
// visitation order: positions are only recorded for keys not seen before.
func (c *Corpus) Add(path string, extracted *Entries) {
	c.Files = append(c.Files, path)
	if extracted == nil {
		return
	}
	for i, key := range extracted.keys {
		if key == "" {
			continue
		}
		if _, ok := c.Positions[key]; !ok {
			c.Positions[key] = SourcePosition{Path: path, Ordinal: i}
		}
	}
	c.Entries.Merge(extracted)
}

// Position returns the recorded first position of key.
func (c *Corpus) Position(key string) (SourcePosition, bool) {
	p, ok := c.Positions[key]
	return p, ok
}
