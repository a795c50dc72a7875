package dictionary

// Index maps every written (kanji) and reading (kana) form to the entries
// that carry it. Entry order follows the source dataset, so the first entry
// of a list is the authoritative one. An Index is read-only once built.
type Index struct {
	entries map[string][]JMdictEntry
	size    int
}

// NewIndex builds an in-memory index of the provided dictionary.
func NewIndex(entries []JMdictEntry) *Index {
	idx := make(map[string][]JMdictEntry)
	for _, e := range entries {
		// Index by Kanji
		for _, k := range e.Kanji {
			idx[k.Text] = append(idx[k.Text], e)
		}
		// Index by Kana
		for _, k := range e.Kana {
			idx[k.Text] = append(idx[k.Text], e)
		}
	}
	return &Index{entries: idx, size: len(entries)}
}

// Lookup returns the entries whose written or reading forms equal word.
func (ix *Index) Lookup(word string) []JMdictEntry {
	if ix == nil {
		return nil
	}
	return ix.entries[word]
}

// Len returns the number of distinct indexed forms.
func (ix *Index) Len() int { return len(ix.entries) }

// Entries returns the number of dictionary entries the index was built from.
func (ix *Index) Entries() int { return ix.size }
