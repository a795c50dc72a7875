// Package vocab ranks the candidate words of a chapter and tracks which words
// earlier chapters already used.
package vocab

import "sort"

// Ranked is a distinct word with its number of occurrences in one chapter.
type Ranked struct {
	Word  string
	Count int
}

// Rank counts words and returns them by descending count. Words with equal
// counts keep the order of their first occurrence.
func Rank(words []string) []Ranked {
	index := make(map[string]int, len(words))
	var ranked []Ranked
	for _, w := range words {
		if i, ok := index[w]; ok {
			ranked[i].Count++
			continue
		}
		index[w] = len(ranked)
		ranked = append(ranked, Ranked{Word: w, Count: 1})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// Ledger is the set of words already emitted in a run. It only grows.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	seen  map[string]struct{}
	order []string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// Claim records word and reports whether it was not seen before.
func (l *Ledger) Claim(word string) bool {
	if _, ok := l.seen[word]; ok {
		return false
	}
	l.seen[word] = struct{}{}
	l.order = append(l.order, word)
	return true
}

// Seen reports whether word was claimed.
func (l *Ledger) Seen(word string) bool {
	_, ok := l.seen[word]
	return ok
}

// Len returns the number of claimed words.
func (l *Ledger) Len() int { return len(l.order) }

// Words returns the claimed words in claim order.
func (l *Ledger) Words() []string {
	return append([]string(nil), l.order...)
}
