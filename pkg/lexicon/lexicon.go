/*
Package lexicon holds the immutable word table consulted at query time.

A Lexicon maps every known surface form to the categories it belongs to
and a frequency weight. It is produced by a Builder in one batch and never
changes afterwards; reloading builds a new Lexicon and swaps it into a
Store.

Words are kept sorted by rune length and then bytewise. That order is the
iteration order used everywhere (AllWords, WordsWithLength), which keeps
suggestion ranking stable across calls and rebuilds.
*/
package lexicon

import (
	"sort"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/bastiangx/padaserve/pkg/category"
)

// Entry is what the lexicon knows about a word.
type Entry struct {
	Categories category.Set
	Frequency  int
}

// Lexicon is a read-only word table. A nil *Lexicon behaves as empty.
type Lexicon struct {
	entries    map[string]Entry
	words      []string
	offsets    []int
	trie       *patricia.Trie
	collisions []Collision
	policy     MergePolicy
}

func newLexicon(entries map[string]Entry, collisions []Collision, policy MergePolicy) *Lexicon {
	words := make([]string, 0, len(entries))
	for w := range entries {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool { return less(words[i], words[j]) })

	maxLen := 0
	if n := len(words); n > 0 {
		maxLen = utf8.RuneCountInString(words[n-1])
	}
	// offsets[l] is the index of the first word with rune length >= l.
	offsets := make([]int, maxLen+2)
	l := 0
	for i, w := range words {
		for wl := utf8.RuneCountInString(w); l <= wl; l++ {
			offsets[l] = i
		}
	}
	for ; l < len(offsets); l++ {
		offsets[l] = len(words)
	}

	trie := patricia.NewTrie()
	for _, w := range words {
		trie.Insert(patricia.Prefix(w), entries[w].Frequency)
	}

	return &Lexicon{
		entries:    entries,
		words:      words,
		offsets:    offsets,
		trie:       trie,
		collisions: collisions,
		policy:     policy,
	}
}

// FromEntries builds a lexicon directly from stored entries, as when
// reading a cache. Entries without categories or with negative
// frequencies are kept as they are.
func FromEntries(entries map[string]Entry, policy MergePolicy) *Lexicon {
	copied := make(map[string]Entry, len(entries))
	for w, e := range entries {
		if w != "" {
			copied[w] = e
		}
	}
	return newLexicon(copied, nil, policy)
}

// Range calls fn for every word in iteration order until fn returns false.
func (l *Lexicon) Range(fn func(word string, e Entry) bool) {
	if l == nil {
		return
	}
	for _, w := range l.words {
		if !fn(w, l.entries[w]) {
			return
		}
	}
}

// Len returns the number of distinct words.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// Contains reports whether word is in the lexicon. Matching is exact;
// transliterated text is case sensitive.
func (l *Lexicon) Contains(word string) bool {
	if l == nil {
		return false
	}
	_, ok := l.entries[word]
	return ok
}

// Lookup returns the entry for word.
func (l *Lexicon) Lookup(word string) (Entry, bool) {
	if l == nil {
		return Entry{}, false
	}
	e, ok := l.entries[word]
	return e, ok
}

// CategoriesOf returns the categories word belongs to, empty when absent.
func (l *Lexicon) CategoriesOf(word string) category.Set {
	e, _ := l.Lookup(word)
	return e.Categories
}

// FrequencyOf returns the frequency of word, 0 when absent or unranked.
func (l *Lexicon) FrequencyOf(word string) int {
	e, _ := l.Lookup(word)
	return e.Frequency
}

// AllWords returns every word in iteration order. The slice is shared and
// must not be modified.
func (l *Lexicon) AllWords() []string {
	if l == nil {
		return nil
	}
	return l.words[:len(l.words):len(l.words)]
}

// WordsWithLength returns the words whose rune length lies in [min, max],
// in iteration order. The slice is shared and must not be modified.
func (l *Lexicon) WordsWithLength(min, max int) []string {
	if l == nil || len(l.words) == 0 || max < min {
		return nil
	}
	if min < 0 {
		min = 0
	}
	last := len(l.offsets) - 1
	if min > last {
		return nil
	}
	if max+1 > last {
		max = last - 1
	}
	start, end := l.offsets[min], l.offsets[max+1]
	return l.words[start:end:end]
}

// WithPrefix returns up to limit words starting with prefix, most frequent
// first and then in iteration order. A limit <= 0 means no limit.
func (l *Lexicon) WithPrefix(prefix string, limit int) []string {
	if l == nil || prefix == "" {
		return nil
	}
	var matches []string
	_ = l.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		matches = append(matches, string(p))
		return nil
	})
	sort.SliceStable(matches, func(i, j int) bool {
		fi, fj := l.entries[matches[i]].Frequency, l.entries[matches[j]].Frequency
		if fi != fj {
			return fi > fj
		}
		return less(matches[i], matches[j])
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Collisions returns the merge events recorded while building.
func (l *Lexicon) Collisions() []Collision {
	if l == nil {
		return nil
	}
	return append([]Collision(nil), l.collisions...)
}

// Policy returns the merge policy the lexicon was built with.
func (l *Lexicon) Policy() MergePolicy {
	if l == nil {
		return MergeMax
	}
	return l.policy
}

// Equal reports whether both lexicons hold the same words with the same
// categories and frequencies.
func (l *Lexicon) Equal(o *Lexicon) bool {
	if l.Len() != o.Len() {
		return false
	}
	if l.Len() == 0 {
		return true
	}
	for w, e := range l.entries {
		oe, ok := o.entries[w]
		if !ok || oe != e {
			return false
		}
	}
	return true
}

// Stats summarises a lexicon.
type Stats struct {
	Words      int
	ByCategory map[string]int
	Ranked     int
	MaxLength  int
	Collisions int
}

// Stats computes summary counts.
func (l *Lexicon) Stats() Stats {
	s := Stats{ByCategory: make(map[string]int)}
	if l == nil {
		return s
	}
	s.Words = len(l.words)
	s.Collisions = len(l.collisions)
	if len(l.offsets) > 1 {
		s.MaxLength = len(l.offsets) - 2
	}
	for _, e := range l.entries {
		for _, c := range e.Categories.Slice() {
			s.ByCategory[c.String()]++
		}
		if e.Frequency > 0 {
			s.Ranked++
		}
	}
	return s
}

func less(a, b string) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
