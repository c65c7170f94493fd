package lexicon

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/padaserve/pkg/category"
)

// MergePolicy decides the frequency kept when a word is added twice.
// Categories are always unioned.
type MergePolicy uint8

const (
	// MergeMax keeps the highest frequency seen.
	MergeMax MergePolicy = iota
	// MergeSum adds frequencies together.
	MergeSum
)

func (p MergePolicy) String() string {
	if p == MergeSum {
		return "sum"
	}
	return "max"
}

// ParseMergePolicy accepts "max" or "sum"; empty selects MergeMax.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "max":
		return MergeMax, nil
	case "sum":
		return MergeSum, nil
	default:
		return MergeMax, fmt.Errorf("unknown merge policy %q (want max or sum)", s)
	}
}

func (p MergePolicy) merge(a, b int) int {
	if p == MergeSum {
		return a + b
	}
	return max(a, b)
}

// Collision records a word added again with a category or frequency that
// differs from what was already stored. It is informational only.
type Collision struct {
	Word     string
	Existing Entry
	Incoming Entry
	Resolved Entry
}

func (c Collision) String() string {
	return fmt.Sprintf("%s: %s/%d + %s/%d -> %s/%d", c.Word,
		c.Existing.Categories, c.Existing.Frequency,
		c.Incoming.Categories, c.Incoming.Frequency,
		c.Resolved.Categories, c.Resolved.Frequency)
}

// Word is a supplemental word with an optional frequency.
type Word struct {
	Text      string
	Frequency int
}

// Builder accumulates words for a single Build. It is not safe for
// concurrent use.
type Builder struct {
	policy     MergePolicy
	entries    map[string]Entry
	collisions []Collision
}

// NewBuilder returns an empty builder using policy.
func NewBuilder(policy MergePolicy) *Builder {
	return &Builder{
		policy:  policy,
		entries: make(map[string]Entry),
	}
}

// AddForm adds text under c. Negative frequencies count as 0.
func (b *Builder) AddForm(text string, c category.Category, freq int) {
	if text == "" {
		return
	}
	if freq < 0 {
		freq = 0
	}
	incoming := Entry{Frequency: freq}
	if c.Valid() {
		incoming.Categories = category.NewSet(c)
	}
	b.addEntry(text, incoming)
}

func (b *Builder) addEntry(text string, incoming Entry) {
	existing, ok := b.entries[text]
	if !ok {
		b.entries[text] = incoming
		return
	}

	resolved := Entry{
		Categories: existing.Categories.Union(incoming.Categories),
		Frequency:  b.policy.merge(existing.Frequency, incoming.Frequency),
	}
	b.entries[text] = resolved

	newCategory := !incoming.Categories.Subset(existing.Categories)
	if newCategory || existing.Frequency != incoming.Frequency {
		col := Collision{Word: text, Existing: existing, Incoming: incoming, Resolved: resolved}
		b.collisions = append(b.collisions, col)
		log.Debugf("lexicon collision %s", col)
	}
}

// AddSupplemental adds irregular words that no rule generates, all filed
// under c.
func (b *Builder) AddSupplemental(words []Word, c category.Category) {
	for _, w := range words {
		b.AddForm(w.Text, c, w.Frequency)
	}
}

// Merge adds every entry of lex, as if each word had been added with all
// of its categories at once.
func (b *Builder) Merge(lex *Lexicon) {
	lex.Range(func(word string, e Entry) bool {
		b.addEntry(word, e)
		return true
	})
}

// Len returns the number of distinct words added so far.
func (b *Builder) Len() int { return len(b.entries) }

// Build freezes the accumulated words into a Lexicon. The builder is
// reset and can be reused.
func (b *Builder) Build() *Lexicon {
	lex := newLexicon(b.entries, b.collisions, b.policy)
	b.entries = make(map[string]Entry)
	b.collisions = nil
	return lex
}
