package category

import (
	"github.com/tchap/go-patricia/v2/patricia"
)

// StemTable maps known stems (or suffixes) to categories and answers
// longest-match queries. Two stems of equal length that both match a word
// are the same string, so a conflict can only come from registering one
// stem twice; the first registration wins and later ones are reported by
// Add returning false.
type StemTable struct {
	trie    *patricia.Trie
	suffix  bool
	entries int
}

// NewStemTable returns a table matching stems at the start of words.
func NewStemTable() *StemTable {
	return &StemTable{trie: patricia.NewTrie()}
}

// NewSuffixTable returns a table matching endings at the end of words.
func NewSuffixTable() *StemTable {
	return &StemTable{trie: patricia.NewTrie(), suffix: true}
}

func (t *StemTable) key(s string) patricia.Prefix {
	if !t.suffix {
		return patricia.Prefix(s)
	}
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return patricia.Prefix(b)
}

// Add registers stem under c.
func (t *StemTable) Add(stem string, c Category) bool {
	if stem == "" {
		return false
	}
	if !t.trie.Insert(t.key(stem), c) {
		return false
	}
	t.entries++
	return true
}

// Len returns the number of registered stems.
func (t *StemTable) Len() int { return t.entries }

// Match returns the category of the longest registered stem matching word,
// with the stem itself.
func (t *StemTable) Match(word string) (Category, string, bool) {
	var (
		best    Category
		bestKey patricia.Prefix
		found   bool
	)
	_ = t.trie.VisitPrefixes(t.key(word), func(p patricia.Prefix, item patricia.Item) error {
		if !found || len(p) > len(bestKey) {
			best, bestKey, found = item.(Category), append(patricia.Prefix(nil), p...), true
		}
		return nil
	})
	if !found {
		return Unknown, "", false
	}
	stem := string(bestKey)
	if t.suffix {
		stem = string(t.key(stem))
	}
	return best, stem, true
}

// Classifier assigns a category to tokens that are not looked up in a
// lexicon. Stems are consulted first, then endings, then the fallback.
type Classifier struct {
	Stems    *StemTable
	Endings  *StemTable
	Fallback Category
}

// Classify returns the category for word and the stem or ending that decided it.
func (c *Classifier) Classify(word string) (Category, string) {
	if c.Stems != nil {
		if cat, stem, ok := c.Stems.Match(word); ok {
			return cat, stem
		}
	}
	if c.Endings != nil {
		if cat, ending, ok := c.Endings.Match(word); ok {
			return cat, ending
		}
	}
	return c.Fallback, ""
}

var pronounStems = []string{
	"ivan", "ival", "ivar", "iva", "iv",
	"avan", "aval", "avar", "ava", "av",
	"nAn", "nAv", "nIn", "nIv",
	"wAn", "wAv", "Ad", "ix", "ex",
	"yAr", "yAv", "eV", "A",
}

var verbEndings = []string{
	"ali", "iri", "udu", "enu", "aru", "are", "avu", "ave",
	"uwwA", "uwaV", "ida", "ide", "al", "ir", "uv",
}

// DefaultClassifier classifies pronouns by stem and verbs by ending,
// defaulting to noun.
func DefaultClassifier() *Classifier {
	stems := NewStemTable()
	for _, s := range pronounStems {
		stems.Add(s, Pronoun)
	}
	endings := NewSuffixTable()
	for _, e := range verbEndings {
		endings.Add(e, Verb)
	}
	return &Classifier{Stems: stems, Endings: endings, Fallback: Noun}
}
