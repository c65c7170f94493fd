package suggest

import "unicode/utf8"

// Prefixer is the part of a lexicon used for completion.
type Prefixer interface {
	WithPrefix(prefix string, limit int) []string
	FrequencyOf(word string) int
}

// Complete returns up to limit words extending prefix, most frequent
// first. The prefix itself is never returned. Distance holds the number
// of runes the word adds to the prefix.
func Complete(prefix string, src Prefixer, limit int) []Suggestion {
	results := []Suggestion{}
	if prefix == "" || limit <= 0 || src == nil {
		return results
	}
	plen := utf8.RuneCountInString(prefix)
	// one extra so dropping an exact match still fills the limit
	for _, w := range src.WithPrefix(prefix, limit+1) {
		if w == prefix {
			continue
		}
		results = append(results, Suggestion{
			Word:      w,
			Distance:  utf8.RuneCountInString(w) - plen,
			Frequency: src.FrequencyOf(w),
		})
		if len(results) == limit {
			break
		}
	}
	return results
}
