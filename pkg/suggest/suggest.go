// Package suggest ranks lexicon words by edit distance to a misspelling.
package suggest

import (
	"sort"
	"unicode/utf8"
)

const (
	DefaultMaxDistance = 3
	DefaultMaxResults  = 10
)

// Source is the part of a lexicon the engine reads. WordsWithLength must
// return words in a fixed iteration order; ties are broken by it.
type Source interface {
	WordsWithLength(min, max int) []string
	FrequencyOf(word string) int
}

// Suggestion is a ranked correction candidate.
type Suggestion struct {
	Word      string `json:"word" msgpack:"w"`
	Distance  int    `json:"distance" msgpack:"d"`
	Frequency int    `json:"frequency" msgpack:"f"`
}

// Options bound the search. A MaxResults of 0 yields no suggestions.
type Options struct {
	MaxDistance int
	MaxResults  int
}

// DefaultOptions returns distance 3 and 10 results.
func DefaultOptions() Options {
	return Options{MaxDistance: DefaultMaxDistance, MaxResults: DefaultMaxResults}
}

// Suggest returns the words of src within opts.MaxDistance edits of word,
// closest first, then most frequent first, then in iteration order.
// It never fails; an empty slice means nothing was close enough.
func Suggest(word string, src Source, opts Options) []Suggestion {
	results := []Suggestion{}
	if opts.MaxResults <= 0 || opts.MaxDistance < 0 || src == nil {
		return results
	}

	target := []rune(word)
	n := len(target)
	// Words further than MaxDistance+1 runes away in length cannot be
	// within MaxDistance edits.
	slack := opts.MaxDistance + 1
	candidates := src.WordsWithLength(n-slack, n+slack)

	var d distancer
	buf := make([]rune, 0, n+slack)
	for _, cand := range candidates {
		buf = appendRunes(buf[:0], cand)
		dist, ok := d.bounded(target, buf, opts.MaxDistance)
		if !ok {
			continue
		}
		results = append(results, Suggestion{
			Word:      cand,
			Distance:  dist,
			Frequency: max(src.FrequencyOf(cand), 0),
		})
	}

	Rank(results)
	if len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results
}

// Rank sorts suggestions by distance ascending and frequency descending,
// keeping the existing order among full ties.
func Rank(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Distance != s[j].Distance {
			return s[i].Distance < s[j].Distance
		}
		return s[i].Frequency > s[j].Frequency
	})
}

// Words extracts the candidate words in order.
func Words(s []Suggestion) []string {
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = sg.Word
	}
	return out
}

func appendRunes(buf []rune, s string) []rune {
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		buf = append(buf, r)
		s = s[size:]
	}
	return buf
}
