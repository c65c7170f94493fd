// Package category defines the part-of-speech tags words are filed under.
package category

import (
	"fmt"
	"sort"
	"strings"
)

// Category is one of a small fixed set of word classes.
type Category uint8

const (
	Unknown Category = iota
	Noun
	Verb
	Pronoun
	Adjective
	Adverb
	Indeclinable

	numCategories
)

var names = [...]string{
	Unknown:      "unknown",
	Noun:         "noun",
	Verb:         "verb",
	Pronoun:      "pronoun",
	Adjective:    "adjective",
	Adverb:       "adverb",
	Indeclinable: "indeclinable",
}

// aliases maps source directory and file names onto categories.
var aliases = map[string]Category{
	"nouns":    Noun,
	"verbs":    Verb,
	"pronouns": Pronoun,
	"adj":      Adjective,
	"adv":      Adverb,
	"avyaya":   Indeclinable,
}

func (c Category) String() string {
	if c < numCategories {
		return names[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Valid reports whether c is a known, non-Unknown category.
func (c Category) Valid() bool {
	return c > Unknown && c < numCategories
}

// Parse resolves a category name. Matching ignores case and accepts the
// plural directory names used by paradigm sources ("Noun", "Pronouns").
func Parse(name string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for c := Noun; c < numCategories; c++ {
		if names[c] == key {
			return c, nil
		}
	}
	if c, ok := aliases[key]; ok {
		return c, nil
	}
	return Unknown, fmt.Errorf("unknown category %q", name)
}

// All lists every valid category in declaration order.
func All() []Category {
	out := make([]Category, 0, numCategories-1)
	for c := Noun; c < numCategories; c++ {
		out = append(out, c)
	}
	return out
}

// Set is a bitmask of categories. The zero value is the empty set.
type Set uint16

// NewSet returns a set holding cats.
func NewSet(cats ...Category) Set {
	var s Set
	for _, c := range cats {
		s = s.Add(c)
	}
	return s
}

func (s Set) Add(c Category) Set { return s | 1<<c }
func (s Set) Has(c Category) bool { return s&(1<<c) != 0 }
func (s Set) Union(o Set) Set { return s | o }
func (s Set) Empty() bool { return s == 0 }
func (s Set) Len() int { return len(s.Slice()) }
func (s Set) Subset(o Set) bool { return s&o == s }
func (s Set) Intersects(o Set) bool { return s&o != 0 }
func (s Set) Without(c Category) Set { return s &^ (1 << c) }
func (s Set) Equal(o Set) bool { return s == o }

// Slice returns the members in declaration order.
func (s Set) Slice() []Category {
	var out []Category
	for c := Unknown; c < numCategories; c++ {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Strings returns the member names, sorted.
func (s Set) Strings() []string {
	cats := s.Slice()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.String()
	}
	sort.Strings(out)
	return out
}

func (s Set) String() string {
	return "{" + strings.Join(s.Strings(), ",") + "}"
}
