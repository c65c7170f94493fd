package paradigm

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// PrefixPair rewrites a stem beginning with From so it begins with To.
type PrefixPair struct {
	From string `toml:"from" yaml:"from"`
	To   string `toml:"to" yaml:"to"`
}

// DefaultPrefixPairs relate demonstrative and interrogative stems
// (avaru -> ivaru, yAru, evaru) plus a few noun alternations.
var DefaultPrefixPairs = []PrefixPair{
	{From: "a", To: "i"},
	{From: "a", To: "yA"},
	{From: "a", To: "e"},
	{From: "ma", To: "na"},
	{From: "hu", To: "ku"},
	{From: "ba", To: "ha"},
}

// DeriveVariants applies each matching pair to stem and returns the new
// stems in pair order. The stem itself is never returned.
func DeriveVariants(stem string, pairs []PrefixPair) []string {
	seen := mapset.NewThreadUnsafeSet(stem)
	var out []string
	for _, p := range pairs {
		if p.From == "" || !strings.HasPrefix(stem, p.From) {
			continue
		}
		derived := p.To + stem[len(p.From):]
		if derived == "" || !seen.Add(derived) {
			continue
		}
		out = append(out, derived)
	}
	return out
}

// WithDerivedVariants returns a copy of root whose variant list is
// extended with the stems derived from its own stem.
func WithDerivedVariants(root Root, pairs []PrefixPair) Root {
	derived := DeriveVariants(root.Stem, pairs)
	if len(derived) == 0 {
		return root
	}
	seen := mapset.NewThreadUnsafeSet(root.Stem)
	variants := make([]string, 0, len(root.Variants)+len(derived))
	for _, v := range root.Variants {
		if v != "" && seen.Add(v) {
			variants = append(variants, v)
		}
	}
	for _, v := range derived {
		if seen.Add(v) {
			variants = append(variants, v)
		}
	}
	root.Variants = variants
	return root
}
