package dictionary

import (
	"github.com/charmbracelet/log"

	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/paradigm"
)

// BuildOptions control how a source becomes a lexicon.
type BuildOptions struct {
	Policy       lexicon.MergePolicy
	IncludeStems bool
	PrefixPairs  []paradigm.PrefixPair
	// Builtin adds the seed paradigms shipped with the binary.
	Builtin bool
	// Extra words merged after the source, e.g. a user word list.
	Extra []WordList
}

// DefaultBuildOptions keeps stems, uses MergeMax and derives no variants.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Policy: lexicon.MergeMax, IncludeStems: true}
}

// BuildLexicon expands roots and merges the supplemental word lists into
// one lexicon with the default options.
func BuildLexicon(roots []paradigm.Root, supplemental []WordList) *lexicon.Lexicon {
	lex, _ := build(roots, supplemental, DefaultBuildOptions())
	return lex
}

// Build turns a loaded source into a lexicon.
func Build(src *Source, opts BuildOptions) *lexicon.Lexicon {
	lex, st := build(src.Roots, src.Lists, opts)
	log.Debugf("Built lexicon from %s: %d roots, %d variants, %d generated forms, %d words",
		src.Path, st.Roots, st.Variants, st.Generated, lex.Len())
	return lex
}

func build(roots []paradigm.Root, lists []WordList, opts BuildOptions) (*lexicon.Lexicon, paradigm.Stats) {
	b := lexicon.NewBuilder(opts.Policy)
	expandOpts := []paradigm.Option{
		paradigm.IncludeStems(opts.IncludeStems),
		paradigm.WithPrefixPairs(opts.PrefixPairs),
	}
	if opts.Builtin {
		paradigm.ExpandInto(b, paradigm.Builtin(), expandOpts...)
	}
	st := paradigm.ExpandInto(b, roots, expandOpts...)
	for _, list := range lists {
		b.AddSupplemental(list.Words, list.Category)
	}
	for _, list := range opts.Extra {
		b.AddSupplemental(list.Words, list.Category)
	}
	lex := b.Build()
	if n := len(lex.Collisions()); n > 0 {
		log.Debugf("Lexicon build recorded %d collisions", n)
	}
	return lex, st
}
