package paradigm

import (
	"github.com/bastiangx/padaserve/pkg/lexicon"
)

type options struct {
	includeStems bool
	policy       lexicon.MergePolicy
	pairs        []PrefixPair
}

// Option configures ExpandAll and ExpandInto.
type Option func(*options)

// IncludeStems controls whether each variant stem is added as a form of
// its own paradigm. It defaults to true.
func IncludeStems(on bool) Option {
	return func(o *options) { o.includeStems = on }
}

// WithMergePolicy selects how frequencies combine on collision.
func WithMergePolicy(p lexicon.MergePolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithPrefixPairs derives extra variants for every root before expanding.
func WithPrefixPairs(pairs []PrefixPair) Option {
	return func(o *options) { o.pairs = pairs }
}

func newOptions(opts []Option) options {
	o := options{includeStems: true, policy: lexicon.MergeMax}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Stats counts what an expansion produced.
type Stats struct {
	Roots     int
	Variants  int
	Rules     int
	Generated int
	Unique    int
}

// ExpandAll expands every root into a new Lexicon. Categories are unioned
// on collision and frequencies merged by the configured policy.
func ExpandAll(roots []Root, opts ...Option) *lexicon.Lexicon {
	o := newOptions(opts)
	b := lexicon.NewBuilder(o.policy)
	expandInto(b, roots, o)
	return b.Build()
}

// ExpandInto adds the expansion of roots to an existing builder, so that
// supplemental words can share the same build.
func ExpandInto(b *lexicon.Builder, roots []Root, opts ...Option) Stats {
	return expandInto(b, roots, newOptions(opts))
}

func expandInto(b *lexicon.Builder, roots []Root, o options) Stats {
	var st Stats
	before := b.Len()
	for _, root := range roots {
		if len(o.pairs) > 0 {
			root = WithDerivedVariants(root, o.pairs)
		}
		st.Roots++
		st.Rules += len(root.Rules)

		variants := root.AllVariants()
		st.Variants += len(variants)
		if o.includeStems {
			for _, v := range variants {
				b.AddForm(v, root.Category, 0)
			}
		}
		for _, f := range ExpandRoot(root) {
			b.AddForm(f.Text, f.Category, f.Frequency)
			st.Generated++
		}
	}
	st.Unique = b.Len() - before
	return st
}
