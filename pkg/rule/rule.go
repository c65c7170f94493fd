/*
Package rule implements suffix-substitution rules used to inflect stems.

A rule is parsed once from its text encoding and applied many times. Each
step of a rule removes an old suffix from the stem when the stem ends with
it, then appends a new suffix. When the old suffix is empty or does not
match, the new suffix is simply appended; inapplicable rules never fail.

# Encodings

Simple rules come from the paradigm tables:

	annu_u#     remove "u", append "annu"   (avaru -> avarannu)
	ige_#       append "ige"
	alli        append "alli"

Compound rules chain steps with '+', the output of one step being the
input of the next (tense marker then person marker):

	+xa_#_PAST+anu_a_3SM
	+ya_u_AVY+beku_#_FUT_#_IMPR

Trailing upper-case fields (PAST, 3SM) are grammatical tags. They are
kept for diagnostics and never change the generated text.
*/
package rule

import "strings"

// Kind tells simple rules apart from chained ones.
type Kind uint8

const (
	Simple Kind = iota
	Compound
)

func (k Kind) String() string {
	if k == Compound {
		return "compound"
	}
	return "simple"
}

// Step is a single "strip Old, append New" transformation.
type Step struct {
	New  string
	Old  string
	Tags []string
}

// Apply runs the step on stem.
func (s Step) Apply(stem string) string {
	if s.Old != "" && strings.HasSuffix(stem, s.Old) {
		return stem[:len(stem)-len(s.Old)] + s.New
	}
	return stem + s.New
}

func (s Step) encode(compound bool) string {
	var b strings.Builder
	b.WriteString(s.New)
	b.WriteByte('_')
	if s.Old == "" && compound {
		b.WriteByte(boundary)
	} else {
		b.WriteString(s.Old)
	}
	for _, tag := range s.Tags {
		b.WriteByte('_')
		b.WriteString(tag)
	}
	// a lone tag-shaped old suffix would read back as a tag
	if compound && len(s.Tags) == 0 && isTag(s.Old) {
		b.WriteByte('_')
		b.WriteByte(boundary)
	}
	return b.String()
}

// Rule is an immutable, already parsed inflection rule.
// The zero value is the identity rule.
type Rule struct {
	kind  Kind
	steps []Step
}

// New returns a simple rule that strips oldSuffix and appends newSuffix.
func New(newSuffix, oldSuffix string) Rule {
	return Rule{kind: Simple, steps: []Step{{New: newSuffix, Old: oldSuffix}}}
}

// Chain returns a compound rule applying steps left to right.
// A single step yields a simple rule.
func Chain(steps ...Step) Rule {
	if len(steps) == 1 {
		return Rule{kind: Simple, steps: cloneSteps(steps)}
	}
	return Rule{kind: Compound, steps: cloneSteps(steps)}
}

// Kind returns whether the rule is simple or compound.
func (r Rule) Kind() Kind { return r.kind }

// Steps returns a copy of the rule's steps.
func (r Rule) Steps() []Step { return cloneSteps(r.steps) }

// Len returns the number of steps.
func (r Rule) Len() int { return len(r.steps) }

// IsIdentity reports whether applying the rule leaves every stem unchanged.
func (r Rule) IsIdentity() bool {
	for _, s := range r.steps {
		if s.New != "" || s.Old != "" {
			return false
		}
	}
	return true
}

// Tags returns all grammatical tags carried by the rule, in step order.
func (r Rule) Tags() []string {
	var tags []string
	for _, s := range r.steps {
		tags = append(tags, s.Tags...)
	}
	return tags
}

// Equal reports whether two rules encode the same transformation and tags.
func (r Rule) Equal(o Rule) bool {
	return r.String() == o.String()
}

// String renders the canonical encoding. Parse(r.String()) yields r.
func (r Rule) String() string {
	if r.IsIdentity() && len(r.Tags()) == 0 {
		return ""
	}
	if r.kind == Compound {
		parts := make([]string, len(r.steps))
		for i, s := range r.steps {
			parts[i] = s.encode(true)
		}
		return string(chain) + strings.Join(parts, string(chain))
	}
	return r.steps[0].encode(false) + string(boundary)
}

// Apply transforms stem with r. Compound rules feed each step's output
// into the next step; the identity rule returns stem unchanged.
func Apply(stem string, r Rule) string {
	word := stem
	for _, s := range r.steps {
		word = s.Apply(word)
	}
	return word
}

func cloneSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = s
		if len(s.Tags) > 0 {
			out[i].Tags = append([]string(nil), s.Tags...)
		}
	}
	return out
}
