// Package paradigm expands roots into the closure of their surface forms.
//
// A root owns a rule set and a list of variant stems. Every variant is
// inflected with every rule, so a root with v variants and r rules yields
// at most v*r forms. Rules arrive already parsed; expansion never parses.
package paradigm

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/rule"
)

// Root is a canonical stem with its category, rules and alternate stems.
type Root struct {
	Stem     string
	Category category.Category
	Rules    []rule.Rule
	Variants []string
}

// AllVariants returns the stem followed by its variants, without
// duplicates or empty strings, in first-seen order.
func (r Root) AllVariants() []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(r.Variants)+1)
	for _, v := range append([]string{r.Stem}, r.Variants...) {
		if v == "" || !seen.Add(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Provenance records one (variant, rule) path that generated a form.
type Provenance struct {
	Root    string
	Variant string
	Rule    rule.Rule
}

// SurfaceForm is a generated word with every path that produced it.
type SurfaceForm struct {
	Text       string
	Root       string
	Category   category.Category
	Frequency  int
	Provenance []Provenance
}

// Ambiguous reports whether more than one path produced the form.
func (f SurfaceForm) Ambiguous() bool { return len(f.Provenance) > 1 }

// ExpandRoot inflects every variant of root with every rule. Forms that
// come out identical are merged, keeping all provenance paths. Output
// order is the order in which each text was first generated.
func ExpandRoot(root Root) []SurfaceForm {
	variants := root.AllVariants()
	forms := make([]SurfaceForm, 0, len(variants)*len(root.Rules))
	index := make(map[string]int, cap(forms))

	for _, v := range variants {
		for _, r := range root.Rules {
			text := rule.Apply(v, r)
			if text == "" {
				continue
			}
			p := Provenance{Root: root.Stem, Variant: v, Rule: r}
			if i, ok := index[text]; ok {
				forms[i].Provenance = append(forms[i].Provenance, p)
				continue
			}
			index[text] = len(forms)
			forms = append(forms, SurfaceForm{
				Text:       text,
				Root:       root.Stem,
				Category:   root.Category,
				Provenance: []Provenance{p},
			})
		}
	}
	return forms
}
