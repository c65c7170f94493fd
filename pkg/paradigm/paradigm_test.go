package paradigm

import (
	"reflect"
	"testing"

	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/rule"
)

func avaruRoot() Root {
	return Root{
		Stem:     "avaru",
		Category: category.Pronoun,
		Rules:    []rule.Rule{rule.New("annu", "u"), rule.New("alli", "u")},
		Variants: []string{"ivaru"},
	}
}

func TestExpandRootCrossProduct(t *testing.T) {
	forms := ExpandRoot(avaruRoot())

	var got []string
	for _, f := range forms {
		got = append(got, f.Text)
	}
	want := []string{"avarannu", "avaralli", "ivarannu", "ivaralli"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandRoot = %v, want %v", got, want)
	}
	for _, f := range forms {
		if f.Root != "avaru" || f.Category != category.Pronoun {
			t.Errorf("form %q has root %q category %s", f.Text, f.Root, f.Category)
		}
		if f.Frequency != 0 {
			t.Errorf("form %q has frequency %d, want 0", f.Text, f.Frequency)
		}
	}
}

func TestExpandRootScenarios(t *testing.T) {
	testCases := []struct {
		root     Root
		expected string
	}{
		{avaruRoot(), "ivarannu"},
		{Root{Stem: "amma", Category: category.Noun, Rules: []rule.Rule{rule.New("analli", "a")}}, "ammanalli"},
	}
	for _, tc := range testCases {
		found := false
		for _, f := range ExpandRoot(tc.root) {
			if f.Text == tc.expected {
				found = true
			}
		}
		if !found {
			t.Errorf("ExpandRoot(%s) did not produce %q", tc.root.Stem, tc.expected)
		}
	}
}

func TestExpandRootDedupeKeepsProvenance(t *testing.T) {
	root := Root{
		Stem:     "mara",
		Category: category.Noun,
		Rules:    []rule.Rule{rule.New("annu", "u"), rule.New("annu", "")},
		Variants: []string{"mara", ""},
	}
	forms := ExpandRoot(root)
	if len(forms) != 1 {
		t.Fatalf("expected 1 form, got %d: %+v", len(forms), forms)
	}
	f := forms[0]
	if f.Text != "maraannu" {
		t.Errorf("text = %q", f.Text)
	}
	if !f.Ambiguous() || len(f.Provenance) != 2 {
		t.Errorf("expected 2 provenance paths, got %d", len(f.Provenance))
	}
	if f.Provenance[0].Rule.String() != "annu_u#" || f.Provenance[1].Rule.String() != "annu_#" {
		t.Errorf("provenance out of order: %v, %v", f.Provenance[0].Rule, f.Provenance[1].Rule)
	}
}

func TestAllVariants(t *testing.T) {
	r := Root{Stem: "avaru", Variants: []string{"ivaru", "avaru", "", "yAru", "ivaru"}}
	want := []string{"avaru", "ivaru", "yAru"}
	if got := r.AllVariants(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllVariants = %v, want %v", got, want)
	}
}

func TestDeriveVariants(t *testing.T) {
	testCases := []struct {
		stem     string
		expected []string
	}{
		{"avaru", []string{"ivaru", "yAvaru", "evaru"}},
		{"magu", []string{"nagu"}},
		{"avanu", []string{"ivanu", "yAvanu", "evanu"}},
		{"baru", []string{"haru"}},
		{"kuri", nil},
	}
	for _, tc := range testCases {
		got := DeriveVariants(tc.stem, DefaultPrefixPairs)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("DeriveVariants(%q) = %v, want %v", tc.stem, got, tc.expected)
		}
	}
}

func TestWithDerivedVariants(t *testing.T) {
	root := WithDerivedVariants(avaruRoot(), []PrefixPair{{From: "a", To: "i"}, {From: "a", To: "e"}})
	want := []string{"ivaru", "evaru"}
	if !reflect.DeepEqual(root.Variants, want) {
		t.Errorf("Variants = %v, want %v", root.Variants, want)
	}
}

func TestExpandAllClosure(t *testing.T) {
	roots := Builtin()
	lex := ExpandAll(roots)

	for _, root := range roots {
		for _, f := range ExpandRoot(root) {
			if !lex.Contains(f.Text) {
				t.Errorf("lexicon missing %q from root %s", f.Text, root.Stem)
				continue
			}
			if !lex.CategoriesOf(f.Text).Has(root.Category) {
				t.Errorf("%q missing category %s", f.Text, root.Category)
			}
		}
		for _, v := range root.AllVariants() {
			if !lex.Contains(v) {
				t.Errorf("lexicon missing variant stem %q", v)
			}
		}
	}

	for _, w := range []string{"ivarannu", "ammanalli", "avaralli", "ivaru"} {
		if !lex.Contains(w) {
			t.Errorf("lexicon missing %q", w)
		}
	}
}

func TestExpandAllWithoutStems(t *testing.T) {
	roots := []Root{avaruRoot()}
	lex := ExpandAll(roots, IncludeStems(false))
	if lex.Contains("avaru") || lex.Contains("ivaru") {
		t.Error("stems included although IncludeStems(false)")
	}
	if lex.Len() != 4 {
		t.Errorf("Len = %d, want 4", lex.Len())
	}
}

func TestExpandAllUnionsCategories(t *testing.T) {
	roots := []Root{
		{Stem: "kelasa", Category: category.Noun, Rules: []rule.Rule{rule.New("xa", "")}},
		{Stem: "kelasa", Category: category.Verb, Rules: []rule.Rule{rule.New("xa", "")}},
	}
	lex := ExpandAll(roots)
	cats := lex.CategoriesOf("kelasaxa")
	if !cats.Has(category.Noun) || !cats.Has(category.Verb) {
		t.Errorf("categories = %s, want noun and verb", cats)
	}
	if len(lex.Collisions()) == 0 {
		t.Error("expected a recorded collision")
	}
}

func TestExpandIntoStats(t *testing.T) {
	b := lexicon.NewBuilder(lexicon.MergeMax)
	st := ExpandInto(b, []Root{avaruRoot()}, WithPrefixPairs([]PrefixPair{{From: "a", To: "e"}}))
	if st.Roots != 1 || st.Variants != 3 || st.Rules != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
	if st.Generated != 6 {
		t.Errorf("Generated = %d, want 6", st.Generated)
	}
	// 6 inflected forms plus 3 stems
	if st.Unique != 9 {
		t.Errorf("Unique = %d, want 9", st.Unique)
	}
	if !b.Build().Contains("evaralli") {
		t.Error("derived variant was not expanded")
	}
}

func TestExpandAllIdempotent(t *testing.T) {
	a := ExpandAll(Builtin(), WithPrefixPairs(DefaultPrefixPairs))
	b := ExpandAll(Builtin(), WithPrefixPairs(DefaultPrefixPairs))
	if !a.Equal(b) {
		t.Error("rebuilding from the same roots produced a different lexicon")
	}
	if !reflect.DeepEqual(a.AllWords(), b.AllWords()) {
		t.Error("iteration order differs between identical builds")
	}
}
