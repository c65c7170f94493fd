package suggest

import (
	"fmt"
	"testing"

	"github.com/hbollon/go-edlib"

	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/lexicon"
)

func sampleLexicon() *lexicon.Lexicon {
	words := map[string]int{
		"avaralli":  40,
		"barali":    90,
		"avaru":     120,
		"ivaru":     110,
		"ivarannu":  60,
		"ivaralli":  0,
		"avarige":   35,
		"ammanalli": 20,
		"amma":      300,
		"nAnu":      250,
		"baru":      80,
		"hudugi":    15,
	}
	b := lexicon.NewBuilder(lexicon.MergeMax)
	for w, f := range words {
		b.AddForm(w, category.Noun, f)
	}
	return b.Build()
}

func TestDistanceMatchesOracle(t *testing.T) {
	pairs := [][2]string{
		{"ivarali", "avaralli"},
		{"ivarali", "barali"},
		{"kitten", "sitting"},
		{"", "amma"},
		{"amma", ""},
		{"ಅಮ್ಮ", "ಅಮ್ಮನ"},
		{"nAnu", "nanu"},
		{"abc", "cba"},
		{"avaru", "avaru"},
	}
	for _, p := range pairs {
		want := edlib.LevenshteinDistance(p[0], p[1])
		if got := Distance(p[0], p[1]); got != want {
			t.Errorf("Distance(%q, %q) = %d, want %d", p[0], p[1], got, want)
		}
	}
}

func TestBoundedDistance(t *testing.T) {
	testCases := []struct {
		a, b  string
		limit int
		dist  int
		ok    bool
	}{
		{"ivarali", "avaralli", 3, 2, true},
		{"ivarali", "avaralli", 2, 2, true},
		{"ivarali", "avaralli", 1, 2, false},
		{"amma", "hudugi", 3, 4, false},
		{"a", "abcdef", 3, 4, false},
		{"same", "same", 0, 0, true},
		{"same", "some", -1, 0, false},
	}
	for _, tc := range testCases {
		dist, ok := BoundedDistance(tc.a, tc.b, tc.limit)
		if dist != tc.dist || ok != tc.ok {
			t.Errorf("BoundedDistance(%q, %q, %d) = (%d, %v), want (%d, %v)",
				tc.a, tc.b, tc.limit, dist, ok, tc.dist, tc.ok)
		}
	}
}

func TestSuggestScenarioC(t *testing.T) {
	lex := sampleLexicon()
	results := Suggest("ivarali", lex, DefaultOptions())

	pos := map[string]int{}
	for i, s := range results {
		pos[s.Word] = i
	}
	for _, w := range []string{"avaralli", "barali"} {
		i, ok := pos[w]
		if !ok {
			t.Fatalf("%q missing from %v", w, Words(results))
		}
		if results[i].Distance != 2 {
			t.Errorf("%q at distance %d, want 2", w, results[i].Distance)
		}
	}
	// equal distance: higher frequency first
	if pos["barali"] > pos["avaralli"] {
		t.Errorf("barali (90) ranked after avaralli (40): %v", Words(results))
	}
}

func TestSuggestNeverExceedsMaxDistance(t *testing.T) {
	lex := sampleLexicon()
	for _, maxDist := range []int{0, 1, 2, 3, 4} {
		for _, w := range []string{"ivarali", "amm", "xyz", "", "avarannnu", "ಅಮ್ಮ"} {
			opts := Options{MaxDistance: maxDist, MaxResults: 100}
			for _, s := range Suggest(w, lex, opts) {
				if s.Distance > maxDist {
					t.Errorf("Suggest(%q, max=%d) returned %q at %d", w, maxDist, s.Word, s.Distance)
				}
				if want := edlib.LevenshteinDistance(w, s.Word); want != s.Distance {
					t.Errorf("reported distance %d for %q, oracle says %d", s.Distance, s.Word, want)
				}
			}
		}
	}
}

func TestSuggestFindsEveryCandidateWithinBound(t *testing.T) {
	lex := sampleLexicon()
	opts := Options{MaxDistance: 3, MaxResults: 1000}
	word := "ivaral"
	got := map[string]bool{}
	for _, s := range Suggest(word, lex, opts) {
		got[s.Word] = true
	}
	for _, w := range lex.AllWords() {
		if edlib.LevenshteinDistance(word, w) <= 3 && !got[w] {
			t.Errorf("length filter dropped %q", w)
		}
	}
}

func TestSuggestSortOrder(t *testing.T) {
	lex := sampleLexicon()
	results := Suggest("ivaralu", lex, Options{MaxDistance: 4, MaxResults: 100})
	if len(results) < 2 {
		t.Fatalf("expected several results, got %v", results)
	}
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		if cur.Distance < prev.Distance {
			t.Errorf("distance decreases at %d: %v", i, results)
		}
		if cur.Distance == prev.Distance && cur.Frequency > prev.Frequency {
			t.Errorf("frequency increases at equal distance at %d: %v", i, results)
		}
	}
}

func TestSuggestDeterministic(t *testing.T) {
	b := lexicon.NewBuilder(lexicon.MergeMax)
	for i := 0; i < 50; i++ {
		b.AddForm(fmt.Sprintf("kad%02d", i), category.Noun, 0)
	}
	lex := b.Build()
	first := Words(Suggest("kad", lex, DefaultOptions()))
	for i := 0; i < 10; i++ {
		again := Words(Suggest("kad", lex, DefaultOptions()))
		if fmt.Sprint(again) != fmt.Sprint(first) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
	if len(first) != DefaultMaxResults {
		t.Errorf("expected %d results, got %d", DefaultMaxResults, len(first))
	}
	if first[0] != "kad00" {
		t.Errorf("full ties should follow iteration order, got %v", first)
	}
}

func TestSuggestMaxResultsZero(t *testing.T) {
	results := Suggest("ivarali", sampleLexicon(), Options{MaxDistance: 3, MaxResults: 0})
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", results)
	}
}

func TestSuggestTruncates(t *testing.T) {
	results := Suggest("avaru", sampleLexicon(), Options{MaxDistance: 10, MaxResults: 3})
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestSuggestNoCandidates(t *testing.T) {
	results := Suggest("zzzzzzzzzzzzzzzz", sampleLexicon(), DefaultOptions())
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty slice, got %v", results)
	}
	var empty *lexicon.Lexicon
	if got := Suggest("amma", empty, DefaultOptions()); len(got) != 0 {
		t.Errorf("nil lexicon gave %v", got)
	}
}

func TestComplete(t *testing.T) {
	lex := sampleLexicon()
	got := Complete("ivar", lex, 5)
	want := []string{"ivaru", "ivarannu", "ivaralli"}
	if fmt.Sprint(Words(got)) != fmt.Sprint(want) {
		t.Errorf("Complete(ivar) = %v, want %v", Words(got), want)
	}
	if got[0].Distance != 1 {
		t.Errorf("ivaru distance = %d, want 1", got[0].Distance)
	}
	if got := Complete("amma", lex, 5); len(got) != 1 || got[0].Word != "ammanalli" {
		t.Errorf("Complete(amma) = %v", Words(got))
	}
	if got := Complete("ivar", lex, 0); len(got) != 0 {
		t.Errorf("limit 0 returned %v", got)
	}
}
