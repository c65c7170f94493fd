package lexicon

import (
	"reflect"
	"sync"
	"testing"

	"github.com/bastiangx/padaserve/pkg/category"
)

func buildSample(policy MergePolicy) *Lexicon {
	b := NewBuilder(policy)
	b.AddForm("avaralli", category.Pronoun, 40)
	b.AddForm("barali", category.Verb, 90)
	b.AddForm("amma", category.Noun, 10)
	b.AddSupplemental([]Word{{Text: "amma", Frequency: 30}, {Text: "nAnu"}}, category.Pronoun)
	b.AddForm("ivaru", category.Pronoun, 5)
	return b.Build()
}

func TestLookup(t *testing.T) {
	lex := buildSample(MergeMax)

	if lex.Len() != 5 {
		t.Fatalf("Len = %d, want 5", lex.Len())
	}
	if !lex.Contains("barali") || lex.Contains("Barali") {
		t.Error("lookup must be exact and case sensitive")
	}
	if got := lex.FrequencyOf("missing"); got != 0 {
		t.Errorf("FrequencyOf(missing) = %d", got)
	}
	if got := lex.CategoriesOf("missing"); !got.Empty() {
		t.Errorf("CategoriesOf(missing) = %s", got)
	}
	if got := lex.FrequencyOf("nAnu"); got != 0 {
		t.Errorf("unranked supplemental word has frequency %d", got)
	}
}

func TestMergePolicies(t *testing.T) {
	testCases := []struct {
		policy   MergePolicy
		expected int
	}{
		{MergeMax, 30},
		{MergeSum, 40},
	}
	for _, tc := range testCases {
		lex := buildSample(tc.policy)
		if got := lex.FrequencyOf("amma"); got != tc.expected {
			t.Errorf("%s: FrequencyOf(amma) = %d, want %d", tc.policy, got, tc.expected)
		}
		cats := lex.CategoriesOf("amma")
		if !cats.Equal(category.NewSet(category.Noun, category.Pronoun)) {
			t.Errorf("%s: categories = %s", tc.policy, cats)
		}
		if len(lex.Collisions()) != 1 {
			t.Errorf("%s: collisions = %v", tc.policy, lex.Collisions())
		}
		if lex.Policy() != tc.policy {
			t.Errorf("Policy = %s", lex.Policy())
		}
	}
}

func TestParseMergePolicy(t *testing.T) {
	for input, want := range map[string]MergePolicy{"": MergeMax, "max": MergeMax, "SUM": MergeSum} {
		got, err := ParseMergePolicy(input)
		if err != nil || got != want {
			t.Errorf("ParseMergePolicy(%q) = %s, %v", input, got, err)
		}
	}
	if _, err := ParseMergePolicy("avg"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestDuplicateWithoutConflictIsNotACollision(t *testing.T) {
	b := NewBuilder(MergeMax)
	b.AddForm("mane", category.Noun, 3)
	b.AddForm("mane", category.Noun, 3)
	lex := b.Build()
	if n := len(lex.Collisions()); n != 0 {
		t.Errorf("collisions = %d, want 0", n)
	}
}

func TestIterationOrder(t *testing.T) {
	lex := buildSample(MergeMax)
	want := []string{"amma", "nAnu", "ivaru", "barali", "avaralli"}
	if got := lex.AllWords(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllWords = %v, want %v", got, want)
	}
}

func TestWordsWithLength(t *testing.T) {
	lex := buildSample(MergeMax)
	testCases := []struct {
		min, max int
		expected []string
	}{
		{4, 4, []string{"amma", "nAnu"}},
		{5, 6, []string{"ivaru", "barali"}},
		{0, 100, []string{"amma", "nAnu", "ivaru", "barali", "avaralli"}},
		{7, 7, nil},
		{9, 20, nil},
		{6, 5, nil},
	}
	for _, tc := range testCases {
		got := lex.WordsWithLength(tc.min, tc.max)
		if len(got) == 0 && len(tc.expected) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("WordsWithLength(%d, %d) = %v, want %v", tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestWordsWithLengthCountsRunes(t *testing.T) {
	b := NewBuilder(MergeMax)
	b.AddForm("ಅಮ್ಮ", category.Noun, 0)
	b.AddForm("amma", category.Noun, 0)
	lex := b.Build()
	if got := lex.WordsWithLength(4, 4); len(got) != 2 {
		t.Errorf("WordsWithLength(4, 4) = %v, want both words", got)
	}
}

func TestWithPrefix(t *testing.T) {
	b := NewBuilder(MergeMax)
	b.AddForm("avaru", category.Pronoun, 10)
	b.AddForm("avarannu", category.Pronoun, 50)
	b.AddForm("avaralli", category.Pronoun, 50)
	b.AddForm("avanu", category.Pronoun, 70)
	b.AddForm("ivaru", category.Pronoun, 100)
	lex := b.Build()

	got := lex.WithPrefix("avar", 0)
	want := []string{"avaralli", "avarannu", "avaru"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WithPrefix(avar) = %v, want %v", got, want)
	}
	if got := lex.WithPrefix("ava", 2); !reflect.DeepEqual(got, []string{"avanu", "avaralli"}) {
		t.Errorf("WithPrefix(ava, 2) = %v", got)
	}
	if got := lex.WithPrefix("x", 5); len(got) != 0 {
		t.Errorf("WithPrefix(x) = %v", got)
	}
}

func TestEqualAndStats(t *testing.T) {
	a, b := buildSample(MergeMax), buildSample(MergeMax)
	if !a.Equal(b) {
		t.Error("identical builds are not equal")
	}
	if a.Equal(buildSample(MergeSum)) {
		t.Error("different frequencies compare equal")
	}
	var empty *Lexicon
	if !empty.Equal(NewBuilder(MergeMax).Build()) {
		t.Error("nil and empty lexicons should be equal")
	}

	st := a.Stats()
	if st.Words != 5 || st.MaxLength != 8 || st.Collisions != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
	if st.ByCategory["pronoun"] != 4 || st.ByCategory["noun"] != 1 {
		t.Errorf("ByCategory = %v", st.ByCategory)
	}
	if st.Ranked != 4 {
		t.Errorf("Ranked = %d, want 4", st.Ranked)
	}
}

func TestStoreSwap(t *testing.T) {
	first := buildSample(MergeMax)
	store := NewStore(first)
	if store.Generation() != 1 || store.Load() != first {
		t.Fatal("store does not serve the initial lexicon")
	}

	second := buildSample(MergeSum)
	if old := store.Swap(second); old != first {
		t.Error("Swap did not return the previous lexicon")
	}
	lex, gen := store.Snapshot()
	if lex != second || gen != 2 {
		t.Errorf("Snapshot = (%p, %d)", lex, gen)
	}
	if first.FrequencyOf("amma") != 30 {
		t.Error("swapping mutated the old lexicon")
	}
}

func TestStoreConcurrentReaders(t *testing.T) {
	store := NewStore(buildSample(MergeMax))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				lex := store.Load()
				if !lex.Contains("barali") {
					t.Error("reader saw a lexicon without barali")
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		store.Swap(buildSample(MergeSum))
	}
	wg.Wait()
	if store.Generation() != 51 {
		t.Errorf("Generation = %d, want 51", store.Generation())
	}
}
