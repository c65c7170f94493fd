package dictionary

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/paradigm"
)

func TestExport(t *testing.T) {
	b := lexicon.NewBuilder(lexicon.MergeMax)
	b.AddForm("mane", category.Noun, 40)
	b.AddForm("mane", category.Verb, 0)
	b.AddForm("avaru", category.Pronoun, 0)
	lex := b.Build()

	var buf bytes.Buffer
	if err := Export(&buf, lex); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"mane\tnoun,verb\t40", "avaru\tpronoun\t0"}
	if len(got) != len(want) {
		t.Fatalf("Export wrote %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExportWordListsReloads(t *testing.T) {
	lex := BuildLexicon(paradigm.Builtin(), nil)
	source := t.TempDir()

	counts, err := ExportWordLists(filepath.Join(source, wordsDir), lex)
	if err != nil {
		t.Fatalf("ExportWordLists returned error: %v", err)
	}
	if counts[category.Pronoun] == 0 || counts[category.Noun] == 0 {
		t.Errorf("counts = %v", counts)
	}

	src, err := Load(source)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	reloaded := Build(src, DefaultBuildOptions())
	if reloaded.Len() != lex.Len() {
		t.Fatalf("reloaded %d words, exported %d", reloaded.Len(), lex.Len())
	}
	lex.Range(func(word string, e lexicon.Entry) bool {
		got, ok := reloaded.Lookup(word)
		if !ok || !got.Categories.Equal(e.Categories) || got.Frequency != e.Frequency {
			t.Errorf("%s: reloaded %+v, want %+v", word, got, e)
		}
		return true
	})
}
