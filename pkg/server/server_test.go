package server

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/checker"
	"github.com/bastiangx/padaserve/pkg/config"
	"github.com/bastiangx/padaserve/pkg/dictionary"
	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/paradigm"
)

func newTestServer(t *testing.T) (*Server, *lexicon.Store) {
	t.Helper()
	store := lexicon.NewStore(dictionary.BuildLexicon(paradigm.Builtin(), nil))
	chk, err := checker.New(store)
	if err != nil {
		t.Fatalf("checker.New returned error: %v", err)
	}
	return NewServer(chk, config.DefaultConfig()), store
}

// run feeds reqs to srv and returns a decoder over its responses.
func run(t *testing.T, srv *Server, reqs ...any) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	srv.SetIO(&in, &out)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	return msgpack.NewDecoder(&out)
}

func decode[T any](t *testing.T, dec *msgpack.Decoder) T {
	t.Helper()
	var v T
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestCheck(t *testing.T) {
	srv, _ := newTestServer(t)
	dec := run(t, srv,
		Request{ID: "1", Op: OpCheck, Word: "avarannu"},
		Request{ID: "2", Word: "avarannuu"},
		Request{ID: "3", Word: "avarannuu", Limit: 1},
	)

	known := decode[CheckResponse](t, dec)
	if known.ID != "1" || !known.Correct || known.Count != 0 {
		t.Errorf("known word response = %+v", known)
	}

	unknown := decode[CheckResponse](t, dec)
	if unknown.ID != "2" || unknown.Correct {
		t.Errorf("unknown word response = %+v", unknown)
	}
	if len(unknown.Suggestions) == 0 || unknown.Suggestions[0].Word != "avarannu" || unknown.Suggestions[0].Distance != 1 {
		t.Errorf("suggestions = %+v, want avarannu first at distance 1", unknown.Suggestions)
	}

	limited := decode[CheckResponse](t, dec)
	if limited.Count != 1 || len(limited.Suggestions) != 1 {
		t.Errorf("limited response = %+v", limited)
	}
}

func TestComplete(t *testing.T) {
	srv, _ := newTestServer(t)
	dec := run(t, srv, Request{ID: "c1", Prefix: "ava", Limit: 3})

	resp := decode[CompletionResponse](t, dec)
	if resp.ID != "c1" || resp.Count != 3 {
		t.Fatalf("response = %+v", resp)
	}
	for i, s := range resp.Suggestions {
		if !strings.HasPrefix(s.Word, "ava") || s.Rank != uint16(i+1) {
			t.Errorf("suggestion %d = %+v", i, s)
		}
	}
}

func TestText(t *testing.T) {
	srv, _ := newTestServer(t)
	dec := run(t, srv, Request{ID: "x1", Op: OpText, Text: "avaru ammannu xyzq"})

	resp := decode[TextResponse](t, dec)
	if len(resp.Findings) != 3 || resp.Errors != 1 {
		t.Fatalf("response = %+v", resp)
	}
	last := resp.Findings[2]
	if last.Word != "xyzq" || last.Correct || last.Start != 14 || last.End != 18 {
		t.Errorf("finding = %+v", last)
	}
	if resp.Findings[0].Category != category.Pronoun.String() {
		t.Errorf("avaru category = %s", resp.Findings[0].Category)
	}
}

func TestErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	dec := run(t, srv,
		Request{ID: "e1", Op: "bogus"},
		Request{ID: "e2", Op: OpCheck},
		Request{ID: "e3", Op: OpCheck, Word: "1234"},
		Request{ID: "e4", Op: OpLexicon, Action: ActionReload},
		Request{ID: "e5", Op: OpLexicon, Action: "explode"},
	)

	wantCodes := []int{400, 400, 422, 501, 400}
	for i, code := range wantCodes {
		resp := decode[ErrorResponse](t, dec)
		if resp.Code != code || resp.Error == "" {
			t.Errorf("response %d = %+v, want code %d", i, resp, code)
		}
	}
}

func TestLexiconInfo(t *testing.T) {
	srv, store := newTestServer(t)
	dec := run(t, srv,
		Request{ID: "l1", Op: OpLexicon, Action: ActionInfo},
		Request{ID: "l2", Action: ActionOptions},
	)

	info := decode[LexiconResponse](t, dec)
	if info.Status != "ok" || info.Words != store.Load().Len() || info.Generation != 1 {
		t.Errorf("info = %+v", info)
	}
	if info.ByCategory["pronoun"] == 0 || info.ByCategory["noun"] == 0 {
		t.Errorf("by_category = %v", info.ByCategory)
	}

	opts := decode[LexiconResponse](t, dec)
	if opts.MaxDistance != 3 || opts.MaxResults != 10 {
		t.Errorf("options = %+v", opts)
	}
}

type fakeWords struct {
	added map[string]category.Category
}

func (f *fakeWords) Add(_ context.Context, word string, c category.Category) error {
	f.added[word] = c
	return nil
}

func (f *fakeWords) Remove(_ context.Context, word string, _ category.Category) error {
	delete(f.added, word)
	return nil
}

// fakeReloader rebuilds the builtin lexicon plus the fake store's words.
type fakeReloader struct {
	store *lexicon.Store
	words *fakeWords
}

func (f *fakeReloader) Reload(context.Context) error {
	var lists []dictionary.WordList
	for w, c := range f.words.added {
		lists = append(lists, dictionary.WordList{Category: c, Words: []lexicon.Word{{Text: w, Frequency: 1}}})
	}
	f.store.Swap(dictionary.BuildLexicon(paradigm.Builtin(), lists))
	return nil
}

func TestAddWord(t *testing.T) {
	srv, store := newTestServer(t)
	words := &fakeWords{added: map[string]category.Category{}}
	srv.SetWordStore(words)
	srv.SetReloader(&fakeReloader{store: store, words: words})

	dec := run(t, srv,
		Request{ID: "a1", Op: OpLexicon, Action: ActionAddWord, Word: "pustaka", Category: "noun"},
		Request{ID: "a2", Op: OpCheck, Word: "pustaka"},
		Request{ID: "a3", Op: OpLexicon, Action: ActionAddWord, Word: "kere", Category: "particle"},
		Request{ID: "a4", Op: OpLexicon, Action: ActionRemoveWord, Word: "pustaka", Category: "noun"},
		Request{ID: "a5", Op: OpCheck, Word: "pustaka"},
	)

	added := decode[LexiconResponse](t, dec)
	if added.Status != "ok" || added.Generation != 2 {
		t.Errorf("add response = %+v", added)
	}
	if check := decode[CheckResponse](t, dec); !check.Correct {
		t.Error("added word is not correct")
	}
	if bad := decode[LexiconResponse](t, dec); bad.Status != "error" || bad.Error == "" {
		t.Errorf("add with unknown category = %+v", bad)
	}
	if removed := decode[LexiconResponse](t, dec); removed.Status != "ok" {
		t.Errorf("remove response = %+v", removed)
	}
	if check := decode[CheckResponse](t, dec); check.Correct {
		t.Error("removed word is still correct")
	}
}

func TestMalformedInput(t *testing.T) {
	srv, _ := newTestServer(t)
	var out bytes.Buffer
	srv.SetIO(bytes.NewReader([]byte{0xc1}), &out)
	if err := srv.Start(context.Background()); err == nil {
		t.Fatal("expected error for malformed msgpack")
	}
	resp := decode[ErrorResponse](t, msgpack.NewDecoder(&out))
	if resp.Code != 400 {
		t.Errorf("error response = %+v", resp)
	}
}

func TestSetOptions(t *testing.T) {
	srv, _ := newTestServer(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	srv.SetConfigPath(path)

	one, off, negative := 1, false, -1
	dec := run(t, srv,
		Request{ID: "o1", Action: ActionSetOptions, MaxResults: &one, EnableFilter: &off},
		Request{ID: "o2", Word: "avarannuu"},
		Request{ID: "o3", Action: ActionSetOptions, MaxDistance: &negative},
	)

	set := decode[LexiconResponse](t, dec)
	if set.Status != "ok" || set.MaxResults != 1 || set.Filter {
		t.Errorf("set_options response = %+v", set)
	}
	if check := decode[CheckResponse](t, dec); check.Count != 1 {
		t.Errorf("check after set_options returned %d suggestions", check.Count)
	}
	if bad := decode[ErrorResponse](t, dec); bad.Code != 400 {
		t.Errorf("negative distance response = %+v", bad)
	}

	saved, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if saved.Server.MaxResults != 1 || saved.Server.EnableFilter {
		t.Errorf("saved server config = %+v", saved.Server)
	}
}
