package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/checker"
	"github.com/bastiangx/padaserve/pkg/config"
	"github.com/bastiangx/padaserve/pkg/dictionary"
	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/paradigm"
)

func newTestAPI(t *testing.T) (*API, *lexicon.Store) {
	t.Helper()
	store := lexicon.NewStore(dictionary.BuildLexicon(paradigm.Builtin(), nil))
	chk, err := checker.New(store)
	if err != nil {
		t.Fatalf("checker.New returned error: %v", err)
	}
	return New(chk, config.DefaultConfig().Server), store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func TestCheckEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)
	h := api.Routes()

	rec := do(t, h, http.MethodGet, "/api/v1/check?word=avarannu", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody[checkResponse](t, rec); !got.Correct || len(got.Suggestions) != 0 {
		t.Errorf("known word = %+v", got)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/check?word=avarannuu", "")
	got := decodeBody[checkResponse](t, rec)
	if got.Correct || len(got.Suggestions) == 0 || got.Suggestions[0].Word != "avarannu" {
		t.Errorf("unknown word = %+v", got)
	}
}

func TestCheckEndpointErrors(t *testing.T) {
	api, _ := newTestAPI(t)
	h := api.Routes()

	tests := []struct {
		method, target string
		status         int
	}{
		{http.MethodPost, "/api/v1/check?word=avaru", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/check", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/check?word=42", http.StatusUnprocessableEntity},
		{http.MethodGet, "/api/v1/complete?prefix=ava&limit=x", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/lexicon/reload", http.StatusNotImplemented},
		{http.MethodDelete, "/api/v1/custom-word/pustaka?category=noun", http.StatusNotImplemented},
	}
	for _, tc := range tests {
		rec := do(t, h, tc.method, tc.target, "")
		if rec.Code != tc.status {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.target, rec.Code, tc.status)
		}
	}
}

func TestTextEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := do(t, api.Routes(), http.MethodPost, "/api/v1/check/text", `{"text":"avaru ammannu xyzq"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[textResponse](t, rec)
	if len(got.Findings) != 3 || got.Errors != 1 {
		t.Fatalf("response = %+v", got)
	}
	if got.Findings[1].Word != "ammannu" || got.Findings[1].Category != "noun" {
		t.Errorf("second finding = %+v", got.Findings[1])
	}

	rec = do(t, api.Routes(), http.MethodPost, "/api/v1/check/text", `{"text":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty text status = %d", rec.Code)
	}
}

func TestCompleteEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)
	rec := do(t, api.Routes(), http.MethodGet, "/api/v1/complete?prefix=amma&limit=2", "")
	got := decodeBody[completeResponse](t, rec)
	if len(got.Suggestions) != 2 {
		t.Fatalf("suggestions = %+v", got.Suggestions)
	}
	for _, s := range got.Suggestions {
		if !strings.HasPrefix(s.Word, "amma") || s.Word == "amma" {
			t.Errorf("completion %q", s.Word)
		}
	}
}

func TestLexiconEndpoint(t *testing.T) {
	api, store := newTestAPI(t)
	rec := do(t, api.Routes(), http.MethodGet, "/api/v1/lexicon", "")
	got := decodeBody[lexiconResponse](t, rec)
	if got.Words != store.Load().Len() || got.Generation != 1 {
		t.Errorf("lexicon = %+v", got)
	}
}

type memWords struct {
	store *lexicon.Store
	words map[string]category.Category
}

func (m *memWords) Add(_ context.Context, word string, c category.Category) error {
	m.words[word] = c
	return nil
}

func (m *memWords) Remove(_ context.Context, word string, _ category.Category) error {
	delete(m.words, word)
	return nil
}

func (m *memWords) Reload(context.Context) error {
	var lists []dictionary.WordList
	for w, c := range m.words {
		lists = append(lists, dictionary.WordList{Category: c, Words: []lexicon.Word{{Text: w}}})
	}
	m.store.Swap(dictionary.BuildLexicon(paradigm.Builtin(), lists))
	return nil
}

func TestCustomWordEndpoints(t *testing.T) {
	api, store := newTestAPI(t)
	mem := &memWords{store: store, words: map[string]category.Category{}}
	api.SetWordStore(mem)
	api.SetReloader(mem)
	h := api.Routes()

	rec := do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":"pustaka","category":"noun"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}
	if !store.Load().Contains("pustaka") {
		t.Error("added word missing after reload")
	}

	rec = do(t, h, http.MethodPost, "/api/v1/custom-word", `{"word":"pustaka","category":"particle"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodDelete, "/api/v1/custom-word/pustaka?category=noun", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	if store.Load().Contains("pustaka") {
		t.Error("removed word still present")
	}

	rec = do(t, h, http.MethodPost, "/api/v1/lexicon/reload", "")
	if rec.Code != http.StatusOK {
		t.Errorf("reload status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	api, _ := newTestAPI(t)
	h := api.Handler([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allowed origin header = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got header %q", got)
	}
}
