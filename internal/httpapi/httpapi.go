// Package httpapi exposes the checker as a JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/cors"

	"github.com/bastiangx/padaserve/internal/utils"
	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/checker"
	"github.com/bastiangx/padaserve/pkg/config"
	"github.com/bastiangx/padaserve/pkg/suggest"
)

// WordStore persists user words.
type WordStore interface {
	Add(ctx context.Context, word string, c category.Category) error
	Remove(ctx context.Context, word string, c category.Category) error
}

// Reloader rebuilds the lexicon on demand.
type Reloader interface {
	Reload(ctx context.Context) error
}

// API serves check, completion and lexicon endpoints.
type API struct {
	checker  *checker.Checker
	server   config.ServerConfig
	words    WordStore
	reloader Reloader
}

// New returns an API over chk using the request limits in srv.
func New(chk *checker.Checker, srv config.ServerConfig) *API {
	return &API{checker: chk, server: srv}
}

// SetWordStore enables the custom word endpoints.
func (a *API) SetWordStore(w WordStore) { a.words = w }

// SetReloader enables the reload endpoint.
func (a *API) SetReloader(r Reloader) { a.reloader = r }

type errorResponse struct {
	Error string `json:"error"`
}

type checkResponse struct {
	Word        string               `json:"word"`
	Correct     bool                 `json:"correct"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

type findingJSON struct {
	Word        string   `json:"word"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Category    string   `json:"category"`
	Correct     bool     `json:"correct"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type textResponse struct {
	Findings []findingJSON `json:"findings"`
	Errors   int           `json:"errors"`
}

type completeResponse struct {
	Prefix      string               `json:"prefix"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

type lexiconResponse struct {
	Words      int            `json:"words"`
	Generation uint64         `json:"generation"`
	ByCategory map[string]int `json:"by_category"`
	Ranked     int            `json:"ranked"`
	MaxLength  int            `json:"max_length"`
}

type wordRequest struct {
	Word     string `json:"word"`
	Category string `json:"category"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (a *API) validWord(word string) bool {
	if !a.server.EnableFilter {
		return word != ""
	}
	return utils.IsValidInput(word, a.server.MinWordLen, a.server.MaxWordLen)
}

// Routes registers every endpoint on a new mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/check", a.handleCheck)
	mux.HandleFunc("/api/v1/check/text", a.handleText)
	mux.HandleFunc("/api/v1/complete", a.handleComplete)
	mux.HandleFunc("/api/v1/lexicon", a.handleLexicon)
	mux.HandleFunc("/api/v1/lexicon/reload", a.handleReload)
	mux.HandleFunc("/api/v1/custom-word", a.handleAddWord)
	mux.HandleFunc("/api/v1/custom-word/", a.handleRemoveWord)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// Handler returns the routes wrapped in CORS handling for origins.
func (a *API) Handler(origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(a.Routes())
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (a *API) ListenAndServe(ctx context.Context, addr string, origins []string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(origins),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (a *API) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	word := r.URL.Query().Get("word")
	if word == "" {
		writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
		return
	}
	if !a.validWord(word) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("word %q rejected by input filter", word))
		return
	}

	res := a.checker.Check(word)
	ranked := res.Ranked
	if ranked == nil {
		ranked = []suggest.Suggestion{}
	}
	writeJSON(w, http.StatusOK, checkResponse{Word: word, Correct: res.Correct, Suggestions: ranked})
}

func (a *API) handleText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'text' field")
		return
	}

	resp := textResponse{Findings: []findingJSON{}}
	for _, f := range a.checker.CheckText(body.Text) {
		if a.server.EnableFilter && !a.validWord(f.Word) {
			continue
		}
		resp.Findings = append(resp.Findings, findingJSON{
			Word:        f.Word,
			Start:       f.Token.Start,
			End:         f.Token.End,
			Category:    f.CategoryName(),
			Correct:     f.Correct,
			Suggestions: f.Suggestions,
		})
		if !f.Correct {
			resp.Errors++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		writeError(w, http.StatusBadRequest, "missing 'prefix' query parameter")
		return
	}
	limit := a.server.MaxResults
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "'limit' must be a positive integer")
			return
		}
		limit = min(n, a.server.MaxResults)
	}
	matches := a.checker.Complete(prefix, limit)
	if matches == nil {
		matches = []suggest.Suggestion{}
	}
	writeJSON(w, http.StatusOK, completeResponse{Prefix: prefix, Suggestions: matches})
}

func (a *API) handleLexicon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	lex, gen := a.checker.Lexicon()
	st := lex.Stats()
	writeJSON(w, http.StatusOK, lexiconResponse{
		Words:      st.Words,
		Generation: gen,
		ByCategory: st.ByCategory,
		Ranked:     st.Ranked,
		MaxLength:  st.MaxLength,
	})
}

func (a *API) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if a.reloader == nil {
		writeError(w, http.StatusNotImplemented, "reloading is not configured")
		return
	}
	if err := a.reloader.Reload(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_, gen := a.checker.Lexicon()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "generation": gen})
}

func (a *API) handleAddWord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req wordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Word == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'word' field")
		return
	}
	a.editWord(w, r, req, true)
}

func (a *API) handleRemoveWord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "DELETE required")
		return
	}
	req := wordRequest{
		Word:     strings.TrimPrefix(r.URL.Path, "/api/v1/custom-word/"),
		Category: r.URL.Query().Get("category"),
	}
	if req.Word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}
	a.editWord(w, r, req, false)
}

func (a *API) editWord(w http.ResponseWriter, r *http.Request, req wordRequest, add bool) {
	if a.words == nil {
		writeError(w, http.StatusNotImplemented, "no word store configured")
		return
	}
	if !a.validWord(req.Word) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("word %q rejected by input filter", req.Word))
		return
	}
	c, err := category.Parse(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if add {
		err = a.words.Add(r.Context(), req.Word, c)
	} else {
		err = a.words.Remove(r.Context(), req.Word, c)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if a.reloader != nil {
		if err := a.reloader.Reload(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	status := http.StatusOK
	if add {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"status": "ok"})
}
