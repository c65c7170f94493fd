package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/padaserve/internal/utils"
	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/checker"
	"github.com/bastiangx/padaserve/pkg/config"
)

// Reloader rebuilds the lexicon on demand.
type Reloader interface {
	Reload(ctx context.Context) error
}

// WordStore persists user words.
type WordStore interface {
	Add(ctx context.Context, word string, c category.Category) error
	Remove(ctx context.Context, word string, c category.Category) error
}

// Server handles the IPC for word checks
type Server struct {
	checker    *checker.Checker
	config     *config.Config
	configPath string
	reloader   Reloader
	words      WordStore

	decoder *msgpack.Decoder
	writer  *bufio.Writer
	encoder *msgpack.Encoder

	requestCount int
}

// NewServer creates a server reading requests from stdin and writing
// responses to stdout.
func NewServer(chk *checker.Checker, cfg *config.Config) *Server {
	s := &Server{checker: chk, config: cfg}
	s.SetIO(os.Stdin, os.Stdout)
	return s
}

// SetIO replaces the request and response streams.
func (s *Server) SetIO(r io.Reader, w io.Writer) {
	s.decoder = msgpack.NewDecoder(bufio.NewReader(r))
	s.writer = bufio.NewWriter(w)
	s.encoder = msgpack.NewEncoder(s.writer)
}

// SetConfigPath sets the file set_options writes back to.
func (s *Server) SetConfigPath(path string) { s.configPath = path }

// SetReloader enables the reload action and reloads after word edits.
func (s *Server) SetReloader(r Reloader) { s.reloader = r }

// SetWordStore enables the add_word and remove_word actions.
func (s *Server) SetWordStore(w WordStore) { s.words = w }

// Start processes requests until the input ends. A malformed message ends
// the stream, since msgpack framing cannot be resynchronised.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting IPC server")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			s.sendError("", fmt.Sprintf("invalid msgpack request: %v", err), 400)
			return fmt.Errorf("decoding request: %w", err)
		}
		s.requestCount++
		s.handleRequest(ctx, req)
	}
}

func (s *Server) handleRequest(ctx context.Context, req Request) {
	switch req.operation() {
	case OpCheck:
		s.handleCheck(req)
	case OpText:
		s.handleText(req)
	case OpComplete:
		s.handleComplete(req)
	case OpLexicon:
		s.handleLexicon(ctx, req)
	case OpHealth:
		s.sendResponse(map[string]string{"id": req.ID, "status": "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown operation %q", req.Op), 400)
	}
}

func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}

// validWord applies the configured input filter.
func (s *Server) validWord(word string) bool {
	srv := s.config.Server
	if !srv.EnableFilter {
		return word != ""
	}
	return utils.IsValidInput(word, srv.MinWordLen, srv.MaxWordLen)
}

func (s *Server) handleCheck(req Request) {
	if req.Word == "" {
		s.sendError(req.ID, "missing 'w' parameter", 400)
		return
	}
	if !s.validWord(req.Word) {
		s.sendError(req.ID, fmt.Sprintf("word %q rejected by input filter", req.Word), 422)
		return
	}

	start := time.Now()
	r := s.checker.Check(req.Word)
	ranked := r.Ranked
	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}
	s.sendResponse(CheckResponse{
		ID:          req.ID,
		Correct:     r.Correct,
		Suggestions: ranked,
		Count:       len(ranked),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) handleText(req Request) {
	if req.Text == "" {
		s.sendError(req.ID, "missing 'x' parameter", 400)
		return
	}

	start := time.Now()
	findings := s.checker.CheckText(req.Text)
	resp := TextResponse{ID: req.ID, Findings: make([]TextFinding, 0, len(findings))}
	for _, f := range findings {
		if s.config.Server.EnableFilter && !s.validWord(f.Word) {
			continue
		}
		resp.Findings = append(resp.Findings, TextFinding{
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
	resp.TimeTaken = time.Since(start).Microseconds()
	s.sendResponse(resp)
}

func (s *Server) handleComplete(req Request) {
	if req.Prefix == "" {
		s.sendError(req.ID, "missing 'p' parameter", 400)
		return
	}
	if maxLen := s.config.Server.MaxWordLen; maxLen > 0 && len([]rune(req.Prefix)) > maxLen {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d", maxLen), 400)
		return
	}
	limit := req.Limit
	if limit < 1 || limit > s.config.Server.MaxResults {
		limit = s.config.Server.MaxResults
	}

	start := time.Now()
	matches := s.checker.Complete(req.Prefix, limit)
	suggestions := make([]CompletionSuggestion, len(matches))
	for i, m := range matches {
		suggestions[i] = CompletionSuggestion{Word: m.Word, Rank: uint16(i + 1)}
	}
	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) handleLexicon(ctx context.Context, req Request) {
	resp := LexiconResponse{ID: req.ID, Status: "ok"}
	switch req.Action {
	case ActionInfo:
		lex, gen := s.checker.Lexicon()
		st := lex.Stats()
		resp.Words, resp.Generation, resp.ByCategory = st.Words, gen, st.ByCategory
	case ActionOptions:
		opts := s.checker.Options()
		resp.MaxDistance, resp.MaxResults = opts.MaxDistance, opts.MaxResults
		resp.Filter = s.config.Server.EnableFilter
	case ActionSetOptions:
		if err := s.setOptions(req); err != nil {
			s.sendError(req.ID, err.Error(), 400)
			return
		}
		opts := s.checker.Options()
		resp.MaxDistance, resp.MaxResults = opts.MaxDistance, opts.MaxResults
		resp.Filter = s.config.Server.EnableFilter
	case ActionReload:
		if s.reloader == nil {
			s.sendError(req.ID, "reloading is not configured", 501)
			return
		}
		if err := s.reloader.Reload(ctx); err != nil {
			resp.Status, resp.Error = "error", err.Error()
		}
		_, resp.Generation = s.checker.Lexicon()
	case ActionAddWord, ActionRemoveWord:
		if err := s.editWord(ctx, req); err != nil {
			resp.Status, resp.Error = "error", err.Error()
		}
		_, resp.Generation = s.checker.Lexicon()
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown lexicon action %q", req.Action), 400)
		return
	}
	s.sendResponse(resp)
}

func (s *Server) editWord(ctx context.Context, req Request) error {
	if s.words == nil {
		return errors.New("no word store configured")
	}
	if !s.validWord(req.Word) {
		return fmt.Errorf("word %q rejected by input filter", req.Word)
	}
	c, err := category.Parse(req.Category)
	if err != nil {
		return err
	}
	if req.Action == ActionAddWord {
		err = s.words.Add(ctx, req.Word, c)
	} else {
		err = s.words.Remove(ctx, req.Word, c)
	}
	if err != nil {
		return err
	}
	if s.reloader != nil {
		return s.reloader.Reload(ctx)
	}
	return nil
}

func (s *Server) setOptions(req Request) error {
	if req.MaxResults != nil && *req.MaxResults < 0 {
		return errors.New("max_results must not be negative")
	}
	if req.MaxDistance != nil && *req.MaxDistance < 0 {
		return errors.New("max_distance must not be negative")
	}
	if err := s.config.Update(s.configPath, req.MaxResults, req.MaxDistance, req.EnableFilter); err != nil {
		// the in-memory values are already applied
		log.Warnf("Failed to save config: %v", err)
	}
	s.checker.SetOptions(s.config.SuggestOptions())
	log.Debugf("Options updated: %+v", s.config.Server)
	return nil
}
