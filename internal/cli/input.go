// Package cli handles cmd line input for checking words interactively,
// mostly for debugging paradigm sources.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/padaserve/internal/logger"
	"github.com/bastiangx/padaserve/internal/utils"
	"github.com/bastiangx/padaserve/pkg/checker"
	"github.com/bastiangx/padaserve/pkg/suggest"
)

// Commands understood besides plain words.
const (
	cmdText     = ":text"
	cmdComplete = ":complete"
	cmdStats    = ":stats"
	cmdHelp     = ":help"
)

// InputHandler reads lines from the user and prints check results. A
// plain line is checked word by word; lines starting with a command are
// dispatched to it.
type InputHandler struct {
	checker      *checker.Checker
	minLength    int
	maxLength    int
	suggestLimit int
	noFilter     bool
	requestCount int
	out          *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(chk *checker.Checker, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		checker:      chk,
		minLength:    minLength,
		maxLength:    maxLength,
		suggestLimit: limit,
		noFilter:     noFilter,
		out:          logger.Console(""),
	}
}

// SetOutput redirects results, mainly for tests.
func (h *InputHandler) SetOutput(w io.Writer) {
	h.out = logger.NewWithConfig(w, "", log.InfoLevel, false, false, log.TextFormatter)
}

// Start runs the prompt loop until in is exhausted.
func (h *InputHandler) Start(in io.Reader) error {
	h.out.Print("PadaServe CLI")
	h.out.Print("type a WX word and press Enter (:help for commands, Ctrl+C to exit):")

	scanner := bufio.NewScanner(in)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case cmdText:
		h.checkText(rest)
	case cmdComplete:
		h.complete(rest)
	case cmdStats:
		h.stats()
	case cmdHelp:
		h.out.Print("  <word>            check one word")
		h.out.Print("  :text <sentence>  check every word of a text")
		h.out.Print("  :complete <pfx>   list words starting with pfx")
		h.out.Print("  :stats            lexicon summary")
	default:
		for _, word := range strings.Fields(line) {
			h.checkWord(word)
		}
	}
}

// accept applies length bounds and, unless disabled, the input filter.
func (h *InputHandler) accept(word string) bool {
	n := len([]rune(word))
	if n < h.minLength {
		log.Errorf("Word too short: %s", word)
		return false
	}
	if h.maxLength > 0 && n > h.maxLength {
		log.Errorf("Word too long: %s", word)
		return false
	}
	if !h.noFilter && !utils.IsValidInput(word, 0, 0) {
		log.Warnf("Skipping '%s' (filtered out)", word)
		return false
	}
	return true
}

func (h *InputHandler) checkWord(word string) {
	if !h.accept(word) {
		return
	}
	start := time.Now()
	res := h.checker.Check(word)
	log.Debugf("Took [ %v ] for '%s' (%v)", time.Since(start), word, res.Trace)

	if res.Correct {
		lex, _ := h.checker.Lexicon()
		h.out.Printf("%s  %s", colorWord(word, colorOK), lex.CategoriesOf(word))
		return
	}
	// corrections first, then words the input may be a prefix of
	filter := utils.NewSuggestionFilter(word)
	var merged []suggest.Suggestion
	for _, s := range res.Ranked {
		if filter.ShouldInclude(s.Word) {
			merged = append(merged, s)
		}
	}
	for _, s := range h.checker.Complete(word, h.suggestLimit) {
		if filter.ShouldInclude(s.Word) {
			merged = append(merged, s)
		}
	}
	if h.suggestLimit > 0 && len(merged) > h.suggestLimit {
		merged = merged[:h.suggestLimit]
	}

	if len(merged) == 0 {
		h.out.Printf("%s  no suggestions", colorWord(word, colorBad))
		return
	}
	h.out.Printf("%s  %d suggestions:", colorWord(word, colorBad), len(merged))
	for i, s := range merged {
		h.out.Printf("%2d. %-32s (dist: %d, freq: %8s)", i+1, colorWord(s.Word, colorSuggestion), s.Distance, formatWithCommas(s.Frequency))
	}
}

func (h *InputHandler) checkText(text string) {
	if text == "" {
		log.Errorf("Usage: %s <sentence>", cmdText)
		return
	}
	findings := h.checker.CheckText(text)
	bad := checker.Errors(findings)
	h.out.Printf("%d words, %d unknown", len(findings), len(bad))
	for _, f := range bad {
		h.out.Printf("  [%d:%d] %s (%s) -> %s", f.Token.Start, f.Token.End,
			colorWord(f.Word, colorBad), f.CategoryName(), strings.Join(f.Suggestions, ", "))
	}
}

func (h *InputHandler) complete(prefix string) {
	if prefix == "" {
		log.Errorf("Usage: %s <prefix>", cmdComplete)
		return
	}
	matches := h.checker.Complete(prefix, h.suggestLimit)
	if len(matches) == 0 {
		log.Warnf("No words start with '%s'", prefix)
		return
	}
	for i, m := range matches {
		h.out.Printf("%2d. %-32s (freq: %8s)", i+1, colorWord(m.Word, colorSuggestion), formatWithCommas(m.Frequency))
	}
}

func (h *InputHandler) stats() {
	lex, gen := h.checker.Lexicon()
	st := lex.Stats()
	h.out.Printf("generation %d: %s words, %s ranked, longest %d runes, %d collisions",
		gen, formatWithCommas(st.Words), formatWithCommas(st.Ranked), st.MaxLength, st.Collisions)
	names := make([]string, 0, len(st.ByCategory))
	for name := range st.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		h.out.Printf("  %-14s %8s", name, formatWithCommas(st.ByCategory[name]))
	}
}

const (
	colorOK         = 114
	colorBad        = 203
	colorSuggestion = 75
)

func colorWord(word string, color int) string {
	return fmt.Sprintf("\033[38;5;%dm%s\033[0m", color, word)
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int) string {
	str := fmt.Sprintf("%d", n)
	if n < 1000 {
		return str
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
