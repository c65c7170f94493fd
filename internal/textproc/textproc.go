// Package textproc splits raw text into word tokens and converts between
// script and working transliteration.
package textproc

import (
	"unicode"
	"unicode/utf8"
)

// Codec maps text to and from the working transliteration that the
// lexicon is stored in. Implementations must be total and deterministic.
type Codec interface {
	ToWorkingForm(text string) string
	FromWorkingForm(text string) string
}

// Identity is the Codec for input that is already transliterated.
type Identity struct{}

func (Identity) ToWorkingForm(text string) string { return text }
func (Identity) FromWorkingForm(text string) string { return text }

// Token is a word-like span of the input. Start and End are byte offsets.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenizer splits text into ordered tokens.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// WordTokenizer returns maximal runs of letters. Kannada vowel signs and
// viramas are combining marks, so marks are kept inside a run.
type WordTokenizer struct{}

func (WordTokenizer) Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	for i, r := range text {
		if isWordRune(r, start >= 0) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{Text: text[start:i], Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: text[start:], Start: start, End: len(text)})
	}
	return tokens
}

func isWordRune(r rune, inWord bool) bool {
	if r == utf8.RuneError {
		return false
	}
	if unicode.IsLetter(r) {
		return true
	}
	return inWord && (unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || r == '\u200c' || r == '\u200d')
}

// Words is a convenience returning only token texts.
func Words(t Tokenizer, text string) []string {
	tokens := t.Tokenize(text)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}
