package checker

import (
	"unicode/utf8"

	"github.com/bastiangx/padaserve/internal/textproc"
	"github.com/bastiangx/padaserve/pkg/category"
)

// Finding is the check result for one token of a text.
type Finding struct {
	Token    textproc.Token    `json:"token" msgpack:"t"`
	Category category.Category `json:"-" msgpack:"-"`
	Known    category.Set      `json:"-" msgpack:"-"`
	Result
}

// CategoryName returns the category as a string for display.
func (f Finding) CategoryName() string { return f.Category.String() }

// CheckText transliterates text, splits it into tokens and checks every
// token longer than one rune. Token offsets refer to the transliterated
// text; suggestions are converted back with the codec. The category comes
// from the lexicon when the word is known, else from the stem classifier,
// and is informational only.
func (c *Checker) CheckText(text string) []Finding {
	lex, gen := c.store.Snapshot()
	working := c.codec.ToWorkingForm(text)

	var findings []Finding
	for _, tok := range c.tokenizer.Tokenize(working) {
		if utf8.RuneCountInString(tok.Text) <= 1 {
			continue
		}
		f := Finding{Token: tok, Result: c.check(tok.Text, lex, gen)}
		f.Known = lex.CategoriesOf(tok.Text)
		if cats := f.Known.Slice(); len(cats) > 0 {
			f.Category = cats[0]
		} else if c.classifier != nil {
			f.Category, _ = c.classifier.Classify(tok.Text)
		}
		if len(f.Suggestions) > 0 {
			display := make([]string, len(f.Suggestions))
			for i, s := range f.Suggestions {
				display[i] = c.codec.FromWorkingForm(s)
			}
			f.Suggestions = display
		}
		findings = append(findings, f)
	}
	return findings
}

// Errors returns only the findings for unknown words.
func Errors(findings []Finding) []Finding {
	var out []Finding
	for _, f := range findings {
		if !f.Correct {
			out = append(out, f)
		}
	}
	return out
}
