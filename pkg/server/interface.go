/*
Package server implements msgpack IPC for word checking services.

Clients write a stream of msgpack maps to stdin and read one msgpack map
per request from stdout. Requests are handled synchronously, in order, and
every response carries the request ID and the time taken in microseconds.

# IPC

The operation is named by "op". Requests without one are routed by their
fields, so the short completion form keeps working:

	{"id": "c1", "p": "ava", "l": 5}

Checking a single WX word:

	{"id": "w1", "op": "check", "w": "ivarali"}
	{"id": "w1", "ok": false, "s": [{"w": "barali", "d": 2, "f": 90}], "c": 1, "t": 212}

Checking a text; offsets are byte offsets into the transliterated text:

	{"id": "x1", "op": "text", "x": "nAnu manege hogu"}

Lexicon management:

	{"id": "l1", "op": "lexicon", "action": "get_info"}
	{"id": "l2", "op": "lexicon", "action": "reload"}
	{"id": "l3", "op": "lexicon", "action": "add_word", "w": "pustaka", "cat": "noun"}

Search bounds can be changed at runtime; they are written back to the
config file the server was started with:

	{"id": "o1", "action": "set_options", "max_distance": 2, "enable_filter": false}

Failures are reported as {"id": ..., "e": message, "c": code} with
HTTP-like codes.
*/
package server

import "github.com/bastiangx/padaserve/pkg/suggest"

// Operation names.
const (
	OpCheck    = "check"
	OpText     = "text"
	OpComplete = "complete"
	OpLexicon  = "lexicon"
	OpHealth   = "health"
)

// Lexicon actions.
const (
	ActionInfo       = "get_info"
	ActionReload     = "reload"
	ActionAddWord    = "add_word"
	ActionRemoveWord = "remove_word"
	ActionOptions    = "get_options"
	ActionSetOptions = "set_options"
)

// Request is the union of every request shape.
type Request struct {
	ID       string `msgpack:"id"`
	Op       string `msgpack:"op,omitempty"`
	Word     string `msgpack:"w,omitempty"`
	Text     string `msgpack:"x,omitempty"`
	Prefix   string `msgpack:"p,omitempty"`
	Limit    int    `msgpack:"l,omitempty"`
	Action   string `msgpack:"action,omitempty"`
	Category string `msgpack:"cat,omitempty"`

	// set_options fields; nil leaves the value unchanged
	MaxResults   *int  `msgpack:"max_results,omitempty"`
	MaxDistance  *int  `msgpack:"max_distance,omitempty"`
	EnableFilter *bool `msgpack:"enable_filter,omitempty"`
}

// operation returns the explicit op or infers it from the populated fields.
func (r Request) operation() string {
	switch {
	case r.Op != "":
		return r.Op
	case r.Action != "":
		return OpLexicon
	case r.Text != "":
		return OpText
	case r.Prefix != "":
		return OpComplete
	case r.Word != "":
		return OpCheck
	}
	return ""
}

// CheckResponse answers a single word check.
type CheckResponse struct {
	ID          string               `msgpack:"id"`
	Correct     bool                 `msgpack:"ok"`
	Suggestions []suggest.Suggestion `msgpack:"s"`
	Count       int                  `msgpack:"c"`
	TimeTaken   int64                `msgpack:"t"`
}

// TextFinding is one checked token.
type TextFinding struct {
	Word        string   `msgpack:"w"`
	Start       int      `msgpack:"b"`
	End         int      `msgpack:"e"`
	Category    string   `msgpack:"cat"`
	Correct     bool     `msgpack:"ok"`
	Suggestions []string `msgpack:"s,omitempty"`
}

// TextResponse answers a text check.
type TextResponse struct {
	ID        string        `msgpack:"id"`
	Findings  []TextFinding `msgpack:"f"`
	Errors    int           `msgpack:"n"`
	TimeTaken int64         `msgpack:"t"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// LexiconResponse answers lexicon management actions.
type LexiconResponse struct {
	ID          string         `msgpack:"id"`
	Status      string         `msgpack:"status"`
	Error       string         `msgpack:"error,omitempty"`
	Words       int            `msgpack:"words,omitempty"`
	Generation  uint64         `msgpack:"generation,omitempty"`
	ByCategory  map[string]int `msgpack:"by_category,omitempty"`
	MaxDistance int            `msgpack:"max_distance,omitempty"`
	MaxResults  int            `msgpack:"max_results,omitempty"`
	Filter      bool           `msgpack:"enable_filter,omitempty"`
}

// ErrorResponse holds basic error information for any request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
