// Package checker decides whether words are valid and, if not, what they
// should have been.
//
// Each check is one pass: look the word up, and on a miss search the whole
// lexicon for suggestions. The search is never narrowed to the category a
// tagger assigned, since a form may be valid under another category.
package checker

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bastiangx/padaserve/internal/textproc"
	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/suggest"
)

// DefaultCacheSize is the number of suggestion lists kept per checker.
const DefaultCacheSize = 4096

// State is a step of a single word check.
type State uint8

const (
	Idle State = iota
	Lookup
	Suggest
	Correct
	IncorrectWithSuggestions
)

var stateNames = [...]string{"idle", "lookup", "suggest", "correct", "incorrect"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Result is the outcome of checking one word.
type Result struct {
	Word        string               `json:"word" msgpack:"w"`
	Correct     bool                 `json:"correct" msgpack:"c"`
	Suggestions []string             `json:"suggestions" msgpack:"s"`
	Ranked      []suggest.Suggestion `json:"ranked,omitempty" msgpack:"r,omitempty"`
	Trace       []State              `json:"-" msgpack:"-"`
}

type cacheKey struct {
	gen  uint64
	opts suggest.Options
	word string
}

// Checker runs checks against the lexicon currently held by a Store. It is
// safe for concurrent use.
type Checker struct {
	store      *lexicon.Store
	mu         sync.RWMutex
	opts       suggest.Options
	cache      *lru.Cache[cacheKey, []suggest.Suggestion]
	codec      textproc.Codec
	tokenizer  textproc.Tokenizer
	classifier *category.Classifier
	cacheSize  int
}

// Option configures a Checker.
type Option func(*Checker)

// WithSuggestOptions sets the distance bound and result count.
func WithSuggestOptions(o suggest.Options) Option {
	return func(c *Checker) { c.opts = o }
}

// WithCacheSize sets the suggestion cache capacity; 0 disables it.
func WithCacheSize(n int) Option {
	return func(c *Checker) { c.cacheSize = n }
}

// WithCodec sets the transliteration used by CheckText.
func WithCodec(codec textproc.Codec) Option {
	return func(c *Checker) { c.codec = codec }
}

// WithTokenizer sets the tokenizer used by CheckText.
func WithTokenizer(t textproc.Tokenizer) Option {
	return func(c *Checker) { c.tokenizer = t }
}

// WithClassifier sets the stem classifier used to tag CheckText findings.
func WithClassifier(cl *category.Classifier) Option {
	return func(c *Checker) { c.classifier = cl }
}

// New returns a Checker reading from store.
func New(store *lexicon.Store, opts ...Option) (*Checker, error) {
	c := &Checker{
		store:      store,
		opts:       suggest.DefaultOptions(),
		codec:      textproc.Identity{},
		tokenizer:  textproc.WordTokenizer{},
		classifier: category.DefaultClassifier(),
		cacheSize:  DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheSize > 0 {
		cache, err := lru.New[cacheKey, []suggest.Suggestion](c.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create suggestion cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Lexicon returns the lexicon checks currently run against and its
// generation.
func (c *Checker) Lexicon() (*lexicon.Lexicon, uint64) { return c.store.Snapshot() }

// Options returns the suggestion bounds in use.
func (c *Checker) Options() suggest.Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// SetOptions changes the suggestion bounds. Cache entries are keyed by the
// options they were computed with, so none computed under the old bounds is
// served afterwards; purging only frees them early.
func (c *Checker) SetOptions(o suggest.Options) {
	c.mu.Lock()
	c.opts = o
	c.mu.Unlock()
	c.Purge()
}

// CheckWord returns (true, []) for known words and (false, suggestions)
// otherwise.
func (c *Checker) CheckWord(word string) (bool, []string) {
	r := c.Check(word)
	return r.Correct, r.Suggestions
}

// Check runs one lookup-then-suggest pass and records the states visited.
func (c *Checker) Check(word string) Result {
	lex, gen := c.store.Snapshot()
	return c.check(word, lex, gen)
}

func (c *Checker) check(word string, lex *lexicon.Lexicon, gen uint64) Result {
	r := Result{Word: word, Suggestions: []string{}, Trace: []State{Idle, Lookup}}
	if lex.Contains(word) {
		r.Correct = true
		r.Trace = append(r.Trace, Correct)
		return r
	}

	r.Trace = append(r.Trace, Suggest)
	if word != "" {
		r.Ranked = c.suggestions(word, lex, gen)
		r.Suggestions = suggest.Words(r.Ranked)
	}
	r.Trace = append(r.Trace, IncorrectWithSuggestions)
	return r
}

// Suggestions returns ranked candidates for word from the current lexicon,
// whether or not word itself is known.
func (c *Checker) Suggestions(word string) []suggest.Suggestion {
	lex, gen := c.store.Snapshot()
	return c.suggestions(word, lex, gen)
}

// Complete returns words of the current lexicon extending prefix.
func (c *Checker) Complete(prefix string, limit int) []suggest.Suggestion {
	return suggest.Complete(prefix, c.store.Load(), limit)
}

func (c *Checker) suggestions(word string, lex *lexicon.Lexicon, gen uint64) []suggest.Suggestion {
	opts := c.Options()
	if c.cache == nil {
		return suggest.Suggest(word, lex, opts)
	}
	key := cacheKey{gen: gen, opts: opts, word: word}
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}
	s := suggest.Suggest(word, lex, opts)
	c.cache.Add(key, s)
	return s
}

// Purge empties the suggestion cache.
func (c *Checker) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// CheckWord checks word against lex with default bounds and no caching.
func CheckWord(word string, lex *lexicon.Lexicon) (bool, []string) {
	c := &Checker{opts: suggest.DefaultOptions()}
	r := c.check(word, lex, 0)
	return r.Correct, r.Suggestions
}
