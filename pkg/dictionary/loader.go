// Package dictionary reads paradigm sources from disk and turns them into
// lexicons, with an on-disk cache and a background reloader.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"

	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/paradigm"
	"github.com/bastiangx/padaserve/pkg/rule"
)

// ErrSourceUnavailable means the paradigm source is missing or unreadable.
var ErrSourceUnavailable = errors.New("paradigm source unavailable")

// SourceError reports which path could not be read.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrSourceUnavailable, e.Path, e.Err)
}

func (e *SourceError) Unwrap() []error { return []error{ErrSourceUnavailable, e.Err} }

// paradigmDirs maps the per-category directories of a source.
var paradigmDirs = []struct {
	name     string
	category category.Category
}{
	{"Noun", category.Noun},
	{"Verb", category.Verb},
	{"Pronouns", category.Pronoun},
}

const (
	rootsFile = "paradigms.yaml"
	wordsDir  = "words"
)

// WordList is a set of supplemental words filed under one category.
type WordList struct {
	Category category.Category
	Words    []lexicon.Word
}

// LoadStats counts what a load read and skipped.
type LoadStats struct {
	Files        int
	Lines        int
	Roots        int
	Rules        int
	SkippedRules int
	SkippedLines int
	Words        int
}

// Source is everything read from a paradigm source directory.
type Source struct {
	Path    string
	Roots   []paradigm.Root
	Lists   []WordList
	Stats   LoadStats
	ModTime time.Time
}

// LoadParadigms reads the roots of a source directory.
func LoadParadigms(source string) ([]paradigm.Root, error) {
	src, err := Load(source)
	if err != nil {
		return nil, err
	}
	return src.Roots, nil
}

// Load reads a whole source directory: paradigms.yaml, the per-category
// paradigm tables and the supplemental word lists. Malformed rules and
// lines are logged and skipped; only an unreadable source is an error.
func Load(source string) (*Source, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, &SourceError{Path: source, Err: err}
	}
	if !info.IsDir() {
		return nil, &SourceError{Path: source, Err: fmt.Errorf("not a directory")}
	}

	l := newLoader()
	if err := l.loadRootsFile(filepath.Join(source, rootsFile)); err != nil {
		return nil, err
	}
	for _, d := range paradigmDirs {
		if err := l.loadParadigmDir(filepath.Join(source, d.name), d.category); err != nil {
			return nil, err
		}
	}
	if err := l.loadWordsDir(filepath.Join(source, wordsDir)); err != nil {
		return nil, err
	}

	mod, err := LatestModTime(source)
	if err != nil {
		return nil, &SourceError{Path: source, Err: err}
	}

	src := &Source{Path: source, ModTime: mod}
	src.Roots, src.Lists = l.result()
	src.Stats = l.stats
	src.Stats.Roots = len(src.Roots)
	if src.Stats.Files == 0 {
		log.Warnf("Paradigm source %s contains no paradigm or word files", source)
	}
	log.Debugf("Loaded %s: %d roots, %d rules (%d skipped), %d supplemental words from %d files",
		source, src.Stats.Roots, src.Stats.Rules, src.Stats.SkippedRules, src.Stats.Words, src.Stats.Files)
	return src, nil
}

type rootKey struct {
	category category.Category
	stem     string
}

type rootAcc struct {
	root  paradigm.Root
	rules mapset.Set[string]
	vars  mapset.Set[string]
}

// loader accumulates roots and words in first-seen order.
type loader struct {
	roots     map[rootKey]*rootAcc
	rootOrder []rootKey
	words     map[category.Category]map[string]int
	wordOrder map[category.Category][]string
	stats     LoadStats
}

func newLoader() *loader {
	return &loader{
		roots:     make(map[rootKey]*rootAcc),
		words:     make(map[category.Category]map[string]int),
		wordOrder: make(map[category.Category][]string),
	}
}

func (l *loader) root(stem string, c category.Category) *rootAcc {
	key := rootKey{category: c, stem: stem}
	acc, ok := l.roots[key]
	if !ok {
		acc = &rootAcc{
			root:  paradigm.Root{Stem: stem, Category: c},
			rules: mapset.NewThreadUnsafeSet[string](),
			vars:  mapset.NewThreadUnsafeSet(stem),
		}
		l.roots[key] = acc
		l.rootOrder = append(l.rootOrder, key)
	}
	return acc
}

func (l *loader) addRule(acc *rootAcc, r rule.Rule) {
	if acc.rules.Add(r.String()) {
		acc.root.Rules = append(acc.root.Rules, r)
		l.stats.Rules++
	}
}

func (l *loader) addVariant(acc *rootAcc, v string) {
	if v != "" && acc.vars.Add(v) {
		acc.root.Variants = append(acc.root.Variants, v)
	}
}

func (l *loader) addWord(c category.Category, word string, freq int) {
	m, ok := l.words[c]
	if !ok {
		m = make(map[string]int)
		l.words[c] = m
	}
	if _, seen := m[word]; !seen {
		l.wordOrder[c] = append(l.wordOrder[c], word)
	}
	m[word] += freq
}

func (l *loader) result() ([]paradigm.Root, []WordList) {
	roots := make([]paradigm.Root, 0, len(l.rootOrder))
	for _, key := range l.rootOrder {
		roots = append(roots, l.roots[key].root)
	}
	var lists []WordList
	for _, c := range category.All() {
		order := l.wordOrder[c]
		if len(order) == 0 {
			continue
		}
		list := WordList{Category: c, Words: make([]lexicon.Word, len(order))}
		for i, w := range order {
			list.Words[i] = lexicon.Word{Text: w, Frequency: l.words[c][w]}
		}
		l.stats.Words += len(order)
		lists = append(lists, list)
	}
	return roots, lists
}

type rootsDoc struct {
	Roots []struct {
		Stem     string   `yaml:"stem"`
		Category string   `yaml:"category"`
		Rules    []string `yaml:"rules"`
		Variants []string `yaml:"variants"`
	} `yaml:"roots"`
}

func (l *loader) loadRootsFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &SourceError{Path: path, Err: err}
	}
	l.stats.Files++

	var doc rootsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &SourceError{Path: path, Err: fmt.Errorf("invalid yaml: %w", err)}
	}
	for i, r := range doc.Roots {
		c, err := category.Parse(r.Category)
		if err != nil || r.Stem == "" {
			log.Warnf("%s: skipping root %d (%q): %v", path, i+1, r.Stem, err)
			l.stats.SkippedLines++
			continue
		}
		acc := l.root(r.Stem, c)
		rules, errs := rule.ParseAll(r.Rules)
		for _, err := range errs {
			log.Warnf("%s: root %s: %v", path, r.Stem, err)
		}
		l.stats.SkippedRules += len(errs)
		for _, parsed := range rules {
			l.addRule(acc, parsed)
		}
		for _, v := range r.Variants {
			l.addVariant(acc, v)
		}
	}
	return nil
}

func (l *loader) loadParadigmDir(dir string, c category.Category) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &SourceError{Path: path, Err: err}
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		return l.loadParadigmFile(path, c)
	})
}

// loadParadigmFile reads "surface base(Type)+rule" lines. The surface
// column is also counted into the category's word list.
func (l *loader) loadParadigmFile(path string, c category.Category) error {
	f, err := os.Open(path)
	if err != nil {
		return &SourceError{Path: path, Err: err}
	}
	defer f.Close()
	l.stats.Files++

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		l.stats.Lines++
		fields := strings.Fields(line)
		l.addWord(c, fields[0], 1)
		if len(fields) < 2 {
			continue
		}

		base, ruleText, ok := splitRuleColumn(fields[1])
		if !ok {
			log.Debugf("%s:%d: no base(Type) in %q", path, lineNo, fields[1])
			l.stats.SkippedLines++
			continue
		}
		r, err := rule.Parse(ruleText)
		if err != nil {
			log.Warnf("%s:%d: %v", path, lineNo, err)
			l.stats.SkippedRules++
			continue
		}
		l.addRule(l.root(base, c), r)
	}
	if err := scanner.Err(); err != nil {
		return &SourceError{Path: path, Err: err}
	}
	return nil
}

// splitRuleColumn splits "avaru(Pronoun)+annu_u#" into the base stem and
// the rule text following the closing parenthesis.
func splitRuleColumn(col string) (base, ruleText string, ok bool) {
	open := strings.IndexByte(col, '(')
	closing := strings.IndexByte(col, ')')
	if open <= 0 || closing < open {
		return "", "", false
	}
	return col[:open], col[closing+1:], true
}

func (l *loader) loadWordsDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &SourceError{Path: dir, Err: err}
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		c, err := category.Parse(name)
		if err != nil {
			log.Warnf("Skipping word list %s: %v", e.Name(), err)
			continue
		}
		if err := l.loadWordFile(filepath.Join(dir, e.Name()), c); err != nil {
			return err
		}
	}
	return nil
}

// loadWordFile reads "word [frequency]" lines; '#' starts a comment line.
func (l *loader) loadWordFile(path string, c category.Category) error {
	f, err := os.Open(path)
	if err != nil {
		return &SourceError{Path: path, Err: err}
	}
	defer f.Close()
	l.stats.Files++

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l.stats.Lines++
		fields := strings.Fields(line)
		freq := 0
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 0 {
				log.Warnf("%s:%d: invalid frequency %q", path, lineNo, fields[1])
				l.stats.SkippedLines++
				continue
			}
			freq = n
		}
		l.addWord(c, fields[0], freq)
	}
	if err := scanner.Err(); err != nil {
		return &SourceError{Path: path, Err: err}
	}
	return nil
}

// LatestModTime returns the newest modification time of root and
// everything below it.
func LatestModTime(root string) (time.Time, error) {
	var latest time.Time
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	return latest, err
}
