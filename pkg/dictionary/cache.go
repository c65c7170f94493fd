package dictionary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/edsrzf/mmap-go"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/padaserve/internal/utils"
	"github.com/bastiangx/padaserve/pkg/category"
	"github.com/bastiangx/padaserve/pkg/lexicon"
)

const cacheVersion = 2

// ErrCacheStale means the cache is older than its source or was built
// with different options.
var ErrCacheStale = errors.New("lexicon cache is stale")

type cacheFile struct {
	Version int      `msgpack:"v"`
	Key     string   `msgpack:"k"`
	Source  int64    `msgpack:"m"`
	Policy  uint8    `msgpack:"p"`
	Words   []string `msgpack:"w"`
	Cats    []uint16 `msgpack:"c"`
	Freqs   []int    `msgpack:"f"`
}

// Cache stores a built lexicon on disk so that startup can skip
// expansion while the source is unchanged.
type Cache struct {
	Path string
}

// NewCache returns a cache backed by path.
func NewCache(path string) *Cache {
	return &Cache{Path: path}
}

// Key identifies the build options a cached lexicon was produced with.
func (o BuildOptions) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "policy=%s;stems=%t;builtin=%t;pairs=", o.Policy, o.IncludeStems, o.Builtin)
	for _, p := range o.PrefixPairs {
		fmt.Fprintf(&b, "%s>%s,", p.From, p.To)
	}
	return b.String()
}

// Fresh reports whether the cache file exists and is not older than
// sourceMod.
func (c *Cache) Fresh(sourceMod time.Time) bool {
	info, err := os.Stat(c.Path)
	if err != nil {
		return false
	}
	return !info.ModTime().Before(sourceMod)
}

// Load maps the cache file and decodes the lexicon. key must match the
// key the cache was saved with.
func (c *Cache) Load(key string) (*lexicon.Lexicon, error) {
	lex, _, err := c.load(key)
	return lex, err
}

// load also returns the source modification time stamped by Save.
func (c *Cache) load(key string) (*lexicon.Lexicon, time.Time, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, time.Time{}, err
	}
	if info.Size() == 0 {
		return nil, time.Time{}, fmt.Errorf("cache file %s is empty", c.Path)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to map cache file %s: %w", c.Path, err)
	}
	defer func() {
		if err := m.Unmap(); err != nil {
			log.Warnf("Failed to unmap %s: %v", c.Path, err)
		}
	}()

	var cf cacheFile
	if err := msgpack.Unmarshal(m, &cf); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode cache file %s: %w", c.Path, err)
	}
	if cf.Version != cacheVersion || cf.Key != key {
		return nil, time.Time{}, ErrCacheStale
	}
	if len(cf.Cats) != len(cf.Words) || len(cf.Freqs) != len(cf.Words) {
		return nil, time.Time{}, fmt.Errorf("cache file %s is corrupt: column lengths differ", c.Path)
	}

	entries := make(map[string]lexicon.Entry, len(cf.Words))
	for i, w := range cf.Words {
		entries[w] = lexicon.Entry{Categories: category.Set(cf.Cats[i]), Frequency: cf.Freqs[i]}
	}
	return lexicon.FromEntries(entries, lexicon.MergePolicy(cf.Policy)), time.Unix(0, cf.Source), nil
}

// Save writes lex to the cache file, replacing it atomically. sourceMod
// is the source modification time read before lex was built; a later
// source edit makes the cache stale even if it lands during the build.
func (c *Cache) Save(lex *lexicon.Lexicon, key string, sourceMod time.Time) error {
	cf := cacheFile{
		Version: cacheVersion,
		Key:     key,
		Policy:  uint8(lex.Policy()),
		Words:   make([]string, 0, lex.Len()),
		Cats:    make([]uint16, 0, lex.Len()),
		Freqs:   make([]int, 0, lex.Len()),
	}
	if !sourceMod.IsZero() {
		cf.Source = sourceMod.UnixNano()
	}
	lex.Range(func(word string, e lexicon.Entry) bool {
		cf.Words = append(cf.Words, word)
		cf.Cats = append(cf.Cats, uint16(e.Categories))
		cf.Freqs = append(cf.Freqs, e.Frequency)
		return true
	})

	data, err := msgpack.Marshal(&cf)
	if err != nil {
		return fmt.Errorf("failed to encode lexicon cache: %w", err)
	}
	if err := utils.EnsureDir(filepath.Dir(c.Path)); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp := c.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmp, c.Path)
}

// LoadOrBuild returns the lexicon for source, read from cache when the
// cache is at least as new as the source and was built with the same
// options, and rebuilt (then saved) otherwise. A nil cache always
// rebuilds. opts.Extra is merged after the cache step and never cached.
func LoadOrBuild(source string, cache *Cache, opts BuildOptions) (*lexicon.Lexicon, bool, error) {
	mod, err := LatestModTime(source)
	if err != nil {
		return nil, false, &SourceError{Path: source, Err: err}
	}

	key := opts.Key()
	var base *lexicon.Lexicon
	fromCache := false
	if cache != nil && cache.Fresh(mod) {
		lex, built, err := cache.load(key)
		switch {
		case err == nil && built.Before(mod):
			log.Debugf("Cache %s predates the source, rebuilding", cache.Path)
		case err == nil:
			base, fromCache = lex, true
			log.Debugf("Loaded %d words from cache %s", lex.Len(), cache.Path)
		case errors.Is(err, ErrCacheStale):
			log.Debugf("Cache %s built with other options, rebuilding", cache.Path)
		default:
			log.Warnf("Ignoring unreadable cache: %v", err)
		}
	}

	if base == nil {
		src, err := Load(source)
		if err != nil {
			return nil, false, err
		}
		sourceOnly := opts
		sourceOnly.Extra = nil
		base = Build(src, sourceOnly)
		if cache != nil {
			if err := cache.Save(base, key, mod); err != nil {
				log.Warnf("Failed to save lexicon cache: %v", err)
			}
		}
	}

	if len(opts.Extra) == 0 {
		return base, fromCache, nil
	}
	b := lexicon.NewBuilder(opts.Policy)
	b.Merge(base)
	for _, list := range opts.Extra {
		b.AddSupplemental(list.Words, list.Category)
	}
	return b.Build(), fromCache, nil
}
