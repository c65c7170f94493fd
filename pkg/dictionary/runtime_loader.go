package dictionary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/padaserve/pkg/lexicon"
)

// ExtraFunc supplies words from outside the source at every rebuild.
type ExtraFunc func(ctx context.Context) ([]WordList, error)

// Reloader rebuilds the lexicon when the source changes and swaps it into
// a Store. Builds happen off to the side; readers never see a partial
// lexicon.
type Reloader struct {
	source string
	cache  *Cache
	opts   BuildOptions
	store  *lexicon.Store
	extra  ExtraFunc

	mu      sync.Mutex
	lastMod time.Time
	reloads int
}

// NewReloader returns a reloader for source publishing into store.
func NewReloader(source string, store *lexicon.Store, cache *Cache, opts BuildOptions) *Reloader {
	return &Reloader{
		source: source,
		cache:  cache,
		opts:   opts,
		store:  store,
	}
}

// SetExtra registers a supplier of extra words merged on every rebuild.
func (rl *Reloader) SetExtra(fn ExtraFunc) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.extra = fn
}

// Reload unconditionally rebuilds and swaps. On error the current lexicon
// stays in place.
func (rl *Reloader) Reload(ctx context.Context) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.reloadLocked(ctx)
}

func (rl *Reloader) reloadLocked(ctx context.Context) error {
	mod, err := LatestModTime(rl.source)
	if err != nil {
		return &SourceError{Path: rl.source, Err: err}
	}

	opts := rl.opts
	if rl.extra != nil {
		extra, err := rl.extra(ctx)
		if err != nil {
			log.Warnf("Extra words unavailable, rebuilding without them: %v", err)
		} else {
			opts.Extra = append(append([]WordList(nil), opts.Extra...), extra...)
		}
	}

	lex, fromCache, err := LoadOrBuild(rl.source, rl.cache, opts)
	if err != nil {
		return fmt.Errorf("failed to rebuild lexicon: %w", err)
	}
	old := rl.store.Swap(lex)
	rl.lastMod = mod
	rl.reloads++
	log.Debugf("Lexicon swapped: %d -> %d words (cache: %t)", old.Len(), lex.Len(), fromCache)
	return nil
}

// CheckAndReload rebuilds only when the source is newer than the last
// build. It reports whether a swap happened.
func (rl *Reloader) CheckAndReload(ctx context.Context) (bool, error) {
	mod, err := LatestModTime(rl.source)
	if err != nil {
		return false, &SourceError{Path: rl.source, Err: err}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if !mod.After(rl.lastMod) {
		return false, nil
	}
	if err := rl.reloadLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// MarkCurrent records the source's current modification time as built,
// for when the initial lexicon was produced elsewhere.
func (rl *Reloader) MarkCurrent() error {
	mod, err := LatestModTime(rl.source)
	if err != nil {
		return &SourceError{Path: rl.source, Err: err}
	}
	rl.mu.Lock()
	rl.lastMod = mod
	rl.mu.Unlock()
	return nil
}

// Reloads returns how many swaps this reloader has performed.
func (rl *Reloader) Reloads() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.reloads
}

// Watch polls the source every interval until ctx is done. Errors are
// logged and the previous lexicon keeps serving.
func (rl *Reloader) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swapped, err := rl.CheckAndReload(ctx)
			if err != nil {
				log.Warnf("Lexicon reload failed: %v", err)
				continue
			}
			if swapped {
				log.Infof("Reloaded lexicon from %s", rl.source)
			}
		}
	}
}
