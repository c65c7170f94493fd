package lexicon

import "sync/atomic"

type snapshot struct {
	lex *Lexicon
	gen uint64
}

// Store publishes the current Lexicon to concurrent readers. Readers that
// loaded an older lexicon keep using it safely; Swap never mutates one.
type Store struct {
	cur atomic.Pointer[snapshot]
}

// NewStore returns a store serving lex as generation 1.
func NewStore(lex *Lexicon) *Store {
	s := &Store{}
	s.cur.Store(&snapshot{lex: lex, gen: 1})
	return s
}

// Load returns the current lexicon.
func (s *Store) Load() *Lexicon {
	return s.cur.Load().lex
}

// Snapshot returns the current lexicon with its generation number.
func (s *Store) Snapshot() (*Lexicon, uint64) {
	snap := s.cur.Load()
	return snap.lex, snap.gen
}

// Generation increments on every Swap.
func (s *Store) Generation() uint64 {
	return s.cur.Load().gen
}

// Swap installs lex and returns the lexicon it replaced.
func (s *Store) Swap(lex *Lexicon) *Lexicon {
	for {
		old := s.cur.Load()
		if s.cur.CompareAndSwap(old, &snapshot{lex: lex, gen: old.gen + 1}) {
			return old.lex
		}
	}
}
