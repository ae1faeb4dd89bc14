// Package progress keeps the learning state of every word and persists it
// as a JSON snapshot.
//
// Store is not safe for concurrent use. One process owns the snapshot at a
// time; two processes writing the same file will lose each other's updates.
package progress

import (
	"github.com/example/engtrainer/internal/logger"
	"github.com/example/engtrainer/internal/spaced_repetition"
	"github.com/example/engtrainer/pkg/models"
)

// Store maps a word key to its learning state
type Store struct {
	states map[string]models.CardState
	clock  spaced_repetition.Clock
	log    *logger.Logger
}

// NewStore creates an empty store
func NewStore(clock spaced_repetition.Clock, log *logger.Logger) *Store {
	return &Store{
		states: make(map[string]models.CardState),
		clock:  clock,
		log:    log,
	}
}

// Get returns the state for key, creating a default one on first access
func (s *Store) Get(key string) models.CardState {
	if cs, ok := s.states[key]; ok {
		return cs
	}
	cs := models.NewCardState(s.clock.Today())
	s.states[key] = cs
	return cs
}

// Lookup returns the stored state without creating one
func (s *Store) Lookup(key string) (models.CardState, bool) {
	cs, ok := s.states[key]
	return cs, ok
}

// Put replaces the state for key
func (s *Store) Put(key string, cs models.CardState) {
	s.states[key] = cs
}

// Len returns the number of stored states
func (s *Store) Len() int {
	return len(s.states)
}

// Snapshot returns a copy of all states
func (s *Store) Snapshot() map[string]models.CardState {
	out := make(map[string]models.CardState, len(s.states))
	for k, v := range s.states {
		out[k] = v
	}
	return out
}

// Load replaces the contents of the store with persisted records.
// Missing fields take defaults and malformed values are dropped per record.
func (s *Store) Load(records map[string]models.CardRecord) {
	today := s.clock.Today()
	s.states = make(map[string]models.CardState, len(records))
	for key, rec := range records {
		if problems := rec.Problems(); len(problems) > 0 {
			s.log.Debug("ignoring malformed card fields", "word", key, "fields", problems)
		}
		s.states[key] = models.FromRecord(rec, today)
	}
}

// Records returns every state in its persisted form
func (s *Store) Records() map[string]models.CardRecord {
	out := make(map[string]models.CardRecord, len(s.states))
	for k, v := range s.states {
		out[k] = v.Record()
	}
	return out
}

// Reset forgets every state
func (s *Store) Reset() {
	s.states = make(map[string]models.CardState)
}
