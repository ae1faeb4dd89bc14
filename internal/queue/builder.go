// Package queue selects which words to show: the daily review session and
// the pools used by quiz modes. Every query reads current state and never
// modifies the catalog or the stored states.
package queue

import (
	"time"

	"github.com/example/engtrainer/internal/spaced_repetition"
	"github.com/example/engtrainer/pkg/models"
)

const (
	// DefaultRecentWindow is the look-back of RecentlySeen in days
	DefaultRecentWindow = 7
	// QuizNewWords is how many unseen words a quiz pool may include
	QuizNewWords = 50
	// QuizPoolLimit caps the size of a quiz pool
	QuizPoolLimit = 200
)

// Catalog is the read side of the word list
type Catalog interface {
	Words() []models.Word
	Len() int
}

// States is the read side of the learning state store
type States interface {
	Lookup(key string) (models.CardState, bool)
}

// Session is the queue for one review sitting
type Session struct {
	Words []models.Word
	Due   int // how many of Words were due
	New   int // how many of Words were never studied
}

// Builder answers selection queries over a catalog and its states
type Builder struct {
	catalog  Catalog
	states   States
	clock    spaced_repetition.Clock
	shuffler Shuffler
}

// NewBuilder creates a builder. A nil shuffler keeps catalog order.
func NewBuilder(catalog Catalog, states States, clock spaced_repetition.Clock, shuffler Shuffler) *Builder {
	if shuffler == nil {
		shuffler = NoShuffle{}
	}
	return &Builder{
		catalog:  catalog,
		states:   states,
		clock:    clock,
		shuffler: shuffler,
	}
}

// DueWords returns words whose review date has come. Words that were never
// scheduled are not due. limit <= 0 returns all of them.
func (b *Builder) DueWords(limit int) []models.Word {
	today := b.clock.Today()
	due := b.filter(func(cs models.CardState) bool {
		return cs.IsDue(today)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}

// NewWords returns up to limit words that were never rated
func (b *Builder) NewWords(limit int) []models.Word {
	if limit <= 0 {
		return nil
	}
	fresh := b.filter(func(cs models.CardState) bool {
		return cs.IsNew()
	})
	if len(fresh) > limit {
		fresh = fresh[:limit]
	}
	return fresh
}

// RecentlySeen returns words rated within the last windowDays days, today included
func (b *Builder) RecentlySeen(windowDays int) []models.Word {
	today := b.clock.Today()
	from := today.AddDate(0, 0, -windowDays)
	return b.filter(func(cs models.CardState) bool {
		return cs.LastSeen != nil && inRange(*cs.LastSeen, from, today)
	})
}

// BuildSession returns every due word plus enough new words to reach
// dailyTarget, in random order
func (b *Builder) BuildSession(dailyTarget int) Session {
	due := b.DueWords(0)
	quota := dailyTarget - len(due)
	if quota < 0 {
		quota = 0
	}
	fresh := b.NewWords(quota)

	words := make([]models.Word, 0, len(due)+len(fresh))
	words = append(words, due...)
	words = append(words, fresh...)
	b.shuffle(words)

	return Session{Words: words, Due: len(due), New: len(fresh)}
}

// QuizPool returns words for quiz modes: due, some new and recently seen
// words, or the whole catalog if none of those exist
func (b *Builder) QuizPool(limit int) []models.Word {
	pool := b.DueWords(0)
	pool = append(pool, b.NewWords(QuizNewWords)...)
	pool = append(pool, b.RecentlySeen(DefaultRecentWindow)...)
	if len(pool) == 0 {
		pool = b.catalog.Words()
	}
	b.shuffle(pool)
	if limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}
	return pool
}

// State returns the stored state of a word, or the default state of a new one
func (b *Builder) State(key string) models.CardState {
	if cs, ok := b.states.Lookup(key); ok {
		return cs
	}
	return models.NewCardState(b.clock.Today())
}

func (b *Builder) filter(keep func(models.CardState) bool) []models.Word {
	var picked []models.Word
	for _, w := range b.catalog.Words() {
		if keep(b.State(w.Key())) {
			picked = append(picked, w)
		}
	}
	b.shuffle(picked)
	return picked
}

func (b *Builder) shuffle(words []models.Word) {
	b.shuffler.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

func inRange(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}
