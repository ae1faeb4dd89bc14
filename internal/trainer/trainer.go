// Package trainer ties the catalog, the learning states, the scheduler and
// persistence together. It is the only entry point drivers (Telegram bot,
// terminal, jobs) use, and it serialises their calls so the core always sees
// a single writer.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/example/engtrainer/internal/catalog"
	"github.com/example/engtrainer/internal/logger"
	"github.com/example/engtrainer/internal/progress"
	"github.com/example/engtrainer/internal/queue"
	"github.com/example/engtrainer/internal/spaced_repetition"
	"github.com/example/engtrainer/pkg/models"
)

// Limits of the daily target setting
const (
	MinDailyTarget = 5
	MaxDailyTarget = 200
)

var (
	ErrUnknownWord   = errors.New("unknown word")
	ErrInvalidTarget = fmt.Errorf("daily target must be between %d and %d", MinDailyTarget, MaxDailyTarget)
)

// CatalogSource loads and extends the word list
type CatalogSource interface {
	LoadWords(ctx context.Context) ([]models.Word, error)
	AppendWords(ctx context.Context, words []models.Word) error
}

// Persister stores learning progress and settings
type Persister interface {
	LoadProgress(ctx context.Context) (map[string]models.CardRecord, error)
	SaveProgress(ctx context.Context, records map[string]models.CardRecord) error
	ResetProgress(ctx context.Context) error
	LoadSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) error
}

// Options configures a Trainer. Zero values select the system clock,
// a time-seeded shuffler and a no-op logger.
type Options struct {
	Clock    spaced_repetition.Clock
	Shuffler queue.Shuffler
	Logger   *logger.Logger
}

// Trainer is the vocabulary trainer of one learner
type Trainer struct {
	mu sync.Mutex

	source    CatalogSource
	persister Persister
	clock     spaced_repetition.Clock
	shuffler  queue.Shuffler
	log       *logger.Logger

	catalog  *catalog.Catalog
	store    *progress.Store
	sm2      *spaced_repetition.SM2
	builder  *queue.Builder
	settings models.Settings
	dirty    bool
}

// New creates a trainer. Call Open before using it.
func New(source CatalogSource, persister Persister, opts Options) *Trainer {
	if opts.Clock == nil {
		opts.Clock = spaced_repetition.SystemClock{}
	}
	if opts.Shuffler == nil {
		opts.Shuffler = queue.NewRandShuffler()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Trainer{
		source:    source,
		persister: persister,
		clock:     opts.Clock,
		shuffler:  opts.Shuffler,
		log:       opts.Logger,
		sm2:       spaced_repetition.NewSM2(opts.Clock),
		settings:  models.DefaultSettings(),
	}
}

// Open loads the catalog, the progress snapshot and the settings.
// An empty or unreadable catalog is fatal.
func (t *Trainer) Open(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	words, err := t.source.LoadWords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	c, skipped := catalog.New(words)
	if skipped > 0 {
		t.log.Warn("skipped invalid or duplicate catalog entries", "count", skipped)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	records, err := t.persister.LoadProgress(ctx)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}
	settings, err := t.persister.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	t.catalog = c
	t.store = progress.NewStore(t.clock, t.log)
	t.store.Load(records)
	t.builder = queue.NewBuilder(t.catalog, t.store, t.clock, t.shuffler)
	t.settings = settings.WithDefaults()
	t.dirty = false

	t.log.Info("trainer ready", "words", c.Len(), "states", t.store.Len(), "daily_target", t.settings.DailyTarget)
	return nil
}

// StartSession builds today's review queue
func (t *Trainer) StartSession() *Session {
	return t.StartSessionWithTarget(0)
}

// StartSessionWithTarget builds today's queue for a one-off daily target.
// A target of zero uses the saved setting.
func (t *Trainer) StartSessionWithTarget(target int) *Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	if target <= 0 {
		target = t.settings.DailyTarget
	}
	plan := t.builder.BuildSession(target)
	t.log.Info("session started", "due", plan.Due, "new", plan.New, "target", target)
	return newSession(t, plan)
}

// Rate records a review of the word and returns its new state
func (t *Trainer) Rate(key string, quality spaced_repetition.Quality) (models.CardState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.catalog.Contains(key) {
		return models.CardState{}, fmt.Errorf("%w: %s", ErrUnknownWord, key)
	}
	next, err := t.sm2.Rate(t.store.Get(key), quality)
	if err != nil {
		return models.CardState{}, err
	}
	t.store.Put(key, next)
	t.dirty = true

	t.log.Debug("word rated", "word", key, "quality", quality.String(),
		"interval", next.IntervalDays, "ease", next.Ease, "due", models.FormatDate(next.Due))
	return next, nil
}

// Save writes the progress snapshot if anything changed since the last save
func (t *Trainer) Save(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.dirty {
		return nil
	}
	if err := t.persister.SaveProgress(ctx, t.store.Records()); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	t.dirty = false
	t.log.Debug("progress saved", "states", t.store.Len())
	return nil
}

// Reset forgets all learning progress
func (t *Trainer) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.persister.ResetProgress(ctx); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	t.store.Reset()
	t.dirty = false
	t.log.Warn("progress reset")
	return nil
}

// Export writes the progress snapshot as JSON
func (t *Trainer) Export(w io.Writer) error {
	t.mu.Lock()
	records := t.store.Records()
	t.mu.Unlock()

	return progress.WriteJSON(w, records)
}

// Word returns a catalog word by key
func (t *Trainer) Word(key string) (models.Word, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.catalog.Get(key)
}

// State returns the current state of a word without creating it
func (t *Trainer) State(key string) models.CardState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.builder.State(key)
}

// QuizPool returns the words quiz modes draw from
func (t *Trainer) QuizPool() []models.Word {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.builder.QuizPool(queue.QuizPoolLimit)
}

// RecentWords returns the words rated during the last week
func (t *Trainer) RecentWords() []models.Word {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.builder.RecentlySeen(queue.DefaultRecentWindow)
}

// Pending returns how many words are due and how many new words would
// complete today's target
func (t *Trainer) Pending() (due, fresh int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	due = len(t.builder.DueWords(0))
	if quota := t.settings.DailyTarget - due; quota > 0 {
		fresh = len(t.builder.NewWords(quota))
	}
	return due, fresh
}

// Today returns the trainer's current date
func (t *Trainer) Today() time.Time {
	return t.clock.Today()
}
