package trainer

import (
	"errors"

	"github.com/example/engtrainer/internal/queue"
	"github.com/example/engtrainer/internal/spaced_repetition"
	"github.com/example/engtrainer/pkg/models"
)

// ErrNoCard is returned when a session is rated with nothing on screen
var ErrNoCard = errors.New("no card is being shown")

// Session walks through one review queue. Next removes the head of the
// queue and makes it the current card; Rate grades the current card.
type Session struct {
	trainer  *Trainer
	queue    []models.Word
	current  *models.Word
	due      int
	fresh    int
	total    int
	reviewed int
}

func newSession(t *Trainer, plan queue.Session) *Session {
	return &Session{
		trainer: t,
		queue:   plan.Words,
		due:     plan.Due,
		fresh:   plan.New,
		total:   len(plan.Words),
	}
}

// Next advances to the next card. It returns false when the queue is empty.
func (s *Session) Next() (models.Word, bool) {
	if len(s.queue) == 0 {
		s.current = nil
		return models.Word{}, false
	}
	w := s.queue[0]
	s.queue = s.queue[1:]
	s.current = &w
	return w, true
}

// Current returns the card being shown
func (s *Session) Current() (models.Word, bool) {
	if s.current == nil {
		return models.Word{}, false
	}
	return *s.current, true
}

// Rate grades the current card. The card stays current until Next is called.
func (s *Session) Rate(quality spaced_repetition.Quality) (models.CardState, error) {
	if s.current == nil {
		return models.CardState{}, ErrNoCard
	}
	cs, err := s.trainer.Rate(s.current.Key(), quality)
	if err != nil {
		return models.CardState{}, err
	}
	s.reviewed++
	s.current = nil
	return cs, nil
}

// Due is the number of due words the session started with
func (s *Session) Due() int { return s.due }

// New is the number of new words the session started with
func (s *Session) New() int { return s.fresh }

// Total is the size of the queue when the session started
func (s *Session) Total() int { return s.total }

// Reviewed is the number of cards rated so far
func (s *Session) Reviewed() int { return s.reviewed }

// Remaining is the number of cards not yet shown
func (s *Session) Remaining() int { return len(s.queue) }
