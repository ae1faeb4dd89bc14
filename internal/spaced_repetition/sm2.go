package spaced_repetition

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/example/engtrainer/pkg/models"
)

// ErrInvalidQuality is returned when a rating is not one of the four tiers
var ErrInvalidQuality = errors.New("invalid quality")

// Quality is the learner's recall report. Only four values exist and the
// numbers are SM-2 weights: 1 and 2 are never produced.
type Quality int

const (
	QualityAgain Quality = 0
	QualityHard  Quality = 3
	QualityGood  Quality = 4
	QualityEasy  Quality = 5
)

// Qualities lists the valid ratings in button order
var Qualities = []Quality{QualityAgain, QualityHard, QualityGood, QualityEasy}

// Valid reports whether q is one of the four tiers
func (q Quality) Valid() bool {
	switch q {
	case QualityAgain, QualityHard, QualityGood, QualityEasy:
		return true
	}
	return false
}

// Result returns the result recorded for a rating of this quality
func (q Quality) Result() models.Result {
	switch q {
	case QualityAgain:
		return models.ResultAgain
	case QualityHard:
		return models.ResultHard
	case QualityGood:
		return models.ResultGood
	case QualityEasy:
		return models.ResultEasy
	}
	return models.ResultNone
}

func (q Quality) String() string {
	if r := q.Result(); r != models.ResultNone {
		return string(r)
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// ParseQuality accepts a tier name or the keyboard shortcut 1-4
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "again", "1":
		return QualityAgain, nil
	case "hard", "2":
		return QualityHard, nil
	case "good", "3":
		return QualityGood, nil
	case "easy", "4":
		return QualityEasy, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidQuality, s)
}

// SM2 implements a simplified SuperMemo-2 scheduler
type SM2 struct {
	clock Clock
}

// NewSM2 creates a scheduler reading dates from clock
func NewSM2(clock Clock) *SM2 {
	return &SM2{clock: clock}
}

// Rate returns the state that follows a rating of quality.
// The input state is not modified.
func (sm *SM2) Rate(cs models.CardState, quality Quality) (models.CardState, error) {
	if !quality.Valid() {
		return cs, fmt.Errorf("%w: %d", ErrInvalidQuality, int(quality))
	}

	today := sm.clock.Today()
	seen := today
	cs.TotalSeen++
	cs.LastSeen = &seen

	if quality == QualityAgain {
		// Lapse: ease is kept, progress restarts tomorrow
		cs.Reps = 0
		cs.Lapses++
		cs.IntervalDays = 1
		cs.Due = today.AddDate(0, 0, cs.IntervalDays)
		cs.Streak = 0
		cs.LastResult = models.ResultAgain
		return cs, nil
	}

	switch {
	case cs.Reps == 0:
		cs.IntervalDays = 1
	case cs.Reps == 1:
		if quality >= QualityGood {
			cs.IntervalDays = 6
		} else {
			cs.IntervalDays = 3
		}
	default:
		cs.Ease = nextEase(cs.Ease, quality)
		cs.IntervalDays = nextInterval(cs.IntervalDays, cs.Ease, quality)
	}

	cs.Reps++
	cs.Correct++
	cs.Streak++
	cs.Due = today.AddDate(0, 0, cs.IntervalDays)
	cs.LastResult = quality.Result()
	return cs, nil
}

// IsMastered reports whether a card has settled into long intervals
func (sm *SM2) IsMastered(cs models.CardState) bool {
	return cs.Reps >= 5 &&
		cs.IntervalDays >= 30 &&
		(cs.LastResult == models.ResultGood || cs.LastResult == models.ResultEasy)
}

func nextEase(ease float64, quality Quality) float64 {
	d := 5 - float64(quality)
	ease += 0.1 - d*(0.08+d*0.02)
	if ease < models.MinEase {
		ease = models.MinEase // Не опускаем ниже 1.3
	}
	return ease
}

// nextInterval truncates after every multiplication, so rounding error
// compounds across reviews. Stored progress depends on this exact sequence.
func nextInterval(interval int, ease float64, quality Quality) int {
	next := int(math.RoundToEven(float64(interval) * ease))
	switch quality {
	case QualityHard:
		next = int(float64(next) * 0.8)
		if next < 2 {
			next = 2
		}
	case QualityEasy:
		next = int(float64(next) * 1.2)
	}
	return next
}
