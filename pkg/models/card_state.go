package models

import (
	"fmt"
	"time"
)

// DateLayout is the persisted form of every date in a card record
const DateLayout = "2006-01-02"

// Default values of a fresh card
const (
	DefaultEase = 2.5
	MinEase     = 1.3
)

// Result is the outcome of the most recent rating
type Result string

const (
	ResultNone  Result = ""
	ResultAgain Result = "again"
	ResultHard  Result = "hard"
	ResultGood  Result = "good"
	ResultEasy  Result = "easy"
)

// Valid reports whether r is one of the known results
func (r Result) Valid() bool {
	switch r {
	case ResultNone, ResultAgain, ResultHard, ResultGood, ResultEasy:
		return true
	}
	return false
}

// CardState is the SM-2 learning state of a single word
type CardState struct {
	Ease         float64
	IntervalDays int
	Reps         int // consecutive successful reviews since the last lapse
	Lapses       int
	Due          time.Time

	TotalSeen  int
	Correct    int
	Streak     int
	LastSeen   *time.Time
	LastResult Result

	// unparsable last_seen as stored, written back until the card is seen again
	rawLastSeen string
}

// NewCardState returns the state of a word that has never been rated
func NewCardState(today time.Time) CardState {
	return CardState{
		Ease: DefaultEase,
		Due:  DateOf(today),
	}
}

// IsNew reports whether the card has never been successfully scheduled
func (cs CardState) IsNew() bool {
	return cs.Reps == 0 && cs.IntervalDays == 0
}

// IsDue reports whether the card is scheduled and its due date has been reached
func (cs CardState) IsDue(today time.Time) bool {
	return cs.IntervalDays > 0 && !cs.Due.After(DateOf(today))
}

// CardRecord is the persisted form of a CardState.
// Every field is optional; absent fields take defaults on reconstruction.
type CardRecord struct {
	Ease         *float64 `json:"ease,omitempty"`
	IntervalDays *int     `json:"interval_days,omitempty"`
	Reps         *int     `json:"reps,omitempty"`
	Lapses       *int     `json:"lapses,omitempty"`
	Due          string   `json:"due,omitempty"`
	TotalSeen    *int     `json:"total_seen,omitempty"`
	Correct      *int     `json:"correct,omitempty"`
	Streak       *int     `json:"streak,omitempty"`
	LastSeen     string   `json:"last_seen,omitempty"`
	LastResult   string   `json:"last_result,omitempty"`
}

// FromRecord rebuilds a CardState from its persisted form, backfilling
// defaults for absent fields. Malformed values fall back the same way:
// a bad due date becomes today, a bad last_seen counts as never seen but is
// kept for the next save, and an unknown last_result becomes ResultNone.
// See CardRecord.Problems.
func FromRecord(rec CardRecord, today time.Time) CardState {
	cs := NewCardState(today)

	if rec.Ease != nil {
		cs.Ease = *rec.Ease
	}
	if cs.Ease < MinEase {
		cs.Ease = MinEase
	}
	cs.IntervalDays = nonNegative(rec.IntervalDays)
	cs.Reps = nonNegative(rec.Reps)
	cs.Lapses = nonNegative(rec.Lapses)
	cs.TotalSeen = nonNegative(rec.TotalSeen)
	cs.Correct = nonNegative(rec.Correct)
	cs.Streak = nonNegative(rec.Streak)

	if due, err := ParseDate(rec.Due); err == nil {
		cs.Due = due
	}
	if seen, err := ParseDate(rec.LastSeen); err == nil {
		cs.LastSeen = &seen
	} else {
		cs.rawLastSeen = rec.LastSeen
	}
	if r := Result(rec.LastResult); r.Valid() {
		cs.LastResult = r
	}
	return cs
}

// Record converts the state to its persisted form
func (cs CardState) Record() CardRecord {
	rec := CardRecord{
		Ease:         floatPtr(cs.Ease),
		IntervalDays: intPtr(cs.IntervalDays),
		Reps:         intPtr(cs.Reps),
		Lapses:       intPtr(cs.Lapses),
		Due:          FormatDate(cs.Due),
		TotalSeen:    intPtr(cs.TotalSeen),
		Correct:      intPtr(cs.Correct),
		Streak:       intPtr(cs.Streak),
		LastResult:   string(cs.LastResult),
	}
	if cs.LastSeen != nil {
		rec.LastSeen = FormatDate(*cs.LastSeen)
	} else {
		rec.LastSeen = cs.rawLastSeen
	}
	return rec
}

// Problems lists the fields of the record that could not be used as stored
func (r CardRecord) Problems() []string {
	var problems []string
	if r.Due != "" {
		if _, err := ParseDate(r.Due); err != nil {
			problems = append(problems, fmt.Sprintf("due %q", r.Due))
		}
	}
	if r.LastSeen != "" {
		if _, err := ParseDate(r.LastSeen); err != nil {
			problems = append(problems, fmt.Sprintf("last_seen %q", r.LastSeen))
		}
	}
	if !Result(r.LastResult).Valid() {
		problems = append(problems, fmt.Sprintf("last_result %q", r.LastResult))
	}
	if r.Ease != nil && *r.Ease < MinEase {
		problems = append(problems, fmt.Sprintf("ease %v", *r.Ease))
	}
	return problems
}

// DateOf strips the time of day, keeping the calendar date of t
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func nonNegative(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
