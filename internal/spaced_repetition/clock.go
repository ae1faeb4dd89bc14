package spaced_repetition

import (
	"time"

	"github.com/example/engtrainer/pkg/models"
)

// Clock supplies the current date without a time of day
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock in the given location (time.Local when nil)
type SystemClock struct {
	Location *time.Location
}

// Today returns the calendar date of now in the clock's location
func (c SystemClock) Today() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return models.DateOf(time.Now().In(loc))
}

// FixedClock always returns the same date. Used by tests and replays.
type FixedClock struct {
	Date time.Time
}

// Today returns the fixed date
func (c *FixedClock) Today() time.Time {
	return models.DateOf(c.Date)
}

// Advance moves the fixed date forward by days
func (c *FixedClock) Advance(days int) {
	c.Date = c.Date.AddDate(0, 0, days)
}
