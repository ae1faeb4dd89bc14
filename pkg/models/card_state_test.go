package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

func TestNewCardState(t *testing.T) {
	cs := NewCardState(time.Date(2024, time.March, 10, 17, 45, 0, 0, time.UTC))

	assert.Equal(t, DefaultEase, cs.Ease)
	assert.Zero(t, cs.IntervalDays)
	assert.Zero(t, cs.Reps)
	assert.Equal(t, today, cs.Due)
	assert.Nil(t, cs.LastSeen)
	assert.Equal(t, ResultNone, cs.LastResult)
	assert.True(t, cs.IsNew())
	assert.False(t, cs.IsDue(today), "a new card is never due")
}

func TestFromRecordBackfillsMissingFields(t *testing.T) {
	var rec CardRecord
	require.NoError(t, json.Unmarshal([]byte(`{"reps": 2, "interval_days": 6, "future_field": true}`), &rec))

	cs := FromRecord(rec, today)

	assert.Equal(t, 2, cs.Reps)
	assert.Equal(t, 6, cs.IntervalDays)
	assert.Equal(t, DefaultEase, cs.Ease)
	assert.Equal(t, today, cs.Due)
	assert.Zero(t, cs.Lapses)
	assert.Nil(t, cs.LastSeen)
}

func TestFromRecordMalformedValues(t *testing.T) {
	ease := 0.7
	rec := CardRecord{
		Ease:       &ease,
		Due:        "tomorrow",
		LastSeen:   "10/03/2024",
		LastResult: "perfect",
	}

	cs := FromRecord(rec, today)

	assert.Equal(t, MinEase, cs.Ease)
	assert.Equal(t, today, cs.Due)
	assert.Nil(t, cs.LastSeen)
	assert.Equal(t, ResultNone, cs.LastResult)
	assert.Len(t, rec.Problems(), 4)
}

func TestMalformedLastSeenSurvivesSave(t *testing.T) {
	cs := FromRecord(CardRecord{LastSeen: "10/03/2024"}, today)
	assert.Nil(t, cs.LastSeen)
	assert.Equal(t, "10/03/2024", cs.Record().LastSeen)

	seen := today
	cs.LastSeen = &seen
	assert.Equal(t, FormatDate(today), cs.Record().LastSeen)
}

func TestRecordRoundTrip(t *testing.T) {
	seen := today.AddDate(0, 0, -3)
	original := CardState{
		Ease:         2.36,
		IntervalDays: 15,
		Reps:         3,
		Lapses:       1,
		Due:          today.AddDate(0, 0, 12),
		TotalSeen:    5,
		Correct:      4,
		Streak:       3,
		LastSeen:     &seen,
		LastResult:   ResultGood,
	}

	data, err := json.Marshal(original.Record())
	require.NoError(t, err)

	var rec CardRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Empty(t, rec.Problems())
	assert.Equal(t, original, FromRecord(rec, today.AddDate(1, 0, 0)))
}

func TestRecordKeepsOriginalJSONLayout(t *testing.T) {
	data, err := json.Marshal(NewCardState(today).Record())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"ease": 2.5, "interval_days": 0, "reps": 0, "lapses": 0, "due": "2024-03-10",
		"total_seen": 0, "correct": 0, "streak": 0
	}`, string(data))
}

func TestSettingsWithDefaults(t *testing.T) {
	s := Settings{Direction: "sideways"}.WithDefaults()

	assert.Equal(t, DefaultDailyTarget, s.DailyTarget)
	assert.Equal(t, DirectionEnRu, s.Direction)
	assert.Equal(t, "RU→EN", DirectionRuEn.Label())
}
