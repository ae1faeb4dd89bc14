package database

import (
	"context"
	"testing"
	"time"

	"github.com/example/engtrainer/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnectIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, initializeSchema(db))
}

func TestWordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(openTestDB(t))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.AppendWords(ctx, []models.Word{
		{English: "time", Russian: "время", IPA: "taɪm"},
		{English: "year", Russian: "год", Example: "This year is important."},
	}))
	require.NoError(t, repo.AppendWords(ctx, []models.Word{
		{English: "time", Russian: "раз"},
		{English: "day", Russian: "день"},
	}))

	words, err := repo.LoadWords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Word{
		{English: "time", Russian: "время", IPA: "taɪm"},
		{English: "year", Russian: "год", Example: "This year is important."},
		{English: "day", Russian: "день"},
	}, words)
}

func TestProgressRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(openTestDB(t))
	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	seen := today
	states := map[string]models.CardState{
		"time": {Ease: 2.36, IntervalDays: 11, Reps: 3, Lapses: 1, Due: today.AddDate(0, 0, 11),
			TotalSeen: 4, Correct: 3, Streak: 3, LastSeen: &seen, LastResult: models.ResultHard},
		"year": models.NewCardState(today),
	}
	records := make(map[string]models.CardRecord)
	for k, cs := range states {
		records[k] = cs.Record()
	}
	require.NoError(t, repo.SaveProgress(ctx, records))

	loaded, err := repo.LoadProgress(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for k, cs := range states {
		assert.Equal(t, cs, models.FromRecord(loaded[k], today.AddDate(0, 1, 0)), k)
	}

	delete(records, "year")
	require.NoError(t, repo.SaveProgress(ctx, records))
	loaded, err = repo.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1, "saving replaces the snapshot")

	require.NoError(t, repo.ResetProgress(ctx))
	loaded, err = repo.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestProgressRepositoryBackfillsNulls(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.Exec("INSERT INTO card_states (word, reps, last_seen) VALUES ('man', 2, 'yesterday')")
	require.NoError(t, err)

	loaded, err := NewProgressRepository(db).LoadProgress(ctx)
	require.NoError(t, err)

	rec := loaded["man"]
	assert.Nil(t, rec.Ease)
	assert.Nil(t, rec.IntervalDays)
	require.NotNil(t, rec.Reps)
	assert.Equal(t, 2, *rec.Reps)

	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	cs := models.FromRecord(rec, today)
	assert.Equal(t, models.DefaultEase, cs.Ease)
	assert.Equal(t, today, cs.Due)
	assert.Nil(t, cs.LastSeen)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(openTestDB(t))

	s, err := repo.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	require.NoError(t, repo.SaveSettings(ctx, models.Settings{DailyTarget: 40, Direction: models.DirectionRuEn}))
	require.NoError(t, repo.SaveSettings(ctx, models.Settings{DailyTarget: 60, Direction: models.DirectionRuEn}))

	s, err = repo.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Settings{DailyTarget: 60, Direction: models.DirectionRuEn}, s)
}
