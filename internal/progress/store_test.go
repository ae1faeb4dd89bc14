package progress

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/engtrainer/internal/logger"
	"github.com/example/engtrainer/internal/spaced_repetition"
	"github.com/example/engtrainer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

func newTestStore() *Store {
	return NewStore(&spaced_repetition.FixedClock{Date: testDay}, logger.Nop())
}

func TestGetCreatesDefaultLazily(t *testing.T) {
	s := newTestStore()

	_, ok := s.Lookup("time")
	assert.False(t, ok)
	assert.Zero(t, s.Len())

	cs := s.Get("time")
	assert.Equal(t, models.NewCardState(testDay), cs)

	_, ok = s.Lookup("time")
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestStore()
	s.Put("day", models.CardState{Ease: 2.5, IntervalDays: 6, Reps: 2})

	snap := s.Snapshot()
	snap["day"] = models.CardState{}

	cs, _ := s.Lookup("day")
	assert.Equal(t, 6, cs.IntervalDays)
}

func TestLoadMergesDefaults(t *testing.T) {
	s := newTestStore()
	reps := 3
	s.Load(map[string]models.CardRecord{
		"year": {Reps: &reps, LastSeen: "not a date"},
	})

	cs, ok := s.Lookup("year")
	require.True(t, ok)
	assert.Equal(t, 3, cs.Reps)
	assert.Equal(t, models.DefaultEase, cs.Ease)
	assert.Nil(t, cs.LastSeen)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewFileStore(dir, logger.Nop())

	records, err := fs.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	s := newTestStore()
	seen := testDay
	s.Put("время", models.CardState{Ease: 2.36, IntervalDays: 11, Reps: 3, Due: testDay.AddDate(0, 0, 11), LastSeen: &seen, LastResult: models.ResultHard})
	s.Get("year")
	require.NoError(t, fs.SaveProgress(ctx, s.Records()))

	data, err := os.ReadFile(filepath.Join(dir, ProgressFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"время"`, "non-ASCII keys are written as-is")

	loaded, err := fs.LoadProgress(ctx)
	require.NoError(t, err)

	restored := newTestStore()
	restored.Load(loaded)
	assert.Equal(t, s.Snapshot(), restored.Snapshot())

	require.NoError(t, fs.ResetProgress(ctx))
	require.NoError(t, fs.ResetProgress(ctx), "resetting twice is fine")
	loaded, err = fs.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStoreCorruptProgress(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProgressFile), []byte("{broken"), 0644))

	records, err := NewFileStore(dir, logger.Nop()).LoadProgress(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStoreKeepsGoodEntriesBesideBadOnes(t *testing.T) {
	dir := t.TempDir()
	data := `{
  "apple": {"ease": 2.6, "interval_days": 6, "reps": 2, "due": "2024-03-15"},
  "bread": {"interval_days": "six", "reps": 3, "lapses": 1, "last_result": "good"},
  "cloud": 42
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProgressFile), []byte(data), 0644))

	records, err := NewFileStore(dir, logger.Nop()).LoadProgress(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	apple := records["apple"]
	require.NotNil(t, apple.IntervalDays)
	assert.Equal(t, 6, *apple.IntervalDays)
	assert.Equal(t, "2024-03-15", apple.Due)

	bread := records["bread"]
	assert.Nil(t, bread.IntervalDays)
	require.NotNil(t, bread.Reps)
	assert.Equal(t, 3, *bread.Reps)
	require.NotNil(t, bread.Lapses)
	assert.Equal(t, 1, *bread.Lapses)
	assert.Equal(t, "good", bread.LastResult)

	assert.Equal(t, models.CardRecord{}, records["cloud"])
}

func TestDecodeRecordReportsBadFields(t *testing.T) {
	rec, bad := decodeRecord([]byte(`{"ease": "high", "reps": 4, "streak": [1]}`))
	assert.Equal(t, []string{"ease", "streak"}, bad)
	assert.Nil(t, rec.Ease)
	require.NotNil(t, rec.Reps)
	assert.Equal(t, 4, *rec.Reps)

	_, bad = decodeRecord([]byte(`"nope"`))
	assert.Equal(t, []string{"entry"}, bad)
}

func TestFileStoreSettings(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(t.TempDir(), logger.Nop())

	s, err := fs.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)

	want := models.Settings{DailyTarget: 35, Direction: models.DirectionRuEn}
	require.NoError(t, fs.SaveSettings(ctx, want))

	got, err := fs.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
