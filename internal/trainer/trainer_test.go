package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/example/engtrainer/internal/catalog"
	"github.com/example/engtrainer/internal/queue"
	"github.com/example/engtrainer/internal/spaced_repetition"
	"github.com/example/engtrainer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

type memSource struct {
	words    []models.Word
	appended []models.Word
	err      error
}

func (m *memSource) LoadWords(context.Context) ([]models.Word, error) {
	return m.words, m.err
}

func (m *memSource) AppendWords(_ context.Context, words []models.Word) error {
	m.appended = append(m.appended, words...)
	return nil
}

type memPersister struct {
	records  map[string]models.CardRecord
	settings models.Settings
	saves    int
	resets   int
}

func (m *memPersister) LoadProgress(context.Context) (map[string]models.CardRecord, error) {
	return m.records, nil
}

func (m *memPersister) SaveProgress(_ context.Context, records map[string]models.CardRecord) error {
	m.records = records
	m.saves++
	return nil
}

func (m *memPersister) ResetProgress(context.Context) error {
	m.records = nil
	m.resets++
	return nil
}

func (m *memPersister) LoadSettings(context.Context) (models.Settings, error) {
	return m.settings, nil
}

func (m *memPersister) SaveSettings(_ context.Context, s models.Settings) error {
	m.settings = s
	return nil
}

func wordsOf(keys ...string) []models.Word {
	words := make([]models.Word, 0, len(keys))
	for _, k := range keys {
		words = append(words, models.Word{English: k, Russian: k + "-ru"})
	}
	return words
}

func openTrainer(t *testing.T, keys ...string) (*Trainer, *memSource, *memPersister, *spaced_repetition.FixedClock) {
	t.Helper()
	src := &memSource{words: wordsOf(keys...)}
	p := &memPersister{}
	clock := &spaced_repetition.FixedClock{Date: testDay}
	tr := New(src, p, Options{Clock: clock, Shuffler: queue.NoShuffle{}})
	require.NoError(t, tr.Open(context.Background()))
	return tr, src, p, clock
}

func TestOpenFailsWithoutWords(t *testing.T) {
	tr := New(&memSource{}, &memPersister{}, Options{})
	assert.ErrorIs(t, tr.Open(context.Background()), catalog.ErrEmptyCatalog)

	boom := errors.New("disk on fire")
	tr = New(&memSource{err: boom}, &memPersister{}, Options{})
	assert.ErrorIs(t, tr.Open(context.Background()), boom)
}

func TestOpenRestoresProgress(t *testing.T) {
	reps, interval := 2, 6
	src := &memSource{words: wordsOf("time", "year")}
	p := &memPersister{records: map[string]models.CardRecord{
		"time": {Reps: &reps, IntervalDays: &interval, Due: "2024-03-09"},
	}}
	tr := New(src, p, Options{Clock: &spaced_repetition.FixedClock{Date: testDay}, Shuffler: queue.NoShuffle{}})
	require.NoError(t, tr.Open(context.Background()))

	assert.Equal(t, models.DefaultDailyTarget, tr.Settings().DailyTarget)
	due, fresh := tr.Pending()
	assert.Equal(t, 1, due)
	assert.Equal(t, 1, fresh)

	cs, err := tr.Rate("time", spaced_repetition.QualityGood)
	require.NoError(t, err)
	assert.Equal(t, 15, cs.IntervalDays)
}

func TestSessionFlow(t *testing.T) {
	ctx := context.Background()
	tr, _, p, clock := openTrainer(t, "time", "year", "day")
	require.NoError(t, tr.SetDailyTarget(ctx, 5))

	s := tr.StartSession()
	assert.Equal(t, 3, s.Total())
	assert.Equal(t, 3, s.New())
	assert.Zero(t, s.Due())

	_, err := s.Rate(spaced_repetition.QualityGood)
	assert.ErrorIs(t, err, ErrNoCard)

	for {
		w, ok := s.Next()
		if !ok {
			break
		}
		current, _ := s.Current()
		assert.Equal(t, w, current)
		_, err := s.Rate(spaced_repetition.QualityGood)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Reviewed())
	assert.Zero(t, s.Remaining())

	require.NoError(t, tr.Save(ctx))
	require.NoError(t, tr.Save(ctx))
	assert.Equal(t, 1, p.saves, "unchanged progress is not written twice")
	assert.Len(t, p.records, 3)

	assert.Zero(t, tr.StartSession().Total(), "nothing is due on the same day")

	clock.Advance(1)
	s = tr.StartSession()
	assert.Equal(t, 3, s.Due())
}

func TestSessionTargetOverride(t *testing.T) {
	tr, _, _, _ := openTrainer(t, "a", "b", "c", "d")

	assert.Equal(t, 2, tr.StartSessionWithTarget(2).Total())
	assert.Equal(t, 4, tr.StartSessionWithTarget(0).Total())
	assert.Equal(t, models.DefaultDailyTarget, tr.Settings().DailyTarget)
}

func TestRateRejectsBadInput(t *testing.T) {
	tr, _, _, _ := openTrainer(t, "time")

	_, err := tr.Rate("nope", spaced_repetition.QualityGood)
	assert.ErrorIs(t, err, ErrUnknownWord)

	_, err = tr.Rate("time", spaced_repetition.Quality(2))
	assert.ErrorIs(t, err, spaced_repetition.ErrInvalidQuality)
	assert.True(t, tr.State("time").IsNew())
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	tr, _, p, _ := openTrainer(t, "time")

	assert.ErrorIs(t, tr.SetDailyTarget(ctx, 4), ErrInvalidTarget)
	assert.ErrorIs(t, tr.SetDailyTarget(ctx, 201), ErrInvalidTarget)
	require.NoError(t, tr.SetDailyTarget(ctx, 50))
	require.NoError(t, tr.SetDirection(ctx, models.DirectionRuEn))
	assert.Error(t, tr.SetDirection(ctx, "up"))

	assert.Equal(t, models.Settings{DailyTarget: 50, Direction: models.DirectionRuEn}, tr.Settings())
	assert.Equal(t, tr.Settings(), p.settings)
}

func TestAddAndImportWords(t *testing.T) {
	ctx := context.Background()
	tr, src, _, _ := openTrainer(t, "time")

	require.NoError(t, tr.AddWord(ctx, models.Word{English: " water", Russian: "вода "}))
	assert.ErrorIs(t, tr.AddWord(ctx, models.Word{English: "time", Russian: "время"}), catalog.ErrDuplicateWord)
	assert.Error(t, tr.AddWord(ctx, models.Word{English: "lonely"}))

	result, err := tr.Import(ctx, []models.Word{
		{English: "time", Russian: "время"},
		{English: "friend", Russian: "друг"},
		{English: "friend", Russian: "приятель"},
		{English: "", Russian: "пусто"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Errors, 1)

	assert.Equal(t, []models.Word{
		{English: "water", Russian: "вода"},
		{English: "friend", Russian: "друг"},
	}, src.appended)

	_, ok := tr.Word("friend")
	assert.True(t, ok)
	assert.Equal(t, 3, tr.Stats().Total)
}

func TestStats(t *testing.T) {
	tr, _, _, clock := openTrainer(t, "a", "b", "c")
	_, err := tr.Rate("a", spaced_repetition.QualityGood)
	require.NoError(t, err)
	_, err = tr.Rate("b", spaced_repetition.QualityAgain)
	require.NoError(t, err)
	clock.Advance(1)

	stats := tr.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Learned)
	assert.Equal(t, 2, stats.DueToday)
	assert.Equal(t, 1, stats.New)
	assert.Zero(t, stats.Mastered)
	require.Len(t, stats.Rows, 3)
	assert.Equal(t, "a", stats.Rows[0].Word.English)
	assert.Equal(t, 1, stats.Rows[0].State.IntervalDays)
}

func TestResetAndExport(t *testing.T) {
	ctx := context.Background()
	tr, _, p, _ := openTrainer(t, "time", "year")
	_, err := tr.Rate("time", spaced_repetition.QualityEasy)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tr.Export(&buf))
	var exported map[string]models.CardRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	require.Contains(t, exported, "time")
	assert.Equal(t, "easy", exported["time"].LastResult)

	require.NoError(t, tr.Reset(ctx))
	assert.Equal(t, 1, p.resets)
	assert.True(t, tr.State("time").IsNew())
	assert.Len(t, tr.RecentWords(), 0)
}
