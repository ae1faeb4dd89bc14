package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/engtrainer/pkg/models"
	"github.com/jmoiron/sqlx"
)

// ProgressRepository stores card states and settings
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// cardRow mirrors card_states; NULL columns become absent record fields
type cardRow struct {
	Word         string          `db:"word"`
	Ease         sql.NullFloat64 `db:"ease"`
	IntervalDays sql.NullInt64   `db:"interval_days"`
	Reps         sql.NullInt64   `db:"reps"`
	Lapses       sql.NullInt64   `db:"lapses"`
	Due          sql.NullString  `db:"due"`
	TotalSeen    sql.NullInt64   `db:"total_seen"`
	Correct      sql.NullInt64   `db:"correct"`
	Streak       sql.NullInt64   `db:"streak"`
	LastSeen     sql.NullString  `db:"last_seen"`
	LastResult   sql.NullString  `db:"last_result"`
}

func (r cardRow) record() models.CardRecord {
	rec := models.CardRecord{
		IntervalDays: nullInt(r.IntervalDays),
		Reps:         nullInt(r.Reps),
		Lapses:       nullInt(r.Lapses),
		Due:          r.Due.String,
		TotalSeen:    nullInt(r.TotalSeen),
		Correct:      nullInt(r.Correct),
		Streak:       nullInt(r.Streak),
		LastSeen:     r.LastSeen.String,
		LastResult:   r.LastResult.String,
	}
	if r.Ease.Valid {
		ease := r.Ease.Float64
		rec.Ease = &ease
	}
	return rec
}

// LoadProgress returns every stored card record keyed by word
func (r *ProgressRepository) LoadProgress(ctx context.Context) (map[string]models.CardRecord, error) {
	var rows []cardRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT word, ease, interval_days, reps, lapses, due, total_seen, correct, streak, last_seen, last_result
		FROM card_states
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get card states: %w", err)
	}

	records := make(map[string]models.CardRecord, len(rows))
	for _, row := range rows {
		records[row.Word] = row.record()
	}
	return records, nil
}

// SaveProgress replaces the stored snapshot with records
func (r *ProgressRepository) SaveProgress(ctx context.Context, records map[string]models.CardRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM card_states"); err != nil {
		return fmt.Errorf("failed to clear card states: %w", err)
	}

	for word, rec := range records {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO card_states (
				word, ease, interval_days, reps, lapses, due,
				total_seen, correct, streak, last_seen, last_result
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`),
			word, rec.Ease, rec.IntervalDays, rec.Reps, rec.Lapses, nullString(rec.Due),
			rec.TotalSeen, rec.Correct, rec.Streak, nullString(rec.LastSeen), nullString(rec.LastResult),
		)
		if err != nil {
			return fmt.Errorf("failed to save card state %s: %w", word, err)
		}
	}
	return tx.Commit()
}

// ResetProgress deletes every card state
func (r *ProgressRepository) ResetProgress(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM card_states"); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}

// LoadSettings returns the stored settings or defaults
func (r *ProgressRepository) LoadSettings(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := r.db.GetContext(ctx, &s, "SELECT daily_target, direction FROM settings WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return s.WithDefaults(), nil
}

// SaveSettings creates or updates the settings row
func (r *ProgressRepository) SaveSettings(ctx context.Context, s models.Settings) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO settings (id, daily_target, direction) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			daily_target = EXCLUDED.daily_target,
			direction = EXCLUDED.direction,
			updated_at = CURRENT_TIMESTAMP
	`), s.DailyTarget, string(s.Direction))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
