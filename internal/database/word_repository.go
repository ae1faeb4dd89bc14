package database

import (
	"context"
	"fmt"

	"github.com/example/engtrainer/pkg/models"
	"github.com/jmoiron/sqlx"
)

// WordRepository stores the catalog in the words table
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// LoadWords returns all words in insertion order
func (r *WordRepository) LoadWords(ctx context.Context) ([]models.Word, error) {
	var words []models.Word
	err := r.db.SelectContext(ctx, &words, `
		SELECT english, russian, COALESCE(ipa, '') AS ipa, COALESCE(example, '') AS example
		FROM words ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return words, nil
}

// AppendWords inserts words, ignoring ones whose english term is already stored
func (r *WordRepository) AppendWords(ctx context.Context, words []models.Word) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, w := range words {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO words (english, russian, ipa, example)
			VALUES (:english, :russian, :ipa, :example)
			ON CONFLICT (english) DO NOTHING
		`, w)
		if err != nil {
			return fmt.Errorf("failed to create word %s: %w", w.English, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of stored words
func (r *WordRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM words"); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}
