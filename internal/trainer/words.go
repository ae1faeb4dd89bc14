package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/engtrainer/internal/catalog"
	"github.com/example/engtrainer/pkg/models"
)

// ImportResult summarises an import into the catalog
type ImportResult struct {
	Added   int
	Skipped int
	Errors  []string
}

// AddWord adds a single word to the catalog and its source
func (t *Trainer) AddWord(ctx context.Context, w models.Word) error {
	w = w.Normalize()
	if w.English == "" || w.Russian == "" {
		return errors.New("both english and russian are required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.catalog.Contains(w.English) {
		return fmt.Errorf("%w: %s", catalog.ErrDuplicateWord, w.English)
	}
	if err := t.source.AppendWords(ctx, []models.Word{w}); err != nil {
		return fmt.Errorf("failed to store word: %w", err)
	}
	if err := t.catalog.Add(w); err != nil {
		return err
	}
	t.log.Info("word added", "word", w.English)
	return nil
}

// Import adds every word whose key is not in the catalog yet
func (t *Trainer) Import(ctx context.Context, words []models.Word) (*ImportResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := &ImportResult{Errors: make([]string, 0)}
	seen := make(map[string]bool, len(words))
	var added []models.Word

	for i, w := range words {
		w = w.Normalize()
		switch {
		case w.English == "" || w.Russian == "":
			result.Errors = append(result.Errors, fmt.Sprintf("Entry %d: english and russian are required", i+1))
		case t.catalog.Contains(w.English) || seen[w.English]:
			result.Skipped++
		default:
			seen[w.English] = true
			added = append(added, w)
		}
	}
	if len(added) == 0 {
		return result, nil
	}

	if err := t.source.AppendWords(ctx, added); err != nil {
		return nil, fmt.Errorf("failed to store imported words: %w", err)
	}
	for _, w := range added {
		if err := t.catalog.Add(w); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Added++
	}
	t.log.Info("words imported", "added", result.Added, "skipped", result.Skipped, "errors", len(result.Errors))
	return result, nil
}
