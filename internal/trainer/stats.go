package trainer

import "github.com/example/engtrainer/pkg/models"

// StatsRowLimit caps the per-word table
const StatsRowLimit = 200

// StatsRow is one line of the per-word progress table
type StatsRow struct {
	Word  models.Word
	State models.CardState
}

// Stats summarises learning progress
type Stats struct {
	Total    int
	Learned  int // words with at least one success since their last lapse
	DueToday int
	New      int
	Mastered int
	Rows     []StatsRow
}

// Stats computes progress over the whole catalog
func (t *Trainer) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	words := t.catalog.Words()
	today := t.clock.Today()
	stats := Stats{Total: len(words)}

	for i, w := range words {
		cs := t.builder.State(w.Key())
		if cs.Reps > 0 {
			stats.Learned++
		}
		if cs.IsDue(today) {
			stats.DueToday++
		}
		if cs.IsNew() {
			stats.New++
		}
		if t.sm2.IsMastered(cs) {
			stats.Mastered++
		}
		if i < StatsRowLimit {
			stats.Rows = append(stats.Rows, StatsRow{Word: w, State: cs})
		}
	}
	return stats
}
