package trainer

import (
	"context"
	"fmt"

	"github.com/example/engtrainer/pkg/models"
)

// Settings returns the learner's settings
func (t *Trainer) Settings() models.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// SetDailyTarget changes how many cards a session aims for
func (t *Trainer) SetDailyTarget(ctx context.Context, target int) error {
	if target < MinDailyTarget || target > MaxDailyTarget {
		return fmt.Errorf("%w: got %d", ErrInvalidTarget, target)
	}
	return t.updateSettings(ctx, func(s *models.Settings) {
		s.DailyTarget = target
	})
}

// SetDirection changes which side of a card is shown first
func (t *Trainer) SetDirection(ctx context.Context, d models.Direction) error {
	if d != models.DirectionEnRu && d != models.DirectionRuEn {
		return fmt.Errorf("unknown direction %q", d)
	}
	return t.updateSettings(ctx, func(s *models.Settings) {
		s.Direction = d
	})
}

func (t *Trainer) updateSettings(ctx context.Context, change func(*models.Settings)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.settings
	change(&next)
	if err := t.persister.SaveSettings(ctx, next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	t.settings = next
	return nil
}
