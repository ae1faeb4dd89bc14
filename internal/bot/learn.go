package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/engtrainer/internal/spaced_repetition"
	"github.com/example/engtrainer/internal/trainer"
	"github.com/example/engtrainer/pkg/models"
)

func cardButtons() [][]MenuButton {
	return [][]MenuButton{{
		{Text: "👀 Show", CallbackData: "show"},
		{Text: "💡 Hint", CallbackData: "hint"},
	}}
}

func rateButtons() [][]MenuButton {
	return [][]MenuButton{{
		{Text: "❌ Again", CallbackData: "rate:again"},
		{Text: "😐 Hard", CallbackData: "rate:hard"},
		{Text: "🙂 Good", CallbackData: "rate:good"},
		{Text: "😎 Easy", CallbackData: "rate:easy"},
	}}
}

// startLearning builds today's queue and shows the first card
func (b *Bot) startLearning(ctx context.Context, chatID int64) {
	state := b.state(chatID)
	state.game = nil
	state.State = stateIdle
	if state.session != nil {
		b.finishSession(ctx, chatID, state)
	}

	session := b.trainer.StartSession()
	if session.Total() == 0 {
		b.sendMenu(chatID, "🎉 Nothing to review today. Add words with /add or /import.")
		return
	}
	state.session = session
	b.send(chatID, fmt.Sprintf("📚 Session: %d due, %d new.", session.Due(), session.New()))
	b.showNextCard(ctx, chatID, state)
}

func (b *Bot) showNextCard(ctx context.Context, chatID int64, state *UserState) {
	w, ok := state.session.Next()
	if !ok {
		b.finishSession(ctx, chatID, state)
		return
	}
	state.revealed = false

	front, _ := sides(w, b.trainer.Settings().Direction)
	progress := fmt.Sprintf("[%d/%d]", state.session.Total()-state.session.Remaining(), state.session.Total())
	b.sendWithKeyboard(chatID, progress+"\n\n"+front, cardButtons())
}

// revealCard shows the hidden side and the rating buttons
func (b *Bot) revealCard(chatID int64) {
	state := b.state(chatID)
	w, ok := b.currentCard(state)
	if !ok {
		b.send(chatID, "No card is open. Use /learn to start.")
		return
	}
	state.revealed = true

	front, back := sides(w, b.trainer.Settings().Direction)
	text := front + "\n\n" + back
	if w.Example != "" {
		text += "\n\n📖 " + w.Example
	}
	b.sendWithKeyboard(chatID, text, rateButtons())
}

// sendHint shows the first letter of the hidden side
func (b *Bot) sendHint(chatID int64) {
	state := b.state(chatID)
	w, ok := b.currentCard(state)
	if !ok {
		b.send(chatID, "No card is open. Use /learn to start.")
		return
	}
	answer := w.Russian
	if b.trainer.Settings().Direction == models.DirectionRuEn {
		answer = w.English
	}
	b.sendWithKeyboard(chatID, "💡 "+hint(answer), cardButtons())
}

// rateCard grades the open card and moves on
func (b *Bot) rateCard(ctx context.Context, chatID int64, name string) {
	state := b.state(chatID)
	if state.session == nil {
		b.send(chatID, "No card is open. Use /learn to start.")
		return
	}
	if !state.revealed {
		b.send(chatID, "Show the answer first.")
		return
	}
	q, err := spaced_repetition.ParseQuality(name)
	if err != nil {
		b.log.Warn("bad rating", "value", name, "error", err)
		return
	}

	cs, err := state.session.Rate(q)
	if err != nil {
		if errors.Is(err, trainer.ErrNoCard) {
			// a stale button on an already rated card
			return
		}
		b.log.Error("failed to rate card", "error", err)
		b.send(chatID, "❌ Could not save the rating.")
		return
	}

	b.send(chatID, fmt.Sprintf("Next review in %d %s (%s).",
		cs.IntervalDays, plural(cs.IntervalDays, "day", "days"), models.FormatDate(cs.Due)))
	b.showNextCard(ctx, chatID, state)
}

// finishSession saves progress once the queue is exhausted or abandoned
func (b *Bot) finishSession(ctx context.Context, chatID int64, state *UserState) {
	session := state.session
	state.session = nil
	if err := b.trainer.Save(ctx); err != nil {
		b.log.Error("failed to save progress", "error", err)
		b.send(chatID, "⚠️ Progress could not be saved.")
	}
	if session.Remaining() == 0 {
		b.sendMenu(chatID, fmt.Sprintf("✅ Session complete! Reviewed %d of %d words.", session.Reviewed(), session.Total()))
	}
}

func (b *Bot) currentCard(state *UserState) (models.Word, bool) {
	if state.session == nil {
		return models.Word{}, false
	}
	return state.session.Current()
}

// sides returns the shown and the hidden side of a card
func sides(w models.Word, d models.Direction) (string, string) {
	english := w.English
	if w.IPA != "" {
		english += " [" + w.IPA + "]"
	}
	if d == models.DirectionRuEn {
		return w.Russian, english
	}
	return english, w.Russian
}

// hint reveals the first letter and masks the rest
func hint(answer string) string {
	runes := []rune(strings.TrimSpace(answer))
	if len(runes) == 0 {
		return ""
	}
	masked := make([]rune, 0, len(runes))
	masked = append(masked, runes[0])
	for _, r := range runes[1:] {
		if r == ' ' || r == '-' {
			masked = append(masked, r)
			continue
		}
		masked = append(masked, '•')
	}
	return string(masked)
}
