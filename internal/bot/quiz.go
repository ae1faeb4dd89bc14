package bot

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/example/engtrainer/internal/quiz"
	"github.com/example/engtrainer/pkg/models"
)

func quizButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🔤 Choice", CallbackData: "quiz:" + string(quiz.MultipleChoice)},
			{Text: "⌨️ Typing", CallbackData: "quiz:" + string(quiz.Typing)},
		},
		{
			{Text: "⚡ Sprint", CallbackData: "quiz:" + string(quiz.Sprint)},
			{Text: "📅 Weekly", CallbackData: "quiz:" + string(quiz.Weekly)},
		},
		{
			{Text: "📝 Context", CallbackData: "quiz:" + string(quiz.Context)},
		},
	}
}

// handleQuizCommand starts a quiz, or lists the modes when none is given
func (b *Bot) handleQuizCommand(chatID int64, arg string) {
	if arg == "" {
		b.sendWithKeyboard(chatID, "Choose a quiz:", quizButtons())
		return
	}
	mode, err := quiz.ParseMode(arg)
	if err != nil {
		b.sendWithKeyboard(chatID, "Unknown quiz. Choose one:", quizButtons())
		return
	}

	pool := b.trainer.QuizPool()
	if mode == quiz.Weekly {
		pool = b.trainer.RecentWords()
	}
	game, err := quiz.NewGame(mode, pool, b.trainer.Settings().Direction, b.config.Rand, b.config.Now)
	if err != nil {
		if errors.Is(err, quiz.ErrPoolTooSmall) {
			b.send(chatID, "Not enough words for this quiz yet. Learn a few more with /learn.")
			return
		}
		b.log.Error("failed to start quiz", "mode", mode, "error", err)
		return
	}

	state := b.state(chatID)
	state.game = game
	switch mode {
	case quiz.Sprint:
		b.send(chatID, "⚡ Sprint: answer as many as you can in 60 seconds!")
	case quiz.Weekly:
		b.send(chatID, fmt.Sprintf("📅 Weekly quiz over %d words you saw this week.", len(pool)))
	}
	b.nextQuestion(chatID, state)
}

func (b *Bot) nextQuestion(chatID int64, state *UserState) {
	q, ok := state.game.Next()
	if !ok {
		b.finishQuiz(chatID, state)
		return
	}

	prefix := ""
	if rounds := state.game.Rounds(); rounds > 0 {
		_, asked := state.game.Score()
		prefix = fmt.Sprintf("[%d/%d] ", asked, rounds)
	}

	if len(q.Options) == 0 {
		state.State = stateWaitingAnswer
		prompt := "Translate into English: " + q.Prompt
		if state.game.Mode() == quiz.Context {
			prompt = "Fill in the blank: " + q.Prompt + "\n(" + q.Word.Russian + ")"
		}
		b.send(chatID, prefix+prompt)
		return
	}

	state.State = stateIdle
	buttons := make([][]MenuButton, 0, len(q.Options))
	for i, option := range q.Options {
		buttons = append(buttons, []MenuButton{{Text: option, CallbackData: "answer:" + strconv.Itoa(i)}})
	}
	label := "Translate"
	if q.Direction == models.DirectionRuEn {
		label = "Переведите"
	}
	b.sendWithKeyboard(chatID, fmt.Sprintf("%s%s: %s", prefix, label, q.Prompt), buttons)
}

// handleChoice checks a pressed option button
func (b *Bot) handleChoice(chatID int64, arg string) {
	state := b.state(chatID)
	if state.game == nil {
		return
	}
	q, ok := state.game.Current()
	if !ok {
		return
	}
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 || i >= len(q.Options) {
		return
	}
	b.answer(chatID, state, q.Options[i])
}

// handleTypedAnswer checks a typed answer
func (b *Bot) handleTypedAnswer(chatID int64, text string) {
	state := b.state(chatID)
	if state.game == nil {
		state.State = stateIdle
		return
	}
	b.answer(chatID, state, text)
}

func (b *Bot) answer(chatID int64, state *UserState, text string) {
	q, _ := state.game.Current()
	correct, err := state.game.Answer(text)
	if err != nil {
		return
	}
	if correct {
		b.send(chatID, "✅ Correct!")
	} else {
		b.send(chatID, "❌ Correct answer: "+q.Answer)
	}
	b.nextQuestion(chatID, state)
}

func (b *Bot) finishQuiz(chatID int64, state *UserState) {
	score, asked := state.game.Score()
	state.game = nil
	state.State = stateIdle
	b.sendMenu(chatID, fmt.Sprintf("🏁 Quiz finished: %d of %d correct.", score, asked))
}
