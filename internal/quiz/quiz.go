// Package quiz implements the mini-games played over the trainer's word pools.
// Games never touch learning state: scores are for fun only.
package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/engtrainer/pkg/models"
)

var (
	ErrPoolTooSmall = errors.New("not enough words for this quiz")
	ErrNoQuestion   = errors.New("no question is open")
)

// Mode represents different types of quizzes
type Mode string

const (
	// MultipleChoice asks for the translation among four options
	MultipleChoice Mode = "multiple_choice"
	// Typing asks to type the english word for a russian prompt
	Typing Mode = "typing"
	// Sprint is multiple choice against a one minute clock
	Sprint Mode = "sprint"
	// Weekly is multiple choice over last week's words in random directions
	Weekly Mode = "weekly"
	// Context asks for the word missing from its example sentence
	Context Mode = "context"
)

const (
	OptionCount    = 4
	DefaultRounds  = 10
	WeeklyRounds   = 12
	SprintDuration = 60 * time.Second
	blank          = "_______"
)

// ParseMode maps a command argument to a mode
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case MultipleChoice, Typing, Sprint, Weekly, Context:
		return m, nil
	case "", "mc", "choice":
		return MultipleChoice, nil
	}
	return "", fmt.Errorf("unknown quiz mode %q", s)
}

// Rand is the random source of a game. *rand.Rand implements it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Question represents a single quiz question
type Question struct {
	Word      models.Word
	Direction models.Direction
	Prompt    string
	Options   []string // empty for typed answers
	Answer    string
}

// Game is one round-based quiz
type Game struct {
	mode      Mode
	pool      []models.Word
	direction models.Direction
	rnd       Rand
	now       func() time.Time

	rounds   int
	deadline time.Time
	asked    int
	score    int
	current  *Question
}

// NewGame starts a quiz over pool. direction applies to multiple choice;
// the other modes pick their own.
func NewGame(mode Mode, pool []models.Word, direction models.Direction, rnd Rand, now func() time.Time) (*Game, error) {
	if now == nil {
		now = time.Now
	}
	g := &Game{
		mode:      mode,
		direction: direction,
		rnd:       rnd,
		now:       now,
		rounds:    DefaultRounds,
	}

	switch mode {
	case MultipleChoice, Sprint, Weekly:
		g.pool = uniqueWords(pool)
		directions := []models.Direction{direction}
		switch mode {
		case Sprint:
			directions = []models.Direction{models.DirectionEnRu}
		case Weekly:
			directions = []models.Direction{models.DirectionEnRu, models.DirectionRuEn}
		}
		for _, d := range directions {
			if n := distinctAnswers(g.pool, d); n < OptionCount {
				return nil, fmt.Errorf("%w: need %d distinct answers, have %d", ErrPoolTooSmall, OptionCount, n)
			}
		}
	case Typing:
		g.pool = uniqueWords(pool)
	case Context:
		for _, w := range uniqueWords(pool) {
			if findFold(w.Example, w.English) >= 0 {
				g.pool = append(g.pool, w)
			}
		}
	default:
		return nil, fmt.Errorf("unknown quiz mode %q", mode)
	}
	if len(g.pool) == 0 {
		return nil, ErrPoolTooSmall
	}

	switch mode {
	case Sprint:
		g.rounds = 0
		g.deadline = now().Add(SprintDuration)
	case Weekly:
		g.rounds = WeeklyRounds
	}
	return g, nil
}

// Mode returns the quiz mode
func (g *Game) Mode() Mode {
	return g.mode
}

// Next opens the next question. It returns false once the game is over.
func (g *Game) Next() (Question, bool) {
	g.current = nil
	if g.Finished() {
		return Question{}, false
	}

	w := g.pool[g.rnd.Intn(len(g.pool))]
	var q Question
	switch g.mode {
	case Typing:
		q = Question{Word: w, Direction: models.DirectionRuEn, Prompt: w.Russian, Answer: w.English}
	case Context:
		q = Question{Word: w, Direction: models.DirectionRuEn, Prompt: replaceWordWithBlank(w.Example, w.English), Answer: w.English}
	case Sprint:
		q = g.choiceQuestion(w, models.DirectionEnRu)
	case Weekly:
		d := models.DirectionEnRu
		if g.rnd.Intn(2) == 1 {
			d = models.DirectionRuEn
		}
		q = g.choiceQuestion(w, d)
	default:
		q = g.choiceQuestion(w, g.direction)
	}

	g.asked++
	g.current = &q
	return q, true
}

// Current returns the open question
func (g *Game) Current() (Question, bool) {
	if g.current == nil {
		return Question{}, false
	}
	return *g.current, true
}

// Answer checks an answer to the open question and closes it
func (g *Game) Answer(text string) (bool, error) {
	if g.current == nil {
		return false, ErrNoQuestion
	}
	q := *g.current
	g.current = nil

	var correct bool
	if len(q.Options) > 0 {
		correct = text == q.Answer
	} else {
		correct = strings.EqualFold(strings.TrimSpace(text), q.Answer)
	}
	if correct {
		g.score++
	}
	return correct, nil
}

// Finished reports whether all rounds were asked or the time ran out
func (g *Game) Finished() bool {
	if g.mode == Sprint {
		return !g.now().Before(g.deadline)
	}
	return g.asked >= g.rounds
}

// Score returns correct answers and questions asked
func (g *Game) Score() (int, int) {
	return g.score, g.asked
}

// Rounds returns the number of questions, zero for timed games
func (g *Game) Rounds() int {
	return g.rounds
}

// TimeLeft returns the time left in a sprint
func (g *Game) TimeLeft() time.Duration {
	if g.mode != Sprint {
		return 0
	}
	left := g.deadline.Sub(g.now())
	if left < 0 {
		return 0
	}
	return left
}

func (g *Game) choiceQuestion(w models.Word, d models.Direction) Question {
	prompt, answer := w.English, w.Russian
	if d == models.DirectionRuEn {
		prompt, answer = w.Russian, w.English
	}
	return Question{
		Word:      w,
		Direction: d,
		Prompt:    prompt,
		Options:   g.options(w, d, answer),
		Answer:    answer,
	}
}

// options returns the answer and up to three distinct wrong answers, shuffled
func (g *Game) options(word models.Word, d models.Direction, answer string) []string {
	candidates := make([]models.Word, len(g.pool))
	copy(candidates, g.pool)
	g.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	options := []string{answer}
	used := map[string]bool{answer: true}
	for _, w := range candidates {
		if len(options) == OptionCount {
			break
		}
		text := w.Russian
		if d == models.DirectionRuEn {
			text = w.English
		}
		if w.English == word.English || used[text] {
			continue
		}
		used[text] = true
		options = append(options, text)
	}

	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func uniqueWords(words []models.Word) []models.Word {
	seen := make(map[string]bool, len(words))
	out := make([]models.Word, 0, len(words))
	for _, w := range words {
		if seen[w.English] {
			continue
		}
		seen[w.English] = true
		out = append(out, w)
	}
	return out
}

// distinctAnswers counts the different answer texts words offer in direction d
func distinctAnswers(words []models.Word, d models.Direction) int {
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if d == models.DirectionRuEn {
			seen[w.English] = true
		} else {
			seen[w.Russian] = true
		}
	}
	return len(seen)
}

// replaceWordWithBlank replaces the first occurrence of word in a sentence with a blank
func replaceWordWithBlank(sentence, word string) string {
	if i := findFold(sentence, word); i >= 0 {
		return sentence[:i] + blank + sentence[i+len(word):]
	}
	// If word not found, just append the blank
	return sentence + " " + blank
}

// findFold returns the index of substr in s ignoring ASCII case, or -1
func findFold(s, substr string) int {
	if substr == "" {
		return -1
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if lowerMatchAt(s, substr, i) {
			return i
		}
	}
	return -1
}

// lowerMatchAt checks if strings match at position, ignoring case
func lowerMatchAt(s, substr string, pos int) bool {
	for i := 0; i < len(substr); i++ {
		if toLowerCase(s[pos+i]) != toLowerCase(substr[i]) {
			return false
		}
	}
	return true
}

// toLowerCase converts a byte to lowercase
func toLowerCase(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
