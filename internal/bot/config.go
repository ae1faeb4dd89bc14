package bot

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/example/engtrainer/internal/quiz"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Telegram users the bot talks to; everyone else is ignored
	AllowedUserIDs []int64
	// Long polling timeout in seconds
	UpdateTimeout int
	// Random source of quiz games
	Rand quiz.Rand
	// Clock of timed quizzes
	Now func() time.Time
	// HTTP client used to download uploaded word lists
	HTTPClient *http.Client
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		UpdateTimeout: 60,
		Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:           time.Now,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *BotConfig) withDefaults() *BotConfig {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.UpdateTimeout <= 0 {
		out.UpdateTimeout = d.UpdateTimeout
	}
	if out.Rand == nil {
		out.Rand = d.Rand
	}
	if out.Now == nil {
		out.Now = d.Now
	}
	if out.HTTPClient == nil {
		out.HTTPClient = d.HTTPClient
	}
	return &out
}
