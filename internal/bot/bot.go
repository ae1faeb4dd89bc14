package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/engtrainer/internal/logger"
	"github.com/example/engtrainer/internal/quiz"
	"github.com/example/engtrainer/internal/trainer"
)

// Telegram rejects longer messages
const maxMessageLength = 4000

// Sender is the part of the Telegram API the bot uses. *tgbotapi.BotAPI implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Conversation states
const (
	stateIdle          = ""
	stateWaitingWord   = "waiting_for_word"
	stateWaitingFile   = "waiting_for_word_list"
	stateWaitingAnswer = "waiting_for_answer"
)

// UserState represents the current state of a chat with the bot
type UserState struct {
	State     string
	Timestamp time.Time
	session   *trainer.Session
	revealed  bool
	game      *quiz.Game
}

// Bot represents the Telegram bot application
type Bot struct {
	api        Sender
	trainer    *trainer.Trainer
	config     *BotConfig
	log        *logger.Logger
	allowed    map[int64]bool
	userStates map[int64]*UserState
}

// New creates a bot around an authorised API client
func New(api Sender, t *trainer.Trainer, config *BotConfig, log *logger.Logger) *Bot {
	config = config.withDefaults()
	allowed := make(map[int64]bool, len(config.AllowedUserIDs))
	for _, id := range config.AllowedUserIDs {
		allowed[id] = true
	}
	return &Bot{
		api:        api,
		trainer:    t,
		config:     config,
		log:        log,
		allowed:    allowed,
		userStates: make(map[int64]*UserState),
	}
}

// Connect authorises the token against Telegram
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	return api, nil
}

// Start polls Telegram and handles updates one at a time until ctx is done
func (b *Bot) Start(ctx context.Context, api *tgbotapi.BotAPI) error {
	b.log.Info("authorized on account", "username", api.Self.UserName)

	// Set up the update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout
	updates := api.GetUpdatesChan(updateConfig)
	defer api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.finishAll()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.finishAll()
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(due, fresh int) error {
	text := fmt.Sprintf("⏰ Time to practice: %d due and %d new %s waiting. Tap /learn to start.",
		due, fresh, plural(due+fresh, "word", "words"))

	var firstErr error
	for id := range b.allowed {
		// private chats share the user's ID
		if _, err := b.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
			b.log.Warn("failed to send reminder", "chat_id", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// isAllowed checks if a user may talk to the bot
func (b *Bot) isAllowed(user *tgbotapi.User) bool {
	return user != nil && b.allowed[user.ID]
}

// userID returns the sender's ID, or zero for updates without a sender
func userID(user *tgbotapi.User) int64 {
	if user == nil {
		return 0
	}
	return user.ID
}

// HandleUpdate handles one incoming update from Telegram
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if !b.isAllowed(update.Message.From) {
			b.log.Warn("ignoring message from unknown user", "user_id", userID(update.Message.From))
			return
		}
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		if !b.isAllowed(update.CallbackQuery.From) {
			b.log.Warn("ignoring callback from unknown user", "user_id", userID(update.CallbackQuery.From))
			return
		}
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if message.IsCommand() {
		b.HandleCommand(ctx, message)
		return
	}
	if message.Document != nil {
		b.handleDocument(ctx, message)
		return
	}

	state := b.state(chatID)
	switch state.State {
	case stateWaitingWord:
		state.State = stateIdle
		b.addWord(ctx, chatID, message.Text)
	case stateWaitingAnswer:
		b.handleTypedAnswer(chatID, message.Text)
	case stateWaitingFile:
		b.send(chatID, "Please send a .csv or .xlsx file, or /cancel.")
	default:
		b.sendMenu(chatID, "I don't understand. Choose an option:")
	}
}

func (b *Bot) state(chatID int64) *UserState {
	s, ok := b.userStates[chatID]
	if !ok {
		s = &UserState{}
		b.userStates[chatID] = s
	}
	s.Timestamp = b.config.Now()
	return s
}

// finishAll saves progress of sessions interrupted by shutdown
func (b *Bot) finishAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.trainer.Save(ctx); err != nil {
		b.log.Error("failed to save progress on shutdown", "error", err)
	}
}

func (b *Bot) send(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, buttons [][]MenuButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(buttons)
	b.sendMessage(msg)
}

func (b *Bot) sendMenu(chatID int64, text string) {
	b.sendWithKeyboard(chatID, text, MainMenuButtons())
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("failed to send message", "error", err)
	}
}

// sendLong splits text on line boundaries to fit Telegram's limit
func (b *Bot) sendLong(chatID int64, text string) {
	var chunk strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if chunk.Len()+len(line)+1 > maxMessageLength && chunk.Len() > 0 {
			b.send(chatID, chunk.String())
			chunk.Reset()
		}
		chunk.WriteString(line)
		chunk.WriteByte('\n')
	}
	if chunk.Len() > 0 {
		b.send(chatID, strings.TrimRight(chunk.String(), "\n"))
	}
}

// MainMenuButtons returns the buttons for the main menu
func MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🎯 Learn", CallbackData: "learn"},
			{Text: "🎲 Quiz", CallbackData: "quiz"},
		},
		{
			{Text: "📊 Statistics", CallbackData: "stats"},
			{Text: "⚙️ Settings", CallbackData: "settings"},
		},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
