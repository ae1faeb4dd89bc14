package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/engtrainer/internal/catalog"
	"github.com/example/engtrainer/internal/excel"
	"github.com/example/engtrainer/internal/trainer"
	"github.com/example/engtrainer/pkg/models"
)

// Largest word list accepted as an upload
const maxUploadSize = 5 << 20

const helpText = `Commands:
/learn - review due words and learn new ones
/quiz - play a quiz (multiple_choice, typing, sprint, weekly, context)
/stats - show your progress
/target N - set the daily target (%d-%d)
/direction - switch between EN→RU and RU→EN
/add english;russian;ipa;example - add a word
/import - upload a .csv or .xlsx word list
/export - download progress.json
/reset - forget all progress
/cancel - stop the current session or quiz`

// HandleCommand handles commands sent to the bot
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.send(chatID, fmt.Sprintf(helpText, trainer.MinDailyTarget, trainer.MaxDailyTarget))
	case "menu":
		b.sendMenu(chatID, "Main menu:")
	case "learn":
		b.startLearning(ctx, chatID)
	case "quiz":
		b.handleQuizCommand(chatID, args)
	case "stats":
		b.handleStats(chatID)
	case "target":
		b.handleTarget(ctx, chatID, args)
	case "direction":
		b.handleDirection(ctx, chatID, args)
	case "add":
		if args == "" {
			b.state(chatID).State = stateWaitingWord
			b.send(chatID, "Send the word as: english;russian;ipa;example (ipa and example are optional)")
			return
		}
		b.addWord(ctx, chatID, args)
	case "import":
		b.state(chatID).State = stateWaitingFile
		b.send(chatID, "Send a .csv or .xlsx file with columns english, russian, ipa, example.")
	case "export":
		b.handleExport(chatID)
	case "reset":
		b.sendWithKeyboard(chatID, "Forget all learning progress? This cannot be undone.", [][]MenuButton{{
			{Text: "🗑 Yes, reset", CallbackData: "reset:yes"},
			{Text: "Cancel", CallbackData: "reset:no"},
		}})
	case "cancel":
		b.handleCancel(ctx, chatID)
	default:
		b.sendMenu(chatID, "Unknown command. Use /help to see what I can do.")
	}
}

// handleStart greets the learner
func (b *Bot) handleStart(chatID int64) {
	due, fresh := b.trainer.Pending()
	s := b.trainer.Settings()
	text := fmt.Sprintf("Welcome to the vocabulary trainer! 🎓\n\nToday: %d due, %d new (target %d, %s).\n\n%s",
		due, fresh, s.DailyTarget, s.Direction.Label(),
		fmt.Sprintf(helpText, trainer.MinDailyTarget, trainer.MaxDailyTarget))
	b.sendMenu(chatID, text)
}

// handleStats shows learning progress
func (b *Bot) handleStats(chatID int64) {
	st := b.trainer.Stats()

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Statistics\n\nTotal words: %d\nLearned: %d\nDue today: %d\nNew: %d\nMastered: %d\n",
		st.Total, st.Learned, st.DueToday, st.New, st.Mastered)
	if len(st.Rows) > 0 {
		sb.WriteString("\nword | ease | interval | reps | due\n")
	}
	for _, row := range st.Rows {
		cs := row.State
		if cs.IsNew() {
			fmt.Fprintf(&sb, "%s | new\n", row.Word.English)
			continue
		}
		fmt.Fprintf(&sb, "%s | %.2f | %dd | %d | %s\n",
			row.Word.English, cs.Ease, cs.IntervalDays, cs.Reps, models.FormatDate(cs.Due))
	}
	if st.Total > len(st.Rows) {
		fmt.Fprintf(&sb, "… and %d more\n", st.Total-len(st.Rows))
	}
	b.sendLong(chatID, strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) handleTarget(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.send(chatID, fmt.Sprintf("Daily target is %d. Use /target N to change it (%d-%d).",
			b.trainer.Settings().DailyTarget, trainer.MinDailyTarget, trainer.MaxDailyTarget))
		return
	}
	n, err := strconv.Atoi(args)
	if err != nil {
		b.send(chatID, fmt.Sprintf("Please enter a number between %d and %d.", trainer.MinDailyTarget, trainer.MaxDailyTarget))
		return
	}
	if err := b.trainer.SetDailyTarget(ctx, n); err != nil {
		if errors.Is(err, trainer.ErrInvalidTarget) {
			b.send(chatID, "❌ "+err.Error())
			return
		}
		b.log.Error("failed to save daily target", "error", err)
		b.send(chatID, "❌ Could not save the setting.")
		return
	}
	b.send(chatID, fmt.Sprintf("✅ Daily target set to %d.", n))
}

func (b *Bot) handleDirection(ctx context.Context, chatID int64, args string) {
	d := models.Direction(strings.ToLower(args))
	switch {
	case args == "":
		d = models.DirectionRuEn
		if b.trainer.Settings().Direction == models.DirectionRuEn {
			d = models.DirectionEnRu
		}
	case d != models.DirectionEnRu && d != models.DirectionRuEn:
		b.send(chatID, "Use /direction en-ru or /direction ru-en.")
		return
	}
	if err := b.trainer.SetDirection(ctx, d); err != nil {
		b.log.Error("failed to save direction", "error", err)
		b.send(chatID, "❌ Could not save the setting.")
		return
	}
	b.send(chatID, "✅ Cards are shown "+d.Label()+".")
}

// addWord parses "english;russian;ipa;example" and adds the word
func (b *Bot) addWord(ctx context.Context, chatID int64, line string) {
	parts := strings.Split(line, ";")
	if len(parts) < 2 {
		b.send(chatID, "❌ Format: english;russian;ipa;example")
		return
	}
	w := models.Word{English: parts[0], Russian: parts[1]}
	if len(parts) > 2 {
		w.IPA = parts[2]
	}
	if len(parts) > 3 {
		w.Example = strings.Join(parts[3:], ";")
	}

	if err := b.trainer.AddWord(ctx, w); err != nil {
		if errors.Is(err, catalog.ErrDuplicateWord) {
			b.send(chatID, "⚠️ This word is already in the dictionary.")
			return
		}
		b.log.Warn("failed to add word", "error", err)
		b.send(chatID, "❌ "+err.Error())
		return
	}
	b.send(chatID, fmt.Sprintf("✅ Added: %s — %s", strings.TrimSpace(w.English), strings.TrimSpace(w.Russian)))
}

// handleDocument imports an uploaded word list
func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	b.state(chatID).State = stateIdle

	doc := message.Document
	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".csv" && ext != ".xlsx" {
		b.send(chatID, "❌ Only .csv and .xlsx files are supported.")
		return
	}
	if doc.FileSize > maxUploadSize {
		b.send(chatID, "❌ The file is too large.")
		return
	}

	path, err := b.download(ctx, doc.FileID, ext)
	if err != nil {
		b.log.Error("failed to download document", "file", doc.FileName, "error", err)
		b.send(chatID, "❌ Could not download the file.")
		return
	}
	defer os.Remove(path)

	parsed, err := excel.ReadWords(path, excel.DefaultImportConfig())
	if err != nil {
		b.send(chatID, "❌ Could not read the file: "+err.Error())
		return
	}
	result, err := b.trainer.Import(ctx, parsed.Words)
	if err != nil {
		b.log.Error("import failed", "file", doc.FileName, "error", err)
		b.send(chatID, "❌ Import failed.")
		return
	}

	errs := append(parsed.Errors, result.Errors...)
	text := fmt.Sprintf("📥 Import finished\nAdded: %d\nSkipped: %d\nErrors: %d", result.Added, result.Skipped, len(errs))
	if len(errs) > 0 {
		text += "\n\n" + strings.Join(errs, "\n")
	}
	b.sendLong(chatID, text)
}

// download saves a Telegram file to a temporary path
func (b *Bot) download(ctx context.Context, fileID, ext string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := b.config.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.CreateTemp("", "engtrainer-upload-*"+ext)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, io.LimitReader(resp.Body, maxUploadSize)); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (b *Bot) handleExport(chatID int64) {
	var buf bytes.Buffer
	if err := b.trainer.Export(&buf); err != nil {
		b.log.Error("export failed", "error", err)
		b.send(chatID, "❌ Export failed.")
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "progress.json", Bytes: buf.Bytes()})
	doc.Caption = "Learning progress for " + models.FormatDate(b.trainer.Today())
	b.sendMessage(doc)
}

func (b *Bot) handleReset(ctx context.Context, chatID int64, confirmed bool) {
	if !confirmed {
		b.send(chatID, "Reset cancelled.")
		return
	}
	state := b.state(chatID)
	state.session = nil
	if err := b.trainer.Reset(ctx); err != nil {
		b.log.Error("reset failed", "error", err)
		b.send(chatID, "❌ Reset failed.")
		return
	}
	b.send(chatID, "🗑 Progress reset. Every word is new again.")
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	state := b.state(chatID)
	if state.session != nil {
		b.finishSession(ctx, chatID, state)
	}
	state.game = nil
	state.State = stateIdle
	b.sendMenu(chatID, "Cancelled.")
}

// handleCallbackQuery handles callback queries from buttons
func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Debug("failed to answer callback", "error", err)
	}
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	action, arg, _ := strings.Cut(callback.Data, ":")
	switch action {
	case "learn":
		b.startLearning(ctx, chatID)
	case "show":
		b.revealCard(chatID)
	case "hint":
		b.sendHint(chatID)
	case "rate":
		b.rateCard(ctx, chatID, arg)
	case "quiz":
		b.handleQuizCommand(chatID, arg)
	case "answer":
		b.handleChoice(chatID, arg)
	case "stats":
		b.handleStats(chatID)
	case "settings":
		s := b.trainer.Settings()
		b.send(chatID, fmt.Sprintf("⚙️ Settings\nDaily target: %d (/target N)\nDirection: %s (/direction)",
			s.DailyTarget, s.Direction.Label()))
	case "reset":
		b.handleReset(ctx, chatID, arg == "yes")
	default:
		b.log.Warn("unknown callback", "data", callback.Data)
	}
}
