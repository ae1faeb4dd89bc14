package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/engtrainer/internal/bot"
	"github.com/example/engtrainer/internal/scheduler"
)

func newBotCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireBot(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			t, closeStorage, err := openTrainer(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer closeStorage()

			api, err := bot.Connect(a.cfg.TelegramToken)
			if err != nil {
				return err
			}
			b := bot.New(api, t, &bot.BotConfig{AllowedUserIDs: a.cfg.AllowedUserIDs()}, a.log)

			if a.cfg.EnableScheduler {
				s := scheduler.New(t, b, scheduler.Config{
					ReminderTime:    a.cfg.ReminderTime,
					AutosaveMinutes: a.cfg.AutosaveMinutes,
				}, a.log)
				if err := s.Start(); err != nil {
					return err
				}
				defer s.Stop()
			}

			a.log.Info("bot started, press Ctrl+C to stop")
			if err := b.Start(ctx, api); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			a.log.Info("bot stopped")
			return nil
		},
	}
}
