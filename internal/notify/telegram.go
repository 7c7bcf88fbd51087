// Package notify announces finished export runs over Telegram. Optional;
// everything here is best-effort and never fails the run.
package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends run summaries to a single chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

// TelegramConfig configures the notifier.
type TelegramConfig struct {
	Token  string
	ChatID int64
	Logger *slog.Logger
}

func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Telegram{bot: bot, chatID: cfg.ChatID, logger: cfg.Logger}, nil
}

// ExportFinished sends a one-line summary of a completed run. Errors are
// logged, not returned; a missed notification must not fail an export.
func (t *Telegram) ExportFinished(channelID, source string, count int, outPath string) {
	text := fmt.Sprintf("channelog: exported %d messages from channel %s via %s", count, channelID, source)
	if outPath != "" {
		text += " -> " + outPath
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn("telegram notification failed", "err", err)
	}
}
