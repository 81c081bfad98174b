package reminder

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/stsysd/plantcare/config"
)

// Notifier はリマインダーの本文を届けます。
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// LogNotifier はリマインダーをログに書き出します。
type LogNotifier struct {
	Logger *log.Logger
}

func (n *LogNotifier) Notify(_ context.Context, text string) error {
	n.Logger.Printf("Reminder:\n%s", text)
	return nil
}

// TelegramNotifier は指定したチャットにメッセージを送ります。
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier はボットを認証して通知先を作成します。
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Printf("Telegram bot authorized on account %s", api.Self.UserName)
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// NewNotifier は設定に応じた通知先を返します。
// Telegramのトークンとチャットが設定されていなければログに出力します。
func NewNotifier(cfg *config.Config, logger *log.Logger) (Notifier, error) {
	if !cfg.TelegramEnabled() {
		return &LogNotifier{Logger: logger}, nil
	}
	return NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
}
