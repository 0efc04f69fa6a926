package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"pouchon_bot/internal/entities"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const PlatformTelegram = "telegram"

type TelegramClient struct {
	Bot         *tgbotapi.BotAPI
	pollTimeout time.Duration
	logger      *zap.Logger
}

// NewTelegramClient connects to the public Bot API and verifies the token with getMe.
func NewTelegramClient(token string, pollTimeout time.Duration, logger *zap.Logger) (*TelegramClient, error) {
	return NewTelegramClientWithEndpoint(token, tgbotapi.APIEndpoint, http.DefaultClient, pollTimeout, logger)
}

// NewTelegramClientWithEndpoint is NewTelegramClient against a custom API endpoint.
// The endpoint is a format string taking the token and the method name.
func NewTelegramClientWithEndpoint(token, endpoint string, client tgbotapi.HTTPClient, pollTimeout time.Duration, logger *zap.Logger) (*TelegramClient, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &TelegramClient{
		Bot:         bot,
		pollTimeout: pollTimeout,
		logger:      logger.With(zap.String("bot", bot.Self.UserName)),
	}, nil
}

// UserName is the bot account's @username without the @.
func (t *TelegramClient) UserName() string {
	return t.Bot.Self.UserName
}

// SendMessage sends plain text; no parse mode is set so the text goes out verbatim.
func (t *TelegramClient) SendMessage(ctx context.Context, chatID int64, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, content)
	if _, err := t.Bot.Send(msg); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// Listen long-polls getUpdates and calls handle for every update carrying a message.
// Messages are handled one at a time in poll order. Returns once ctx is done.
func (t *TelegramClient) Listen(ctx context.Context, handle func(context.Context, entities.Message)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(t.pollTimeout / time.Second)
	updates := t.Bot.GetUpdatesChan(u)
	defer t.Bot.StopReceivingUpdates()

	t.logger.Info("telegram polling started", zap.Int("timeout_seconds", u.Timeout))

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				t.logger.Warn("telegram update channel closed")
				return
			}
			msg, ok := ToMessage(update)
			if !ok {
				t.logger.Debug("ignoring update without message", zap.Int("update_id", update.UpdateID))
				continue
			}
			handle(ctx, msg)
		}
	}
}

// ToMessage extracts the inbound message of an update. It reports false for
// updates that carry no message (edits, callback queries, channel posts).
func ToMessage(update tgbotapi.Update) (entities.Message, bool) {
	m := update.Message
	if m == nil || m.Chat == nil {
		return entities.Message{}, false
	}

	msg := entities.Message{
		ChatID:   m.Chat.ID,
		Text:     m.Text,
		Platform: PlatformTelegram,
	}
	if m.From != nil {
		msg.SenderID = m.From.ID
		msg.SenderName = m.From.FirstName
	}
	return msg, true
}
