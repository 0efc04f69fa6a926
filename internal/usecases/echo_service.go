package usecases

import (
	"context"
	"fmt"
	"pouchon_bot/internal/entities"
	"pouchon_bot/internal/interfaces"

	"go.uber.org/zap"
)

// EchoService replies to every inbound chat message with the sender's own text.
type EchoService struct {
	messenger interfaces.Messenger
	logger    *zap.Logger
}

func NewEchoService(messenger interfaces.Messenger, logger *zap.Logger) *EchoService {
	return &EchoService{
		messenger: messenger,
		logger:    logger,
	}
}

// FormatReply builds the echo text for a sender's display name and message.
func FormatReply(name, text string) string {
	return fmt.Sprintf("Hey %s! You said: %s", name, text)
}

// HandleMessage sends the echo reply to the chat the message came from.
func (s *EchoService) HandleMessage(ctx context.Context, msg entities.Message) error {
	reply := FormatReply(msg.SenderName, msg.Text)

	if err := s.messenger.SendMessage(ctx, msg.ChatID, reply); err != nil {
		s.logger.Error("failed to send echo reply",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
		return err
	}

	s.logger.Info("echo reply sent",
		zap.Int64("chat_id", msg.ChatID),
		zap.Int64("sender_id", msg.SenderID),
		zap.String("platform", msg.Platform))
	return nil
}

// Handle adapts HandleMessage to a poll loop callback. Send errors are already
// logged, so the loop moves on to the next message.
func (s *EchoService) Handle(ctx context.Context, msg entities.Message) {
	_ = s.HandleMessage(ctx, msg)
}
