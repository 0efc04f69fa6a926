package interfaces

import "context"

type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, content string) error
}
