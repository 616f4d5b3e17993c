package ports

import "context"

// IncomingMessage: нормализованное входящее сообщение, одинаковое для webhook и polling
type IncomingMessage struct {
	ChatID       int64
	SenderHandle string
	FirstName    string
	LastName     string
	Text         string
}

// Outbound: отправка ответа в чат
type Outbound interface {
	SendToChat(ctx context.Context, chatID int64, text string) error
}

// Asker returns text that is always safe to send. A non-nil error only
// tells which fallback was used.
type Asker interface {
	Ask(ctx context.Context, contextText, newText string) (string, error)
}

// ConversationService: оркестрация одного входящего сообщения
type ConversationService interface {
	Handle(ctx context.Context, msg IncomingMessage) error
}
