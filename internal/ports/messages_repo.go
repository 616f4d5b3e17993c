package ports

import (
	"context"
	"time"
)

// DTO для истории сообщений
type StoredMessage struct {
	ID         int64     `json:"id"`
	UserHandle string    `json:"user_handle"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Репозиторий Postgres
type MessageRepo interface {
	// CreateText appends one message; the timestamp is assigned by the repo.
	CreateText(ctx context.Context, userHandle, text string) (int64, error)
	// GetLastN returns the newest n messages of a handle in chronological order.
	GetLastN(ctx context.Context, userHandle string, n int) ([]StoredMessage, error)
}
