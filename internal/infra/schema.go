package infra

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGINT PRIMARY KEY,
		first_name TEXT,
		last_name  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id          BIGSERIAL PRIMARY KEY,
		user_handle TEXT NOT NULL,
		text        TEXT,
		created_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_handle_id ON messages (user_handle, id DESC)`,
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
