package infra

import (
	"context"
	"database/sql"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) ports.UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) InsertIfAbsent(ctx context.Context, u ports.ChatUser) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, u.ID, u.FirstName, u.LastName)
	return classify("insert user", err)
}
