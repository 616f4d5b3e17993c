package domain

import (
	"context"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

type userService struct {
	repo ports.UserRepo
}

func NewUserService(repo ports.UserRepo) ports.UserService {
	return &userService{repo: repo}
}

// EnsureUser is a single attempt; profile bookkeeping is not worth a retry.
func (s *userService) EnsureUser(ctx context.Context, u ports.ChatUser) error {
	return s.repo.InsertIfAbsent(ctx, u)
}
