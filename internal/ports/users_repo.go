package ports

import "context"

type ChatUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserRepo interface {
	// InsertIfAbsent never updates an existing row.
	InsertIfAbsent(ctx context.Context, u ChatUser) error
}

type UserService interface {
	EnsureUser(ctx context.Context, u ChatUser) error
}
