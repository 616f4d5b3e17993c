package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

type messageService struct {
	repo   ports.MessageRepo
	policy ports.RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
	log    *zap.Logger
}

func NewMessageService(repo ports.MessageRepo, policy ports.RetryPolicy, log *zap.Logger) ports.MessageService {
	if policy.Attempts <= 0 {
		policy = ports.DefaultRetryPolicy
	}
	return &messageService{
		repo:   repo,
		policy: policy,
		sleep:  sleepCtx,
		log:    log,
	}
}

// SaveMessage retries only transient failures, waiting Step*attempt after
// each one (3s, 6s, 9s with the default policy).
func (s *messageService) SaveMessage(ctx context.Context, userHandle, text string) error {
	var lastErr error
	for attempt := 1; attempt <= s.policy.Attempts; attempt++ {
		_, err := s.repo.CreateText(ctx, userHandle, text)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ports.ErrTransientStorage) {
			return err
		}

		lastErr = err
		s.log.Warn("storage unavailable, retrying message write",
			zap.String("handle", userHandle),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.policy.Attempts),
		)
		if err := s.sleep(ctx, time.Duration(attempt)*s.policy.Step); err != nil {
			return fmt.Errorf("save message: %w", err)
		}
	}
	return fmt.Errorf("save message after %d attempts: %w", s.policy.Attempts, lastErr)
}

func (s *messageService) GetContext(ctx context.Context, userHandle string, limit int) (ports.ContextWindow, error) {
	if limit <= 0 {
		limit = ports.DefaultContextLimit
	}
	window := ports.ContextWindow{Handle: userHandle}

	entries, err := s.repo.GetLastN(ctx, userHandle, limit)
	if err != nil {
		return window, err
	}
	window.Entries = entries
	return window, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
