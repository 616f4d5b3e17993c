package error_notificator

import (
	"context"
	"sync"
	"time"
)

const DefaultCooldown = 5 * time.Minute

// Service drops repeats of the same error text within cooldown, so an outage
// produces one admin message instead of one per update.
type Service struct {
	infra    Notificator
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewService(infra Notificator) *Service {
	return &Service{
		infra:    infra,
		cooldown: DefaultCooldown,
		now:      time.Now,
		lastSent: map[string]time.Time{},
	}
}

func (s *Service) Notify(ctx context.Context, err error, details string) error {
	if err == nil {
		return nil
	}
	key := err.Error()
	now := s.now()

	s.mu.Lock()
	if at, ok := s.lastSent[key]; ok && now.Sub(at) < s.cooldown {
		s.mu.Unlock()
		return nil
	}
	s.lastSent[key] = now
	// старые ключи не копим
	for k, at := range s.lastSent {
		if now.Sub(at) >= s.cooldown {
			delete(s.lastSent, k)
		}
	}
	s.mu.Unlock()

	return s.infra.Notify(ctx, err, details)
}
