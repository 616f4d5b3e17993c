package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vovarama1992/tg_memory_bot/internal/domain"
	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

type Notifier interface {
	Notify(ctx context.Context, err error, details string) error
}

// Dispatcher is the single place where pipeline outcomes are logged.
type Dispatcher struct {
	conv   ports.ConversationService
	notify Notifier
	log    *zap.Logger
}

func NewDispatcher(conv ports.ConversationService, notify Notifier, log *zap.Logger) *Dispatcher {
	return &Dispatcher{conv: conv, notify: notify, log: log}
}

// Dispatch returns only hard failures; soft ones are logged and dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, source string, updateID int, msg ports.IncomingMessage) (err error) {
	start := time.Now()
	log := d.log.With(
		zap.String("trace_id", uuid.NewString()),
		zap.String("source", source),
		zap.Int("update_id", updateID),
		zap.Int64("chat_id", msg.ChatID),
		zap.String("handle", msg.SenderHandle),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
			log.Error("pipeline panic", zap.Any("panic", r))
		}
	}()

	err = d.conv.Handle(ctx, msg)

	var soft *domain.SoftFailure
	switch {
	case err == nil:
		log.Info("reply sent", zap.Duration("took", time.Since(start)))
		return nil
	case errors.As(err, &soft):
		log.Warn("reply sent, pipeline degraded", zap.Error(soft.Err), zap.Duration("took", time.Since(start)))
		return nil
	default:
		log.Error("pipeline failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		if d.notify != nil {
			_ = d.notify.Notify(ctx, err, fmt.Sprintf("source=%s update=%d chat=%d handle=%s",
				source, updateID, msg.ChatID, msg.SenderHandle))
		}
		return err
	}
}
