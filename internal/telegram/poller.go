package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

const DefaultPollRetryDelay = 2 * time.Second

// errDispatched marks failures the Dispatcher has already logged.
var errDispatched = errors.New("update dispatch failed")

// Poller is the long-poll transport. The offset is owned by Run's goroutine
// and lives only as long as the process.
type Poller struct {
	bot        botAPI
	dispatcher *Dispatcher
	log        *zap.Logger

	timeout    int
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error

	offset int
}

func NewPoller(bot botAPI, dispatcher *Dispatcher, timeoutSeconds int, log *zap.Logger) *Poller {
	return &Poller{
		bot:        bot,
		dispatcher: dispatcher,
		log:        log,
		timeout:    timeoutSeconds,
		retryDelay: DefaultPollRetryDelay,
		sleep:      sleepCtx,
	}
}

// Run loops until ctx is cancelled. Any error restarts the iteration after
// retryDelay.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("long polling started", zap.Int("timeout_s", p.timeout))
	for {
		if err := ctx.Err(); err != nil {
			p.log.Info("long polling stopped", zap.Int("offset", p.offset))
			return err
		}

		if err := p.pollOnce(ctx); err != nil {
			if !errors.Is(err, errDispatched) {
				p.log.Error("long polling error", zap.Error(err), zap.Int("offset", p.offset))
			}
			_ = p.sleep(ctx, p.retryDelay)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) error {
	// webhook и getUpdates взаимоисключающие
	if _, err := p.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	cfg := tgbotapi.NewUpdate(p.offset)
	cfg.Timeout = p.timeout
	resp, err := p.bot.Request(cfg)
	if err != nil {
		return fmt.Errorf("get updates: %w", err)
	}

	var batch []json.RawMessage
	if err := json.Unmarshal(resp.Result, &batch); err != nil {
		return fmt.Errorf("%w: updates batch: %v", ports.ErrMalformedEvent, err)
	}

	for _, raw := range batch {
		id, err := updateID(raw)
		if err != nil {
			// без id сдвинуть курсор нельзя; остальной батч не блокируем
			p.log.Warn("skip update without id", zap.Error(err), zap.ByteString("raw", raw))
			continue
		}
		// сдвигаем до обработки: упавший апдейт не вернётся в этот цикл
		p.offset = id + 1

		u, err := DecodeUpdate(raw)
		if err != nil {
			p.log.Warn("skip malformed update", zap.Int("update_id", id), zap.Error(err))
			continue
		}
		msg := FromUpdate(u)
		if msg == nil {
			continue
		}

		// отмена ctx не прерывает уже начатую обработку
		if err := p.dispatcher.Dispatch(context.WithoutCancel(ctx), "polling", id, *msg); err != nil {
			return fmt.Errorf("%w: update %d: %w", errDispatched, id, err)
		}
	}
	return nil
}

func updateID(raw []byte) (int, error) {
	var head struct {
		UpdateID *int `json:"update_id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.UpdateID == nil {
		return 0, fmt.Errorf("%w: update without update_id", ports.ErrMalformedEvent)
	}
	return *head.UpdateID, nil
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
