package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

type fakeBot struct {
	mu sync.Mutex

	deleteWebhook int
	webhooks      []string
	offsets       []int
	sent          []tgbotapi.MessageConfig

	// getUpdates answers the n-th (0-based) fetch.
	getUpdates func(n int) (string, error)
	sendErr    error
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch cfg := c.(type) {
	case tgbotapi.DeleteWebhookConfig:
		b.deleteWebhook++
		return &tgbotapi.APIResponse{Ok: true, Result: []byte("true")}, nil
	case tgbotapi.WebhookConfig:
		b.webhooks = append(b.webhooks, cfg.URL.String())
		return &tgbotapi.APIResponse{Ok: true, Result: []byte("true")}, nil
	case tgbotapi.UpdateConfig:
		n := len(b.offsets)
		b.offsets = append(b.offsets, cfg.Offset)
		result, err := b.getUpdates(n)
		if err != nil {
			return nil, err
		}
		return &tgbotapi.APIResponse{Ok: true, Result: []byte(result)}, nil
	}
	return nil, errors.New("unexpected request")
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return tgbotapi.Message{}, b.sendErr
	}
	b.sent = append(b.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

type fakeConversation struct {
	mu   sync.Mutex
	msgs []ports.IncomingMessage
	errs map[string]error // by text
}

func (c *fakeConversation) Handle(_ context.Context, msg ports.IncomingMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return c.errs[msg.Text]
}

func (c *fakeConversation) texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, m := range c.msgs {
		out = append(out, m.Text)
	}
	return out
}

type fakeNotifier struct {
	errs []error
}

func (n *fakeNotifier) Notify(_ context.Context, err error, _ string) error {
	n.errs = append(n.errs, err)
	return nil
}
