package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const WebhookPath = "/bot/update"

type Mode string

const (
	ModePush Mode = "webhook"
	ModePull Mode = "polling"
)

// BotApp picks exactly one transport for the life of the process: webhook
// when a public base URL is configured, long polling otherwise.
type BotApp struct {
	bot     botAPI
	poller  *Poller
	baseURL string
	log     *zap.Logger
}

func NewBotApp(bot botAPI, poller *Poller, baseURL string, log *zap.Logger) *BotApp {
	return &BotApp{
		bot:     bot,
		poller:  poller,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		log:     log,
	}
}

func (app *BotApp) Mode() Mode {
	if app.baseURL != "" {
		return ModePush
	}
	return ModePull
}

// Start registers the webhook, or launches the poller and returns a channel
// closed when it stops.
func (app *BotApp) Start(ctx context.Context) (<-chan struct{}, error) {
	done := make(chan struct{})

	if app.Mode() == ModePush {
		url := app.baseURL + WebhookPath
		wh, err := tgbotapi.NewWebhook(url)
		if err != nil {
			return nil, fmt.Errorf("build webhook: %w", err)
		}
		if _, err := app.bot.Request(wh); err != nil {
			return nil, fmt.Errorf("set webhook: %w", err)
		}
		app.log.Info("webhook registered", zap.String("url", url))
		close(done)
		return done, nil
	}

	go func() {
		defer close(done)
		_ = app.poller.Run(ctx)
	}()
	return done, nil
}
