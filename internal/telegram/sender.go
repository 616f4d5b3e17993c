package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

// botAPI is the part of *tgbotapi.BotAPI this package uses.
type botAPI interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

const maxMessageRunes = 4096

type Sender struct {
	bot botAPI
}

func NewSender(bot botAPI) *Sender {
	return &Sender{bot: bot}
}

var _ ports.Outbound = (*Sender)(nil)

// SendToChat splits text over Telegram's message size limit.
func (s *Sender) SendToChat(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range splitRunes(text, maxMessageRunes) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return err
		}
	}
	return nil
}

func splitRunes(text string, limit int) []string {
	r := []rune(text)
	if len(r) <= limit {
		return []string{text}
	}
	var out []string
	for len(r) > limit {
		out = append(out, string(r[:limit]))
		r = r[limit:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}
