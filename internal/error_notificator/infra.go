package error_notificator

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Infra struct {
	bot         sender
	adminChatID int64
	log         *zap.Logger
}

// NewInfra; adminChatID 0 turns notifications off.
func NewInfra(bot sender, adminChatID int64, log *zap.Logger) *Infra {
	return &Infra{bot: bot, adminChatID: adminChatID, log: log}
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	if i.adminChatID == 0 || i.bot == nil {
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в боте\n\nОшибка: %v\n\nДетали: %s",
		err,
		details,
	)

	if _, sendErr := i.bot.Send(tgbotapi.NewMessage(i.adminChatID, text)); sendErr != nil {
		i.log.Warn("admin notification failed", zap.Int64("admin_chat_id", i.adminChatID), zap.Error(sendErr))
		return sendErr
	}
	return nil
}
