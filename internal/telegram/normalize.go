package telegram

import (
	"strconv"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

// ResolveHandle picks username, then first name, then the chat id.
func ResolveHandle(username, firstName string, chatID int64) string {
	switch {
	case username != "":
		return username
	case firstName != "":
		return firstName
	default:
		return strconv.FormatInt(chatID, 10)
	}
}

// FromUpdate returns nil for updates that carry no text message.
func FromUpdate(u Update) *ports.IncomingMessage {
	if u.Message == nil || u.Message.Text == "" {
		return nil
	}
	chat := u.Message.Chat
	return &ports.IncomingMessage{
		ChatID:       chat.ID,
		SenderHandle: ResolveHandle(chat.Username, chat.FirstName, chat.ID),
		FirstName:    chat.FirstName,
		LastName:     chat.LastName,
		Text:         u.Message.Text,
	}
}

// Normalize decodes raw and converts it; (nil, nil) means skip.
func Normalize(raw []byte) (*ports.IncomingMessage, error) {
	u, err := DecodeUpdate(raw)
	if err != nil {
		return nil, err
	}
	return FromUpdate(u), nil
}
