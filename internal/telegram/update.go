package telegram

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

// Update is the subset of a Telegram update both transports decode into.
type Update struct {
	UpdateID      int      `json:"update_id"`
	Message       *Message `json:"message"`
	EditedMessage *Message `json:"edited_message"`
}

type Message struct {
	MessageID int      `json:"message_id"`
	Date      UnixTime `json:"date"`
	Chat      Chat     `json:"chat"`
	Text      string   `json:"text"`
}

type Chat struct {
	ID        int64    `json:"id"`
	Type      ChatType `json:"type"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
}

// UnmarshalJSON also accepts the camelCase keys (firstName, lastName) some
// relays re-encode updates with.
func (c *Chat) UnmarshalJSON(b []byte) error {
	type plain Chat
	var aux struct {
		plain
		FirstNameCamel string `json:"firstName"`
		LastNameCamel  string `json:"lastName"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = Chat(aux.plain)
	if c.FirstName == "" {
		c.FirstName = aux.FirstNameCamel
	}
	if c.LastName == "" {
		c.LastName = aux.LastNameCamel
	}
	return nil
}

type ChatType string

const (
	ChatPrivate    ChatType = "private"
	ChatGroup      ChatType = "group"
	ChatSupergroup ChatType = "supergroup"
	ChatChannel    ChatType = "channel"
)

// UnmarshalJSON matches the name case-insensitively.
func (t *ChatType) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("chat type: %w", err)
	}
	*t = ChatType(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// UnixTime decodes integer seconds since epoch and falls back to a textual
// timestamp for anything else.
type UnixTime struct {
	time.Time
}

var fallbackLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (u *UnixTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		u.Time = time.Time{}
		return nil
	}

	if secs, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		u.Time = time.Unix(secs, 0).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp %s: not an integer or string", b)
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u.Time = t
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unrecognised format", s)
}

func (u UnixTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(u.Unix(), 10)), nil
}

// DecodeUpdate parses one raw update.
func DecodeUpdate(raw []byte) (Update, error) {
	var u Update
	if err := json.Unmarshal(raw, &u); err != nil {
		return Update{}, fmt.Errorf("%w: %v", ports.ErrMalformedEvent, err)
	}
	return u, nil
}
