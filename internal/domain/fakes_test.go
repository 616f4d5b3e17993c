package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

// memStore is an in-memory stand-in for the Postgres repos.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]ports.ChatUser
	messages []ports.StoredMessage

	userErr   error
	createErr []error // consumed one per CreateText call
	readErr   error
	creates   int
}

func newMemStore() *memStore {
	return &memStore{users: map[int64]ports.ChatUser{}}
}

func (m *memStore) InsertIfAbsent(_ context.Context, u ports.ChatUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userErr != nil {
		return m.userErr
	}
	if _, ok := m.users[u.ID]; !ok {
		m.users[u.ID] = u
	}
	return nil
}

func (m *memStore) CreateText(_ context.Context, handle, text string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if len(m.createErr) > 0 {
		err := m.createErr[0]
		m.createErr = m.createErr[1:]
		if err != nil {
			return 0, err
		}
	}
	id := int64(len(m.messages) + 1)
	m.messages = append(m.messages, ports.StoredMessage{
		ID:         id,
		UserHandle: handle,
		Text:       text,
		CreatedAt:  time.Date(2024, 1, 1, 0, int(id), 0, 0, time.UTC),
	})
	return id, nil
}

func (m *memStore) GetLastN(_ context.Context, handle string, n int) ([]ports.StoredMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []ports.StoredMessage
	for i := len(m.messages) - 1; i >= 0 && len(out) < n; i-- {
		if m.messages[i].UserHandle == handle {
			out = append([]ports.StoredMessage{m.messages[i]}, out...)
		}
	}
	return out, nil
}

type fakeAsker struct {
	reply string
	err   error

	gotContext string
	gotText    string
}

func (a *fakeAsker) Ask(_ context.Context, contextText, newText string) (string, error) {
	a.gotContext = contextText
	a.gotText = newText
	return a.reply, a.err
}

type sent struct {
	chatID int64
	text   string
}

type fakeOutbound struct {
	sent []sent
	err  error
}

func (o *fakeOutbound) SendToChat(_ context.Context, chatID int64, text string) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, sent{chatID, text})
	return nil
}

func transient() error {
	return fmt.Errorf("insert message: %w: conn refused", ports.ErrTransientStorage)
}
