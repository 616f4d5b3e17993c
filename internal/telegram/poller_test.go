package telegram

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

func textUpdate(id int, chatID int64, username, text string) string {
	return fmt.Sprintf(`{"update_id":%d,"message":{"message_id":%d,"date":1700000000,"text":%q,"chat":{"id":%d,"type":"private","username":%q}}}`,
		id, id, text, chatID, username)
}

func newTestPoller(bot *fakeBot, conv *fakeConversation) (*Poller, *[]time.Duration) {
	p := NewPoller(bot, NewDispatcher(conv, nil, zap.NewNop()), 30, zap.NewNop())
	var delays []time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return p, &delays
}

func TestPollerProcessesBatchInOrderAndAdvancesOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot := &fakeBot{}
	bot.getUpdates = func(n int) (string, error) {
		if n == 0 {
			return "[" + textUpdate(10, 42, "alice", "first") + "," +
				`{"update_id":11,"message":{"date":1,"chat":{"id":42},"sticker":{}}}` + "," +
				textUpdate(12, 43, "bob", "second") + "]", nil
		}
		cancel()
		return "[]", nil
	}
	conv := &fakeConversation{}
	p, delays := newTestPoller(bot, conv)

	err := p.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"first", "second"}, conv.texts())
	assert.Equal(t, "alice", conv.msgs[0].SenderHandle)
	assert.Equal(t, int64(43), conv.msgs[1].ChatID)
	assert.Equal(t, []int{0, 13}, bot.offsets)
	assert.Equal(t, 2, bot.deleteWebhook)
	assert.Empty(t, *delays)
}

func TestPollerKeepsRetryingFetchFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot := &fakeBot{getUpdates: func(int) (string, error) {
		return "", errors.New("Bad Gateway")
	}}
	p, _ := newTestPoller(bot, &fakeConversation{})

	var delays []time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		if len(delays) == 5 {
			cancel()
		}
		return nil
	}

	err := p.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, bot.offsets, 5)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second}, delays)
}

func TestPollerDispatchFailureRestartsAfterFailedUpdate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot := &fakeBot{}
	bot.getUpdates = func(n int) (string, error) {
		switch n {
		case 0:
			return "[" + textUpdate(20, 1, "a", "boom") + "," + textUpdate(21, 1, "a", "later") + "]", nil
		case 1:
			return "[" + textUpdate(21, 1, "a", "later") + "]", nil
		}
		cancel()
		return "[]", nil
	}
	conv := &fakeConversation{errs: map[string]error{
		"boom": fmt.Errorf("%w: blocked", ports.ErrDispatch),
	}}
	notifier := &fakeNotifier{}
	p, delays := newTestPoller(bot, conv)
	p.dispatcher = NewDispatcher(conv, notifier, zap.NewNop())

	require.ErrorIs(t, p.Run(ctx), context.Canceled)

	assert.Equal(t, []string{"boom", "later"}, conv.texts())
	assert.Equal(t, []int{0, 21, 22}, bot.offsets)
	assert.Equal(t, []time.Duration{DefaultPollRetryDelay}, *delays)
	require.Len(t, notifier.errs, 1)
	assert.ErrorIs(t, notifier.errs[0], ports.ErrDispatch)
}

func TestPollerSkipsMalformedUpdateWithID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot := &fakeBot{}
	bot.getUpdates = func(n int) (string, error) {
		if n == 0 {
			return `[{"update_id":5,"message":{"date":"never","text":"x","chat":{"id":1}}},` + textUpdate(6, 1, "a", "ok") + "]", nil
		}
		cancel()
		return "[]", nil
	}
	conv := &fakeConversation{}
	p, delays := newTestPoller(bot, conv)

	require.ErrorIs(t, p.Run(ctx), context.Canceled)
	assert.Equal(t, []string{"ok"}, conv.texts())
	assert.Equal(t, []int{0, 7}, bot.offsets)
	assert.Empty(t, *delays)
}

func TestPollerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bot := &fakeBot{getUpdates: func(int) (string, error) { return "[]", nil }}
	p, _ := newTestPoller(bot, &fakeConversation{})

	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
	assert.Empty(t, bot.offsets)
}

// cancellingConversation stops the poller mid-pipeline and then replies.
type cancellingConversation struct {
	cancel context.CancelFunc
	out    *Sender
}

func (c *cancellingConversation) Handle(ctx context.Context, msg ports.IncomingMessage) error {
	c.cancel()
	return c.out.SendToChat(ctx, msg.ChatID, "reply for "+msg.Text)
}

func TestPollerShutdownLetsStartedUpdateFinish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot := &fakeBot{getUpdates: func(n int) (string, error) {
		if n == 0 {
			return "[" + textUpdate(30, 77, "carol", "bye") + "]", nil
		}
		return "[]", nil
	}}
	conv := &cancellingConversation{cancel: cancel, out: NewSender(bot)}
	p := NewPoller(bot, NewDispatcher(conv, nil, zap.NewNop()), 30, zap.NewNop())

	require.ErrorIs(t, p.Run(ctx), context.Canceled)
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(77), bot.sent[0].ChatID)
	assert.Equal(t, "reply for bye", bot.sent[0].Text)
	assert.Len(t, bot.offsets, 1)
}

func TestPollerSkipsItemWithoutUpdateID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot := &fakeBot{}
	bot.getUpdates = func(n int) (string, error) {
		if n == 0 {
			return `[{"message":{"date":1,"text":"lost","chat":{"id":1}}},"junk",` + textUpdate(8, 1, "a", "ok") + "]", nil
		}
		cancel()
		return "[]", nil
	}
	conv := &fakeConversation{}
	p, delays := newTestPoller(bot, conv)

	require.ErrorIs(t, p.Run(ctx), context.Canceled)
	assert.Equal(t, []string{"ok"}, conv.texts())
	assert.Equal(t, []int{0, 9}, bot.offsets)
	assert.Empty(t, *delays)
}

func TestPollerLogsEachFailureOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot := &fakeBot{}
	bot.getUpdates = func(n int) (string, error) {
		switch n {
		case 0:
			return "[" + textUpdate(40, 1, "a", "boom") + "]", nil
		case 1:
			return "", errors.New("Bad Gateway")
		}
		cancel()
		return "[]", nil
	}
	conv := &fakeConversation{errs: map[string]error{
		"boom": fmt.Errorf("%w: blocked", ports.ErrDispatch),
	}}

	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)
	p := NewPoller(bot, NewDispatcher(conv, nil, log), 30, log)
	p.sleep = func(context.Context, time.Duration) error { return nil }

	require.ErrorIs(t, p.Run(ctx), context.Canceled)
	assert.Equal(t, 1, logs.FilterMessage("pipeline failed").Len())
	// только ошибка getUpdates
	require.Equal(t, 1, logs.FilterMessage("long polling error").Len())
	assert.Contains(t, logs.FilterMessage("long polling error").All()[0].ContextMap()["error"], "Bad Gateway")
}
