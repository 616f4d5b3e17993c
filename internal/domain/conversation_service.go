package domain

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

// SoftFailure means the reply went out but some bookkeeping step degraded.
type SoftFailure struct {
	Err error
}

func (e *SoftFailure) Error() string { return "pipeline degraded: " + e.Err.Error() }

func (e *SoftFailure) Unwrap() []error { return multierr.Errors(e.Err) }

type conversationService struct {
	users        ports.UserService
	messages     ports.MessageService
	asker        ports.Asker
	out          ports.Outbound
	contextLimit int
}

func NewConversationService(
	users ports.UserService,
	messages ports.MessageService,
	asker ports.Asker,
	out ports.Outbound,
	contextLimit int,
) ports.ConversationService {
	if contextLimit <= 0 {
		contextLimit = ports.DefaultContextLimit
	}
	return &conversationService{
		users:        users,
		messages:     messages,
		asker:        asker,
		out:          out,
		contextLimit: contextLimit,
	}
}

// Handle runs one message through upsert → save → context → AI → reply.
// Only a failed reply send is returned as a hard error; everything before it
// is collected into a *SoftFailure.
func (s *conversationService) Handle(ctx context.Context, msg ports.IncomingMessage) error {
	var soft error

	// 1. профиль
	if err := s.users.EnsureUser(ctx, ports.ChatUser{
		ID:        msg.ChatID,
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
	}); err != nil {
		soft = multierr.Append(soft, fmt.Errorf("ensure user %d: %w", msg.ChatID, err))
	}

	// 2. история
	if err := s.messages.SaveMessage(ctx, msg.SenderHandle, msg.Text); err != nil {
		soft = multierr.Append(soft, fmt.Errorf("save message for %q: %w", msg.SenderHandle, err))
	}

	// 3. контекст; при ошибке окно пустое
	window, err := s.messages.GetContext(ctx, msg.SenderHandle, s.contextLimit)
	if err != nil {
		soft = multierr.Append(soft, fmt.Errorf("read context for %q: %w", msg.SenderHandle, err))
		window.Entries = nil
	}

	// 4. AI: текст пригоден к отправке в любом случае
	reply, err := s.asker.Ask(ctx, window.Render(), msg.Text)
	if err != nil {
		soft = multierr.Append(soft, err)
	}

	// 5. ответ
	if err := s.out.SendToChat(ctx, msg.ChatID, reply); err != nil {
		return multierr.Append(fmt.Errorf("%w: chat %d: %w", ports.ErrDispatch, msg.ChatID, err), soft)
	}

	if soft != nil {
		return &SoftFailure{Err: soft}
	}
	return nil
}
