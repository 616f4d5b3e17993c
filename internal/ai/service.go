package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vovarama1992/tg_memory_bot/internal/ports"
)

// Фиксированные ответы пользователю; различаются только в логах.
const (
	ReplyApology         = "Lo siento, ocurrió un error al procesar la petición."
	ReplyNoAnswer        = "No se recibió respuesta"
	ReplyProcessingError = "Error procesando la respuesta JSON"
)

const promptTemplate = "Contexto previo:\n%s\n\nNueva entrada:\n%s\n\nRespuesta:"

func BuildPrompt(contextText, newText string) string {
	return fmt.Sprintf(promptTemplate, contextText, newText)
}

type Service struct {
	provider Provider
	name     string
}

func NewService(provider Provider, name string) *Service {
	return &Service{provider: provider, name: name}
}

var _ ports.Asker = (*Service)(nil)

// Ask never fails from the caller's point of view: on any provider problem
// it returns one of the fixed replies together with an error wrapping
// ports.ErrAIBackend.
func (s *Service) Ask(ctx context.Context, contextText, newText string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply = ReplyApology
			err = fmt.Errorf("%w: %s: panic: %v", ports.ErrAIBackend, s.name, r)
		}
	}()

	text, err := s.provider.Generate(ctx, BuildPrompt(contextText, newText))
	switch {
	case err == nil:
		if strings.TrimSpace(text) == "" {
			return ReplyNoAnswer, fmt.Errorf("%w: %s: %w", ports.ErrAIBackend, s.name, ErrNoAnswer)
		}
		return text, nil
	case errors.Is(err, ErrNoAnswer):
		return ReplyNoAnswer, fmt.Errorf("%w: %s: %w", ports.ErrAIBackend, s.name, err)
	case errors.Is(err, ErrBadResponse):
		return ReplyProcessingError, fmt.Errorf("%w: %s: %w", ports.ErrAIBackend, s.name, err)
	default:
		return ReplyApology, fmt.Errorf("%w: %s: %w", ports.ErrAIBackend, s.name, err)
	}
}
