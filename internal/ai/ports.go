package ai

import (
	"context"
	"errors"
)

// GenerationConfig is built once at startup and shared by every request.
type GenerationConfig struct {
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TopK            int
}

var DefaultGeneration = GenerationConfig{
	Temperature:     0.7,
	MaxOutputTokens: 1024,
	TopP:            0.8,
	TopK:            40,
}

// Provider sends one prompt to a completion backend. Errors must wrap one of
// ErrRequest, ErrNoAnswer or ErrBadResponse.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	ErrRequest     = errors.New("request failed")
	ErrNoAnswer    = errors.New("answer path missing")
	ErrBadResponse = errors.New("response not parseable")
)
