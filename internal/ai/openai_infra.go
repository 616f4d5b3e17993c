package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client *openai.Client
	model  string
	gen    GenerationConfig
}

// NewOpenAIClient; baseURL is optional and mostly useful for proxies and tests.
func NewOpenAIClient(apiKey, baseURL, model string, gen GenerationConfig) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		gen:    gen,
	}
}

// Generate; top-k has no OpenAI equivalent and is ignored.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(c.gen.Temperature),
		TopP:        float32(c.gen.TopP),
		MaxTokens:   c.gen.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", ErrRequest, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrNoAnswer
	}
	return resp.Choices[0].Message.Content, nil
}
