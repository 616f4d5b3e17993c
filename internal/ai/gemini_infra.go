package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.0-flash"
)

type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	gen     GenerationConfig
	client  *http.Client
}

func NewGeminiClient(apiKey, baseURL, model string, gen GenerationConfig) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		gen:     gen,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

// text stays raw so a missing field can be told apart from a wrong type.
type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text json.RawMessage `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		c.baseURL, url.PathEscape(c.model))
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.gen.Temperature,
			MaxOutputTokens: c.gen.MaxOutputTokens,
			TopP:            c.gen.TopP,
			TopK:            c.gen.TopK,
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encode: %v", ErrRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	// ключ только в заголовке: *url.Error печатает полный URL
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", fmt.Errorf("%w: gemini request: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrRequest, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: gemini status %s: %s", ErrRequest, resp.Status, bytes.TrimSpace(body))
	}

	return extractGeminiText(body)
}

// extractGeminiText walks candidates[0].content.parts[0].text.
func extractGeminiText(body []byte) (string, error) {
	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if len(parsed.Candidates) == 0 ||
		parsed.Candidates[0].Content == nil ||
		len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoAnswer
	}

	raw := parsed.Candidates[0].Content.Parts[0].Text
	if len(raw) == 0 || string(raw) == "null" {
		return "", ErrNoAnswer
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("%w: text: %v", ErrBadResponse, err)
	}
	return text, nil
}
